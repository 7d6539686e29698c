package server

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	Engine *gin.Engine
	Addr   string
	db     *sql.DB
	cache  HealthChecker
}

// HealthChecker is an interface for components that can report their health status.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

func New(addr string, db *sql.DB, cacheChecker HealthChecker, mode string) *Server {
	if mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID())

	s := &Server{
		Engine: r,
		Addr:   addr,
		db:     db,
		cache:  cacheChecker,
	}

	r.GET("/", s.rootHandler)
	r.GET("/health", s.healthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return s
}

func (s *Server) rootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "API Vendas Real Time",
		"status":  "online",
	})
}

// healthHandler verifies database connectivity and reports cache reachability.
// An unreachable cache never makes the service unhealthy: the report path
// degrades to database-only.
func (s *Server) healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if s.db != nil {
		if err := s.db.PingContext(ctx); err != nil {
			slog.Error("Health check failed: database unreachable", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}
	}

	redisStatus := "connected"
	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			redisStatus = "disconnected"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"database":  "connected",
		"redis":     redisStatus,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.Addr,
		Handler: s.Engine,
	}

	slog.Info("Starting HTTP Server...", "address", s.Addr)

	go func() {
		<-ctx.Done()
		slog.Info("Stopping HTTP Server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP Server forced to shutdown", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
