package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/marcelobragadossantos/api-realtime/internal/cache"
	"github.com/marcelobragadossantos/api-realtime/internal/core/config"
	"github.com/marcelobragadossantos/api-realtime/internal/core/storage/postgres"
	"github.com/marcelobragadossantos/api-realtime/internal/prewarm"
	"github.com/marcelobragadossantos/api-realtime/internal/report"
	"github.com/marcelobragadossantos/api-realtime/internal/server"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (optional; VENDAS_ env vars apply on top)")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded config",
		"addr", fmtAddr(cfg.Server.Host, cfg.Server.Port),
		"cache_ttl", cfg.Cache.TTL(),
		"cache_prefix", cfg.Cache.KeyPrefix,
		"prewarm_enabled", cfg.Prewarm.Enabled)

	// 2. Initialize Storage (PostgreSQL, read-only ERP schema)
	dbAdapter, err := postgres.NewAdapter(
		cfg.Database.DSN,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
	)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer dbAdapter.Close()

	// 3. Initialize Cache (Redis, best-effort accelerator)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		Password: cfg.Redis.Password,
	})
	defer redisClient.Close()

	cacheStore := cache.NewRedisStore(redisClient)

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cacheStore.Ping(pingCtx); err != nil {
		// The service still runs: every request degrades to a database query.
		slog.Warn("Redis unreachable at startup, serving database-only until it recovers", "error", err)
	}
	cancelPing()

	// 4. Initialize Prewarm Dispatch (fire-and-forget month cache population)
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		Password: cfg.Redis.Password,
	}

	var dispatcher report.Dispatcher
	if cfg.Prewarm.Enabled {
		enqueuer := prewarm.NewEnqueuer(redisOpt)
		defer enqueuer.Close()
		dispatcher = enqueuer
	} else {
		slog.Info("Month prewarm disabled by config")
	}

	// 5. Initialize Report Service (window cache over the sales store)
	reportSvc := report.NewService(dbAdapter, cacheStore, dispatcher, cfg.Cache.KeyPrefix, cfg.Cache.TTL())

	// 6. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), dbAdapter.DB(), cacheStore, cfg.Server.Mode)
	protected := srv.Engine.Group("/", server.RequireSecretKey(cfg.Auth.SecretKey))
	reportSvc.RegisterRoutes(protected)

	// 7. Start Services
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Run(ctx)
	})

	if cfg.Prewarm.Enabled {
		worker := prewarm.NewWorker(redisOpt, prewarm.NewHandler(reportSvc), cfg.Prewarm.Concurrency)
		g.Go(func() error {
			return worker.Run(ctx)
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("Service stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
