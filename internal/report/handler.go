package report

import (
	"errors"
	"log/slog"
	"net/http"

	httperr "github.com/marcelobragadossantos/api-realtime/internal/core/errors"
	"github.com/marcelobragadossantos/api-realtime/internal/core/window"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the report API routes. The caller is expected to
// pass an authenticated router group.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/vendas-realtime", s.HandleVendasRealtime)
	r.DELETE("/cache", s.HandleClearCache)
}

// HandleVendasRealtime handles GET /vendas-realtime.
// Query parameters: data (single date) or data_inicio+data_fim (range);
// no parameters means today. A single-day query additionally dispatches the
// month prewarm after the report is resolved.
func (s *Service) HandleVendasRealtime(c *gin.Context) {
	res, err := window.Resolve(
		c.Query("data"),
		c.Query("data_inicio"),
		c.Query("data_fim"),
		s.nowFn(),
	)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: resolveErrorType(err),
			Message:   err.Error(),
		})
		return
	}

	rep, err := s.Resolve(c.Request.Context(), res.Window)
	if err != nil {
		slog.Error("[Report] Sales query failed",
			"periodo_inicio", res.Window.FormatStart(),
			"periodo_fim", res.Window.FormatEnd(),
			"error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpQueryError,
			Message:   "Failed to query sales",
			Details:   err.Error(),
		})
		return
	}

	if res.SingleDay && s.dispatcher != nil {
		if err := s.dispatcher.DispatchMonthPrewarm(res.Reference); err != nil {
			// Prewarm is opportunistic; the request already has its answer.
			slog.Warn("[Report] Month prewarm dispatch failed",
				"reference", res.Reference.Format(window.DateLayout),
				"error", err)
		}
	}

	c.JSON(http.StatusOK, rep)
}

// HandleClearCache handles DELETE /cache, removing every report entry under
// the cache key prefix.
func (s *Service) HandleClearCache(c *gin.Context) {
	removed, err := s.ClearCache(c.Request.Context())
	if err != nil {
		slog.Error("[Report] Cache clear failed", "error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to clear cache",
			Details:   err.Error(),
		})
		return
	}

	slog.Info("[Report] Cache cleared", "removed", removed)
	c.JSON(http.StatusOK, gin.H{
		"message": "Cache limpo com sucesso",
		"removed": removed,
	})
}

func resolveErrorType(err error) string {
	switch {
	case errors.Is(err, window.ErrInvalidDateFormat):
		return httperr.HttpInvalidDateError
	case errors.Is(err, window.ErrIncompleteRange):
		return httperr.HttpIncompleteRangeError
	case errors.Is(err, window.ErrInvalidRange):
		return httperr.HttpInvalidRangeError
	default:
		return httperr.HttpInternalError
	}
}
