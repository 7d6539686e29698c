package prewarm

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/marcelobragadossantos/api-realtime/internal/core/window"
	"github.com/marcelobragadossantos/api-realtime/internal/report"
)

// Handler executes month prewarm tasks. Every failure is logged and discarded:
// the handler always returns nil so the queue never retries and no failure can
// reach request-visible state.
type Handler struct {
	reports *report.Service
}

// NewHandler creates a prewarm task handler.
func NewHandler(reports *report.Service) *Handler {
	return &Handler{reports: reports}
}

// HandleMonthPrewarm resolves the calendar month containing the payload's
// reference date. If the month window is already cached it does nothing;
// otherwise the report service's normal write-through populates the entry.
func (h *Handler) HandleMonthPrewarm(ctx context.Context, t *asynq.Task) error {
	var payload Payload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		slog.Error("[Prewarm] Failed to decode payload", "error", err)
		Runs.WithLabelValues("failed").Inc()
		return nil
	}

	ref, err := time.ParseInLocation(window.DateLayout, payload.ReferenceDate, window.Location)
	if err != nil {
		slog.Error("[Prewarm] Invalid reference date", "reference_date", payload.ReferenceDate, "error", err)
		Runs.WithLabelValues("failed").Inc()
		return nil
	}

	monthWindow := window.MonthWindow(ref)

	if h.reports.IsCached(ctx, monthWindow) {
		slog.Debug("[Prewarm] Month already cached, skipping",
			"periodo_inicio", monthWindow.FormatStart(),
			"periodo_fim", monthWindow.FormatEnd())
		Runs.WithLabelValues("skipped").Inc()
		return nil
	}

	start := time.Now()
	if _, err := h.reports.Resolve(ctx, monthWindow); err != nil {
		slog.Warn("[Prewarm] Month aggregation failed",
			"periodo_inicio", monthWindow.FormatStart(),
			"periodo_fim", monthWindow.FormatEnd(),
			"error", err)
		Runs.WithLabelValues("failed").Inc()
		return nil
	}

	slog.Info("[Prewarm] Month window populated",
		"periodo_inicio", monthWindow.FormatStart(),
		"periodo_fim", monthWindow.FormatEnd(),
		"duration", time.Since(start))
	Runs.WithLabelValues("populated").Inc()
	return nil
}
