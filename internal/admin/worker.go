package admin

import (
	"context"
	"time"

	"log/slog"

	"datacatalog/internal/platform/metrics"
	"datacatalog/pkg/requestcontext"
)

// Worker drives regeneration, dispatch, and cleanup of scheduled
// notifications on a fixed interval. The admin HTTP surface can trigger the
// same passes on demand; the worker only keeps them from being forgotten.
type Worker struct {
	service       *Service
	interval      time.Duration
	retentionDays int
	logger        *slog.Logger
	metrics       *metrics.Metrics
}

func NewWorker(service *Service, interval time.Duration, retentionDays int, logger *slog.Logger, m *metrics.Metrics) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		service:       service,
		interval:      interval,
		retentionDays: retentionDays,
		logger:        logger,
		metrics:       m,
	}
}

// Run executes one pass per tick until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.runOnce(ctx)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// runOnce regenerates the schedule, dispatches due notifications, and drops
// notifications past retention. Each step logs its own failure and the pass
// continues; one bad step must not starve the others.
func (w *Worker) runOnce(ctx context.Context) {
	ctx = requestcontext.WithTime(ctx, time.Now())
	start := time.Now()

	added, err := w.service.RegenerateSchedule(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, "schedule regeneration failed", "error", err)
	}

	result, err := w.service.ProcessDue(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, "due notification processing failed", "error", err)
	}

	removed, err := w.service.CleanupNotifications(ctx, w.retentionDays)
	if err != nil {
		w.logger.ErrorContext(ctx, "notification cleanup failed", "error", err)
	}

	if w.metrics != nil {
		w.metrics.ProcessingDuration.Observe(time.Since(start).Seconds())
	}
	w.logger.InfoContext(ctx, "notification worker pass complete",
		"scheduled", added,
		"processed", len(result.ProcessedIDs),
		"removed", removed,
		"duration", time.Since(start),
	)
}
