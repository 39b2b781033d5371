package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

// Remover deletes a hosted object by identifier.
type Remover interface {
	Remove(ctx context.Context, publicID string) error
}

// MediaCleanupJob processes media:cleanup tasks.
type MediaCleanupJob struct {
	remover Remover
	logger  *slog.Logger
	metrics *Metrics
}

// NewMediaCleanupJob constructs the job handler. metrics may be nil.
func NewMediaCleanupJob(remover Remover, logger *slog.Logger, metrics *Metrics) *MediaCleanupJob {
	return &MediaCleanupJob{remover: remover, logger: logger, metrics: metrics}
}

// Handle removes the object named by the task payload.
func (j *MediaCleanupJob) Handle(ctx context.Context, t *asynq.Task) error {
	tracker := j.metrics.Track(TaskMediaCleanup)
	var payload MediaCleanupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		_ = tracker.End(err)
		return asynq.SkipRetry
	}
	if payload.PublicID == "" {
		_ = tracker.End(nil)
		return asynq.SkipRetry
	}
	if err := j.remover.Remove(ctx, payload.PublicID); err != nil {
		j.logger.Warn("media cleanup failed", slog.Any("error", err), slog.String("public_id", payload.PublicID))
		return tracker.End(err)
	}
	j.logger.Info("media cleanup done", slog.String("public_id", payload.PublicID))
	return tracker.End(nil)
}
