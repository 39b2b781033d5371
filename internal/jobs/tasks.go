// Package jobs holds background task definitions and the Asynq worker.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskMediaCleanup removes a remotely hosted image that no product
	// references anymore.
	TaskMediaCleanup = "media:cleanup"
)

// MediaCleanupPayload identifies the hosted object to remove.
type MediaCleanupPayload struct {
	PublicID string `json:"public_id"`
}

// NewMediaCleanupTask constructs an Asynq task.
func NewMediaCleanupTask(publicID string) (*asynq.Task, error) {
	data, err := json.Marshal(MediaCleanupPayload{PublicID: publicID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMediaCleanup, data), nil
}

// Enqueuer submits tasks to the queue.
type Enqueuer struct {
	client *asynq.Client
	logger *slog.Logger
}

// NewEnqueuer constructs an Enqueuer backed by Redis.
func NewEnqueuer(redisAddr string, logger *slog.Logger) *Enqueuer {
	return &Enqueuer{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr}),
		logger: logger,
	}
}

// EnqueueMediaCleanup schedules removal of a hosted image.
func (e *Enqueuer) EnqueueMediaCleanup(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	task, err := NewMediaCleanupTask(publicID)
	if err != nil {
		return fmt.Errorf("jobs: build cleanup task: %w", err)
	}
	info, err := e.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault), asynq.MaxRetry(5))
	if err != nil {
		return fmt.Errorf("jobs: enqueue cleanup: %w", err)
	}
	e.logger.Info("media cleanup enqueued", slog.String("task_id", info.ID), slog.String("public_id", publicID))
	return nil
}

// Close releases the underlying client.
func (e *Enqueuer) Close() error {
	return e.client.Close()
}
