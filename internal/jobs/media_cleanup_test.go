package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRemover struct {
	removed []string
	err     error
}

func (s *stubRemover) Remove(_ context.Context, publicID string) error {
	if s.err != nil {
		return s.err
	}
	s.removed = append(s.removed, publicID)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMediaCleanupRemovesObject(t *testing.T) {
	remover := &stubRemover{}
	job := NewMediaCleanupJob(remover, discardLogger(), NewMetrics(prometheus.NewRegistry()))

	task, err := NewMediaCleanupTask("products/abc.jpg")
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, []string{"products/abc.jpg"}, remover.removed)
}

func TestMediaCleanupSurfacesRemoveFailure(t *testing.T) {
	remover := &stubRemover{err: errors.New("bucket unavailable")}
	job := NewMediaCleanupJob(remover, discardLogger(), nil)

	task, err := NewMediaCleanupTask("products/abc.jpg")
	require.NoError(t, err)

	err = job.Handle(context.Background(), task)
	require.Error(t, err, "failures must propagate so asynq retries")
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestMediaCleanupSkipsBadPayload(t *testing.T) {
	remover := &stubRemover{}
	job := NewMediaCleanupJob(remover, discardLogger(), nil)

	err := job.Handle(context.Background(), asynq.NewTask(TaskMediaCleanup, []byte("{not json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = job.Handle(context.Background(), asynq.NewTask(TaskMediaCleanup, []byte(`{"public_id":""}`)))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	assert.Empty(t, remover.removed)
}

func TestTrackerNilSafety(t *testing.T) {
	var m *Metrics
	sentinel := errors.New("boom")
	assert.Equal(t, sentinel, m.Track("job").End(sentinel))
	assert.NoError(t, m.Track("job").End(nil))
}
