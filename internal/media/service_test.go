package media

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakline/catalog-api/internal/platform/httpx"
)

type stubGateway struct {
	url      string
	publicID string
	err      error
	removed  []string
}

func (s *stubGateway) Upload(context.Context, io.Reader, int64) (string, string, error) {
	if s.err != nil {
		return "", "", s.err
	}
	return s.url, s.publicID, nil
}

func (s *stubGateway) Remove(_ context.Context, publicID string) error {
	s.removed = append(s.removed, publicID)
	return nil
}

type stubImages struct {
	err  error
	id   int64
	url  string
	pid  string
	hits int
}

func (s *stubImages) SetImage(_ context.Context, id int64, imageURL, publicID string) error {
	s.hits++
	if s.err != nil {
		return s.err
	}
	s.id, s.url, s.pid = id, imageURL, publicID
	return nil
}

type stubCleanup struct {
	enqueued []string
}

func (s *stubCleanup) EnqueueMediaCleanup(_ context.Context, publicID string) error {
	s.enqueued = append(s.enqueued, publicID)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAttachImagePersistsHostedURL(t *testing.T) {
	gw := &stubGateway{url: "https://cdn.example.com/products/a.jpg", publicID: "products/a.jpg"}
	images := &stubImages{}
	svc := NewService(gw, images, nil, discardLogger())

	url, publicID, err := svc.AttachImage(context.Background(), 5, strings.NewReader("img"), 3)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/products/a.jpg", url)
	assert.Equal(t, "products/a.jpg", publicID)
	assert.Equal(t, int64(5), images.id)
	assert.Equal(t, url, images.url)
	assert.Equal(t, publicID, images.pid)
}

func TestAttachImageSurfacesGatewayFailure(t *testing.T) {
	gw := &stubGateway{err: httpx.ErrUpstream}
	images := &stubImages{}
	svc := NewService(gw, images, nil, discardLogger())

	_, _, err := svc.AttachImage(context.Background(), 5, strings.NewReader("img"), 3)
	assert.ErrorIs(t, err, httpx.ErrUpstream)
	assert.Equal(t, 0, images.hits, "persist must not run after a failed upload")
}

func TestAttachImageCleansUpOrphanOnPersistFailure(t *testing.T) {
	gw := &stubGateway{url: "https://cdn.example.com/products/a.jpg", publicID: "products/a.jpg"}
	images := &stubImages{err: httpx.ErrNotFound}
	cleanup := &stubCleanup{}
	svc := NewService(gw, images, cleanup, discardLogger())

	_, _, err := svc.AttachImage(context.Background(), 5, strings.NewReader("img"), 3)
	assert.ErrorIs(t, err, httpx.ErrNotFound)
	assert.Equal(t, []string{"products/a.jpg"}, cleanup.enqueued, "fresh object must be queued for removal")
}

func TestAttachImagePersistFailureWithoutQueue(t *testing.T) {
	gw := &stubGateway{url: "u", publicID: "p"}
	images := &stubImages{err: errors.New("write failed")}
	svc := NewService(gw, images, nil, discardLogger())

	_, _, err := svc.AttachImage(context.Background(), 5, strings.NewReader("img"), 3)
	assert.Error(t, err)
}
