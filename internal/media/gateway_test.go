package media

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakline/catalog-api/internal/platform/httpx"
)

// pngHeader is the magic prefix http.DetectContentType recognises as image/png.
var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

func newGateway(t *testing.T, maxBytes int64) *MinioGateway {
	t.Helper()
	gw, err := NewMinioGateway("localhost:9000", "key", "secret", "catalog", "https://cdn.example.com", false, maxBytes)
	require.NoError(t, err)
	return gw
}

func TestUploadRejectsEmptyFile(t *testing.T) {
	gw := newGateway(t, 1024)
	_, _, err := gw.Upload(context.Background(), strings.NewReader(""), 0)
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	gw := newGateway(t, 10)
	_, _, err := gw.Upload(context.Background(), bytes.NewReader(pngHeader), 11)
	require.Error(t, err)
	assert.ErrorIs(t, err, httpx.ErrValidation)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestUploadRejectsNonImageContent(t *testing.T) {
	gw := newGateway(t, 1024)
	_, _, err := gw.Upload(context.Background(), strings.NewReader("%PDF-1.4 not an image"), 21)
	require.Error(t, err)
	assert.ErrorIs(t, err, httpx.ErrValidation)
	assert.Contains(t, err.Error(), "JPEG and PNG")
}

func TestAllowedContentTypeExtensions(t *testing.T) {
	assert.Equal(t, ".jpg", allowedContentTypes["image/jpeg"])
	assert.Equal(t, ".png", allowedContentTypes["image/png"])
	assert.Len(t, allowedContentTypes, 2)
}
