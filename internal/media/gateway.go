// Package media hosts product images on S3-compatible object storage.
package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/oakline/catalog-api/internal/platform/httpx"
)

const objectPrefix = "products"

var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// Gateway uploads and removes hosted images.
type Gateway interface {
	Upload(ctx context.Context, file io.Reader, size int64) (url string, publicID string, err error)
	Remove(ctx context.Context, publicID string) error
}

// MinioGateway is the MinIO/S3 implementation of Gateway.
type MinioGateway struct {
	client    *minio.Client
	bucket    string
	publicURL string
	maxBytes  int64
	initOnce  sync.Once
	initErr   error
}

// NewMinioGateway constructs the gateway. Bucket creation is deferred until
// the first upload so a missing object store does not block startup.
func NewMinioGateway(endpoint, accessKey, secretKey, bucket, publicURL string, useSSL bool, maxBytes int64) (*MinioGateway, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("media: create client: %w", err)
	}
	return &MinioGateway{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		maxBytes:  maxBytes,
	}, nil
}

func (g *MinioGateway) lazyInit(ctx context.Context) error {
	g.initOnce.Do(func() {
		exists, err := g.client.BucketExists(ctx, g.bucket)
		if err != nil {
			g.initErr = fmt.Errorf("%w: check bucket: %v", httpx.ErrUpstream, err)
			return
		}
		if !exists {
			if err := g.client.MakeBucket(ctx, g.bucket, minio.MakeBucketOptions{}); err != nil {
				g.initErr = fmt.Errorf("%w: create bucket: %v", httpx.ErrUpstream, err)
			}
		}
	})
	return g.initErr
}

// Upload stores the file under a fresh object key and returns its public URL
// and identifier. The content type is sniffed from the leading bytes, not
// taken from the request.
func (g *MinioGateway) Upload(ctx context.Context, file io.Reader, size int64) (string, string, error) {
	if size <= 0 {
		return "", "", fmt.Errorf("%w: empty file", httpx.ErrValidation)
	}
	if size > g.maxBytes {
		return "", "", fmt.Errorf("%w: file exceeds %d bytes", httpx.ErrValidation, g.maxBytes)
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", "", fmt.Errorf("%w: read upload: %v", httpx.ErrUpstream, err)
	}
	head = head[:n]

	contentType := strings.ToLower(strings.TrimSpace(http.DetectContentType(head)))
	ext, ok := allowedContentTypes[contentType]
	if !ok {
		return "", "", fmt.Errorf("%w: only JPEG and PNG images are accepted", httpx.ErrValidation)
	}

	if err := g.lazyInit(ctx); err != nil {
		return "", "", err
	}

	publicID := objectPrefix + "/" + uuid.NewString() + ext
	body := io.MultiReader(bytes.NewReader(head), file)
	_, err = g.client.PutObject(ctx, g.bucket, publicID, body, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", "", fmt.Errorf("%w: put object: %v", httpx.ErrUpstream, err)
	}

	return g.publicURL + "/" + publicID, publicID, nil
}

// Remove deletes a hosted object by its identifier.
func (g *MinioGateway) Remove(ctx context.Context, publicID string) error {
	if err := g.client.RemoveObject(ctx, g.bucket, publicID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: remove object: %v", httpx.ErrUpstream, err)
	}
	return nil
}
