package media

import (
	"context"
	"io"
	"log/slog"
)

// ProductImages persists a hosted image against a product row.
type ProductImages interface {
	SetImage(ctx context.Context, id int64, imageURL, publicID string) error
}

// CleanupEnqueuer schedules removal of a remotely hosted image.
type CleanupEnqueuer interface {
	EnqueueMediaCleanup(ctx context.Context, publicID string) error
}

// Service uploads an image and records the hosted URL on the product.
type Service struct {
	gateway  Gateway
	products ProductImages
	cleanup  CleanupEnqueuer
	logger   *slog.Logger
}

// NewService constructs the media Service. cleanup may be nil.
func NewService(gateway Gateway, products ProductImages, cleanup CleanupEnqueuer, logger *slog.Logger) *Service {
	return &Service{gateway: gateway, products: products, cleanup: cleanup, logger: logger}
}

// AttachImage uploads the file and persists the returned URL and identifier
// against the product. If persisting fails after a successful upload, the
// fresh remote object is handed to the cleanup queue so it does not stay
// orphaned.
func (s *Service) AttachImage(ctx context.Context, productID int64, file io.Reader, size int64) (string, string, error) {
	url, publicID, err := s.gateway.Upload(ctx, file, size)
	if err != nil {
		return "", "", err
	}

	if err := s.products.SetImage(ctx, productID, url, publicID); err != nil {
		if s.cleanup != nil {
			if enqErr := s.cleanup.EnqueueMediaCleanup(ctx, publicID); enqErr != nil {
				s.logger.Warn("enqueue media cleanup", slog.Any("error", enqErr), slog.String("public_id", publicID))
			}
		}
		return "", "", err
	}

	return url, publicID, nil
}
