package product

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/oakline/catalog-api/internal/shared"
)

// CleanupEnqueuer schedules removal of a remotely hosted image.
type CleanupEnqueuer interface {
	EnqueueMediaCleanup(ctx context.Context, publicID string) error
}

// Service wraps product business rules.
type Service struct {
	repo    Repository
	cleanup CleanupEnqueuer
	logger  *slog.Logger
}

// NewService constructs a new Service. cleanup may be nil when no background
// queue is configured.
func NewService(repo Repository, cleanup CleanupEnqueuer, logger *slog.Logger) *Service {
	return &Service{repo: repo, cleanup: cleanup, logger: logger}
}

// List returns one page of products inside the listing envelope.
func (s *Service) List(ctx context.Context, query ListQuery) (ListResponse, error) {
	products, total, err := s.repo.List(ctx, query)
	if err != nil {
		return ListResponse{}, fmt.Errorf("product: list: %w", err)
	}
	return ListResponse{
		Pagination: shared.NewPagination(query.Page, query.Limit, total),
		Data:       products,
	}, nil
}

// ListWithRatings returns every product with its review aggregates.
func (s *Service) ListWithRatings(ctx context.Context) ([]RatedProduct, error) {
	return s.repo.ListWithRatings(ctx)
}

// Get loads one product by id.
func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	return s.repo.Get(ctx, id)
}

// Categories returns the distinct category values present in storage.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

// Create validates and inserts a product.
func (s *Service) Create(ctx context.Context, req CreateProductRequest) (Product, error) {
	if err := ValidateCreate(req); err != nil {
		return Product{}, err
	}
	return s.repo.Create(ctx, Product{
		Name:        req.Name,
		Mark:        req.Mark,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	})
}

// Update validates the present fields and updates a product by id.
func (s *Service) Update(ctx context.Context, id int64, req UpdateProductRequest) (Product, error) {
	if err := ValidateUpdate(req); err != nil {
		return Product{}, err
	}
	return s.repo.Update(ctx, id, req)
}

// Delete removes a product. If the row carried a hosted image, its removal is
// handed to the background queue; a failed enqueue is logged, never surfaced.
func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if deleted.PublicID != "" && s.cleanup != nil {
		if err := s.cleanup.EnqueueMediaCleanup(ctx, deleted.PublicID); err != nil {
			s.logger.Warn("enqueue media cleanup", slog.Any("error", err), slog.String("public_id", deleted.PublicID))
		}
	}
	return nil
}
