package review

import (
	"context"
	"fmt"

	"github.com/oakline/catalog-api/internal/platform/httpx"
)

// Service wraps review business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListByProduct returns reviews for one product, newest first.
func (s *Service) ListByProduct(ctx context.Context, productID int64) ([]Review, error) {
	return s.repo.ListByProduct(ctx, productID)
}

// Create validates and stores a review.
func (s *Service) Create(ctx context.Context, rev Review) (Review, error) {
	if rev.Rating < 1 || rev.Rating > 5 {
		return Review{}, fmt.Errorf("%w: rating must be between 1 and 5", httpx.ErrValidation)
	}
	return s.repo.Create(ctx, rev)
}
