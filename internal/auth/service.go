package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/oakline/catalog-api/internal/platform/httpx"
)

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	tokens *TokenManager
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenManager) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Login validates credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *Claims, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if !user.IsActive {
		return "", nil, httpx.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, httpx.ErrUnauthorized
	}
	return s.tokens.Issue(user.ID, user.IsAdmin)
}

// Logout revokes the presented token.
func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	return s.tokens.Revoke(ctx, claims)
}
