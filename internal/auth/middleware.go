package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/oakline/catalog-api/internal/platform/httpx"
)

type contextKey string

const claimsContextKey contextKey = "auth.claims"

// Middleware guards routes with bearer-token checks.
type Middleware struct {
	Tokens *TokenManager
	Logger *slog.Logger
}

// RequireUser rejects requests without a valid bearer token.
func (m Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.authenticate(r)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

// RequireAdmin additionally rejects tokens without the admin claim.
func (m Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.authenticate(r)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		if !claims.Admin {
			if m.Logger != nil {
				m.Logger.Warn("admin route denied", slog.String("path", r.URL.Path), slog.String("sub", claims.Subject))
			}
			httpx.RespondError(w, httpx.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

func (m Middleware) authenticate(r *http.Request) (*Claims, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return nil, httpx.ErrUnauthorized
	}
	raw := strings.TrimSpace(header[len("bearer "):])
	if raw == "" {
		return nil, httpx.ErrUnauthorized
	}
	claims, err := m.Tokens.Parse(r.Context(), raw)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Warn("token rejected", slog.String("path", r.URL.Path))
		}
		return nil, httpx.ErrUnauthorized
	}
	return claims, nil
}

// ContextWithClaims stores claims on the context.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext retrieves claims placed by the middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsContextKey).(*Claims)
	return c, ok
}
