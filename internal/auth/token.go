package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/oakline/catalog-api/internal/platform/httpx"
)

const denylistPrefix = "auth:revoked:"

// TokenManager signs and verifies bearer tokens. Revoked tokens are tracked
// in Redis by jti until their natural expiry.
type TokenManager struct {
	secret   []byte
	ttl      time.Duration
	denylist *redis.Client
}

// NewTokenManager constructs a TokenManager.
func NewTokenManager(secret string, ttl time.Duration, denylist *redis.Client) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, denylist: denylist}
}

// Issue signs a token for the given user.
func (m *TokenManager) Issue(userID int64, admin bool) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		Admin: admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("auth: sign token: %w", err)
	}
	return token, claims, nil
}

// Parse verifies a raw token and rejects revoked ones.
func (m *TokenManager) Parse(ctx context.Context, raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, httpx.ErrUnauthorized
	}
	if m.denylist != nil && claims.ID != "" {
		revoked, err := m.denylist.Exists(ctx, denylistPrefix+claims.ID).Result()
		if err != nil {
			return nil, fmt.Errorf("auth: denylist lookup: %w", err)
		}
		if revoked > 0 {
			return nil, httpx.ErrUnauthorized
		}
	}
	return claims, nil
}

// Revoke denylists the token until it would have expired anyway.
func (m *TokenManager) Revoke(ctx context.Context, claims *Claims) error {
	if m.denylist == nil || claims == nil || claims.ID == "" {
		return nil
	}
	ttl := m.ttl
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}
	return m.denylist.Set(ctx, denylistPrefix+claims.ID, "1", ttl).Err()
}

// UserID parses the numeric subject claim.
func (c *Claims) UserID() int64 {
	id, _ := strconv.ParseInt(c.Subject, 10, 64)
	return id
}
