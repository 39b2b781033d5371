package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakline/catalog-api/internal/platform/httpx"
)

func newDenylist(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenManager("secret", time.Hour, nil)

	raw, issued, err := tokens.Issue(42, true)
	require.NoError(t, err)
	require.NotEmpty(t, raw)
	assert.True(t, issued.Admin)

	claims, err := tokens.Parse(context.Background(), raw)
	require.NoError(t, err)
	assert.True(t, claims.Admin)
	assert.Equal(t, int64(42), claims.UserID())
	assert.Equal(t, issued.ID, claims.ID)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	raw, _, err := NewTokenManager("one", time.Hour, nil).Issue(1, false)
	require.NoError(t, err)

	_, err = NewTokenManager("two", time.Hour, nil).Parse(context.Background(), raw)
	assert.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	tokens := NewTokenManager("secret", -time.Minute, nil)
	raw, _, err := tokens.Issue(1, false)
	require.NoError(t, err)

	_, err = tokens.Parse(context.Background(), raw)
	assert.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestParseRejectsGarbage(t *testing.T) {
	tokens := NewTokenManager("secret", time.Hour, nil)
	_, err := tokens.Parse(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestRevokeDenylistsUntilExpiry(t *testing.T) {
	tokens := NewTokenManager("secret", time.Hour, newDenylist(t))

	raw, claims, err := tokens.Issue(7, false)
	require.NoError(t, err)

	_, err = tokens.Parse(context.Background(), raw)
	require.NoError(t, err, "token must be valid before revocation")

	require.NoError(t, tokens.Revoke(context.Background(), claims))

	_, err = tokens.Parse(context.Background(), raw)
	assert.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestRevokeWithoutDenylistIsNoop(t *testing.T) {
	tokens := NewTokenManager("secret", time.Hour, nil)
	_, claims, err := tokens.Issue(7, false)
	require.NoError(t, err)
	assert.NoError(t, tokens.Revoke(context.Background(), claims))
}
