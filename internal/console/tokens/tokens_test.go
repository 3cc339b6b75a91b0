package tokens_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/console/internal/console/tokens"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func newHolder() *tokens.Holder {
	return tokens.NewHolder(tokens.NewMemory(), tokens.NewMemory())
}

func TestSetThenClearEmptiesBothScopes(t *testing.T) {
	ctx := context.Background()
	h := newHolder()

	require.NoError(t, h.Set(ctx, tokens.Local, "T"))
	require.NoError(t, h.Clear(ctx))

	_, ok, err := h.Get(ctx, tokens.Local)
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = h.Get(ctx, tokens.Session)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSetMovesTokenBetweenScopes(t *testing.T) {
	ctx := context.Background()
	h := newHolder()

	require.NoError(t, h.Set(ctx, tokens.Session, "old"))
	require.NoError(t, h.Set(ctx, tokens.Local, "new"))

	_, ok, err := h.Get(ctx, tokens.Session)
	require.NoError(t, err)
	require.False(t, ok, "setting local must not leave a stale session copy")

	tok, ok, err := h.Get(ctx, tokens.Local)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "new", tok)

	require.NoError(t, h.Set(ctx, tokens.Session, "again"))
	_, ok, err = h.Get(ctx, tokens.Local)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestClearOnEmptyHolder(t *testing.T) {
	require.NoError(t, newHolder().Clear(context.Background()))
}

func TestUnknownScope(t *testing.T) {
	ctx := context.Background()
	h := newHolder()

	err := h.Set(ctx, tokens.Scope("cookie"), "T")
	require.ErrorIs(t, err, tokens.ErrUnknownScope)

	_, _, err = h.Get(ctx, tokens.Scope("cookie"))
	require.ErrorIs(t, err, tokens.ErrUnknownScope)
}

func TestTokenPrefersLocal(t *testing.T) {
	ctx := context.Background()
	local, session := tokens.NewMemory(), tokens.NewMemory()
	h := tokens.NewHolder(local, session)

	tok, err := h.Token(ctx)
	require.NoError(t, err)
	require.Empty(t, tok)

	require.NoError(t, session.Set(ctx, tokens.Key, "from-session"))
	tok, err = h.Token(ctx)
	require.NoError(t, err)
	require.Equal(t, "from-session", tok)

	require.NoError(t, local.Set(ctx, tokens.Key, "from-local"))
	tok, err = h.Token(ctx)
	require.NoError(t, err)
	require.Equal(t, "from-local", tok)
}

type brokenBackend struct{ *tokens.Memory }

func (brokenBackend) Remove(context.Context, string) error { return errors.New("disk full") }

func TestClearReportsBackendFailure(t *testing.T) {
	ctx := context.Background()
	session := tokens.NewMemory()
	h := tokens.NewHolder(brokenBackend{tokens.NewMemory()}, session)

	require.NoError(t, session.Set(ctx, tokens.Key, "T"))
	require.Error(t, h.Clear(ctx))

	// The healthy scope is still cleared.
	_, ok, err := h.Get(ctx, tokens.Session)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSubject(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	require.Equal(t, "admin", tokens.Subject(signed))
	require.Empty(t, tokens.Subject("abc123"))
}
