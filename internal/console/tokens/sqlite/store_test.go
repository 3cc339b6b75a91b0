package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/console/internal/console/tokens"
	"github.com/aussiebroadwan/console/internal/console/tokens/sqlite"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, path string) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path))
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, filepath.Join(t.TempDir(), "tokens.db"))

	_, ok, err := s.Get(ctx, tokens.Key)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Set(ctx, tokens.Key, "first"))
	require.NoError(t, s.Set(ctx, tokens.Key, "second"))

	v, ok, err := s.Get(ctx, tokens.Key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "second", v)

	require.NoError(t, s.Remove(ctx, tokens.Key))
	require.NoError(t, s.Remove(ctx, tokens.Key))

	_, ok, err = s.Get(ctx, tokens.Key)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tokens.db")

	first := openStore(t, path)
	require.NoError(t, first.Set(ctx, tokens.Key, "durable"))
	require.NoError(t, first.Close())

	// Migrations are idempotent on an existing file.
	second := openStore(t, path)
	v, ok, err := second.Get(ctx, tokens.Key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "durable", v)
}

func TestHolderWithDurableScope(t *testing.T) {
	ctx := context.Background()
	h := tokens.NewHolder(openStore(t, filepath.Join(t.TempDir(), "tokens.db")), tokens.NewMemory())

	require.NoError(t, h.Set(ctx, tokens.Local, "T"))
	require.NoError(t, h.Clear(ctx))

	_, ok, err := h.Get(ctx, tokens.Local)
	require.NoError(t, err)
	require.False(t, ok)
	_, ok, err = h.Get(ctx, tokens.Session)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPing(t *testing.T) {
	s, err := sqlite.NewStore(fmt.Sprintf("file:%s", filepath.Join(t.TempDir(), "tokens.db")))
	require.NoError(t, err)
	require.NoError(t, s.Ping(context.Background()))

	require.NoError(t, s.Close())
	require.Error(t, s.Ping(context.Background()))
}
