package httpx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/console/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestParseRateLimitFromEnv(t *testing.T) {
	t.Setenv("RATELIMIT_TEST_REQUESTS", "7")
	t.Setenv("RATELIMIT_TEST_WINDOW_SEC", "30")
	t.Setenv("RATELIMIT_TEST_BURST", "bogus")

	cfg := httpx.ParseRateLimitFromEnv("TEST", httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 2})
	require.Equal(t, 7, cfg.RequestsPerWindow)
	require.Equal(t, 30*time.Second, cfg.Window)
	require.Equal(t, 2, cfg.Burst)
}

func TestRateLimitTransport(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	loginRule := httpx.Rule{
		PathSuffix: "/api/authenticate",
		Limit:      httpx.RateLimitConfig{RequestsPerWindow: 2, Window: time.Hour, Burst: 2},
	}
	client := &http.Client{Transport: httpx.RateLimitTransport(nil,
		httpx.RateLimitConfig{RequestsPerWindow: 100, Window: time.Second, Burst: 100},
		loginRule,
	)}

	do := func(ctx context.Context, path string) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, srv.URL+path, nil)
		require.NoError(t, err)
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		return resp.Body.Close()
	}

	t.Run("allows requests under the burst", func(t *testing.T) {
		require.NoError(t, do(context.Background(), "/api/authenticate"))
		require.NoError(t, do(context.Background(), "/api/authenticate"))
	})

	t.Run("fails fast when the context cannot wait", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := do(ctx, "/api/authenticate")
		require.Error(t, err)
		require.ErrorIs(t, err, httpx.ErrRateLimited)
		require.EqualValues(t, 2, hits.Load())
	})

	t.Run("other paths use the fallback bucket", func(t *testing.T) {
		require.NoError(t, do(context.Background(), "/api/account"))
		require.EqualValues(t, 3, hits.Load())
	})
}

func TestBearerToken(t *testing.T) {
	tok, ok := httpx.BearerToken("Bearer abc123")
	require.True(t, ok)
	require.Equal(t, "abc123", tok)

	_, ok = httpx.BearerToken("bearer abc123")
	require.False(t, ok)

	_, ok = httpx.BearerToken("Bearer ")
	require.False(t, ok)

	_, ok = httpx.BearerToken("")
	require.False(t, ok)
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.WriteJSON(rec, http.StatusCreated, map[string]string{"login": "alice"})

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.JSONEq(t, `{"login":"alice"}`, rec.Body.String())
}
