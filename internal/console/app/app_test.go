package app_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aussiebroadwan/console/internal/console/app"
	"github.com/aussiebroadwan/console/internal/console/notify"
	"github.com/aussiebroadwan/console/pkg/apiclient"
	"github.com/aussiebroadwan/console/pkg/httpx"
	"github.com/aussiebroadwan/console/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/authenticate", func(w http.ResponseWriter, r *http.Request) {
		var creds apiclient.Credentials
		_ = decode(r, &creds)
		if creds.Password != "admin" {
			httpx.WriteJSON(w, http.StatusUnauthorized, map[string]string{"title": "Unauthorized", "detail": "Bad credentials"})
			return
		}
		w.Header().Set("Authorization", "Bearer abc123")
		httpx.WriteJSON(w, http.StatusOK, apiclient.JWTToken{IDToken: "abc123"})
	})
	mux.HandleFunc("GET /api/account", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer abc123" {
			httpx.WriteJSON(w, http.StatusUnauthorized, map[string]string{"title": "Unauthorized"})
			return
		}
		httpx.WriteJSON(w, http.StatusOK, apiclient.Account{Login: "admin", Activated: true, Authorities: []string{apiclient.RoleAdmin}})
	})
	mux.HandleFunc("POST /api/account", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-consoleApp-alert", "Settings saved!")
		w.WriteHeader(http.StatusOK)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type toasts struct {
	mu  sync.Mutex
	all []notify.Toast
}

func (c *toasts) Notify(t notify.Toast) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.all = append(c.all, t)
}

func (c *toasts) list() []notify.Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]notify.Toast(nil), c.all...)
}

func newApp(t *testing.T, apiURL, tokenDB string, n notify.Notifier) *app.Application {
	t.Helper()

	cfg := app.DefaultConfig()
	cfg.APIURL = apiURL
	cfg.TokenDB = tokenDB

	a, err := app.New(cfg, app.WithLogger(slogx.Discard()), app.WithNotifier(n))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestRememberedLoginSurvivesRestart(t *testing.T) {
	srv := fakeAPI(t)
	db := filepath.Join(t.TempDir(), "state", "console.db")

	first := newApp(t, srv.URL, db, &toasts{})
	ctx := first.Context(context.Background())
	require.NoError(t, first.Auth.Login(ctx, "admin", "admin", true))
	require.True(t, first.Store.State().Authentication.IsAuthenticated)
	require.NoError(t, first.Close())

	second := newApp(t, srv.URL, db, &toasts{})
	ctx = second.Context(context.Background())
	require.NoError(t, second.Auth.GetSession(ctx))

	s := second.Store.State().Authentication
	require.True(t, s.IsAuthenticated)
	require.True(t, s.Account.HasAuthority(apiclient.RoleAdmin))
}

func TestSessionLoginDoesNotSurviveRestart(t *testing.T) {
	srv := fakeAPI(t)
	db := filepath.Join(t.TempDir(), "console.db")

	first := newApp(t, srv.URL, db, &toasts{})
	require.NoError(t, first.Auth.Login(context.Background(), "admin", "admin", false))
	require.NoError(t, first.Close())

	n := &toasts{}
	second := newApp(t, srv.URL, db, n)
	require.Error(t, second.Auth.GetSession(context.Background()))
	require.False(t, second.Store.State().Authentication.IsAuthenticated)
	// The startup probe is quiet.
	require.Empty(t, n.list())
}

func TestToasts(t *testing.T) {
	srv := fakeAPI(t)
	n := &toasts{}
	a := newApp(t, srv.URL, "", n)
	ctx := context.Background()

	require.Error(t, a.Auth.Login(ctx, "admin", "wrong", false))
	require.NoError(t, a.Auth.Login(ctx, "admin", "admin", false))
	require.NoError(t, a.Settings.Save(ctx, apiclient.Account{Login: "admin", FirstName: "Ada"}))

	require.Equal(t, []notify.Toast{
		{Level: notify.Error, Op: "authentication/login", Message: "Bad credentials"},
		{Level: notify.Success, Op: "settings/update_account", Message: "Settings saved!"},
	}, n.list())
	require.Equal(t, "Settings saved!", a.Store.State().Settings.SuccessMessage)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := app.DefaultConfig()
	cfg.APIURL = "not a url"
	_, err := app.New(cfg, app.WithLogger(slogx.Discard()))
	require.ErrorIs(t, err, app.ErrInvalidConfig)
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
