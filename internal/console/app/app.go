// Package app wires the console together: configuration, logging, the
// token holder, the API client, the store and every slice's workflows.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/aussiebroadwan/console/internal/console/activate"
	"github.com/aussiebroadwan/console/internal/console/auth"
	"github.com/aussiebroadwan/console/internal/console/lifecycle"
	"github.com/aussiebroadwan/console/internal/console/notify"
	"github.com/aussiebroadwan/console/internal/console/pagination"
	"github.com/aussiebroadwan/console/internal/console/password"
	"github.com/aussiebroadwan/console/internal/console/passwordreset"
	"github.com/aussiebroadwan/console/internal/console/register"
	"github.com/aussiebroadwan/console/internal/console/settings"
	"github.com/aussiebroadwan/console/internal/console/store"
	"github.com/aussiebroadwan/console/internal/console/tokens"
	"github.com/aussiebroadwan/console/internal/console/tokens/sqlite"
	"github.com/aussiebroadwan/console/internal/console/usermgmt"
	"github.com/aussiebroadwan/console/pkg/apiclient"
	"github.com/aussiebroadwan/console/pkg/httpx"
	"github.com/aussiebroadwan/console/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application holds every component of the console.
type Application struct {
	cfg     Config
	logger  *slog.Logger
	tokenDB *sqlite.Store

	Tokens *tokens.Holder
	Client *apiclient.Client
	Store  *store.Store
	Pages  *pagination.Synchronizer

	Auth          *auth.Service
	Register      *register.Service
	Activate      *activate.Service
	PasswordReset *passwordreset.Service
	Password      *password.Service
	Settings      *settings.Service
	Users         *usermgmt.Service
}

type Option func(*options)

type options struct {
	logger    *slog.Logger
	notifier  notify.Notifier
	transport http.RoundTripper
	location  string
}

// WithLogger replaces the logger built from the config.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithNotifier sets where toasts go. Without one they are dropped.
func WithNotifier(n notify.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithTransport sets the base HTTP transport under the logging and rate
// limiting layers.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithLocation opens the user list at a "?page=&sort=" query.
func WithLocation(rawQuery string) Option {
	return func(o *options) { o.location = rawQuery }
}

// New creates an Application with all dependencies initialized.
func New(cfg Config, opts ...Option) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{notifier: notify.NotifierFunc(func(notify.Toast) {})}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slogx.New(slogx.Config{
			Service: "console",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		})
	}

	app := &Application{cfg: cfg, logger: o.logger}

	if err := app.initTokens(); err != nil {
		return nil, err
	}
	app.initClient(o.transport)
	app.initStore(o.notifier)
	app.initServices(o.location)

	return app, nil
}

// initTokens opens the durable token scope. Without a token file,
// remembered logins only last as long as the process.
func (app *Application) initTokens() error {
	session := tokens.NewMemory()
	if app.cfg.TokenDB == "" {
		app.logger.Warn("no token database configured, remembered logins will not persist")
		app.Tokens = tokens.NewHolder(tokens.NewMemory(), session)
		return nil
	}

	if dir := filepath.Dir(app.cfg.TokenDB); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create token database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.TokenDB)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to open token database: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.Ping(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to open token database: %w", err)
	}
	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply token database migrations: %w", err)
	}

	app.tokenDB = db
	app.Tokens = tokens.NewHolder(db, session)
	return nil
}

func (app *Application) initClient(base http.RoundTripper) {
	limit := httpx.DefaultLimit
	limit.RequestsPerWindow = app.cfg.RateLimit
	limit.Window = time.Minute

	transport := slogx.Transport(app.logger, httpx.RateLimitTransport(base, limit,
		httpx.Rule{PathSuffix: "/api/authenticate", Limit: httpx.LoginLimit},
	))

	app.Client = apiclient.New(app.cfg.APIURL,
		apiclient.WithHTTPClient(&http.Client{Timeout: app.cfg.HTTPTimeout, Transport: transport}),
		apiclient.WithTokenSource(app.Tokens),
	)
}

func (app *Application) initStore(n notify.Notifier) {
	app.Store = store.New(store.WithMiddleware(
		store.LoggingMiddleware(app.logger),
		// Probing the session without a login fails by design.
		notify.Middleware(n, lifecycle.OpSet{auth.OpGetAccount}),
	))
}

func (app *Application) initServices(location string) {
	app.Pages = pagination.NewSynchronizer(pagination.Default(app.cfg.PageSize, "id"), location)

	app.Auth = &auth.Service{Dispatcher: app.Store, API: app.Client, Tokens: app.Tokens}
	app.Register = &register.Service{Dispatcher: app.Store, API: app.Client}
	app.Activate = &activate.Service{Dispatcher: app.Store, API: app.Client}
	app.PasswordReset = &passwordreset.Service{Dispatcher: app.Store, API: app.Client}
	app.Password = &password.Service{Dispatcher: app.Store, API: app.Client}
	app.Settings = &settings.Service{Dispatcher: app.Store, API: app.Client, Session: app.Auth}
	app.Users = &usermgmt.Service{Store: app.Store, API: app.Client, Pages: app.Pages}
}

func (app *Application) Logger() *slog.Logger { return app.logger }

// Context returns ctx carrying the application logger.
func (app *Application) Context(ctx context.Context) context.Context {
	return slogx.WithContext(ctx, app.logger)
}

// Close releases the token database.
func (app *Application) Close() error {
	if app.tokenDB == nil {
		return nil
	}
	if err := app.tokenDB.Close(); err != nil {
		app.logger.Error("error closing token database", "error", err)
		return err
	}
	return nil
}
