package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/parceltrack/console/internal/client/client"
	"github.com/parceltrack/console/internal/client/config"
	"github.com/parceltrack/console/internal/client/export"
	"github.com/parceltrack/console/internal/client/models"
	"github.com/parceltrack/console/internal/client/services"
	"github.com/parceltrack/console/internal/logging"
	"github.com/parceltrack/console/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// sessionInfo is the read-only view of the session the console reports on.
type sessionInfo interface {
	IsSessionValid(ctx context.Context) bool
	SessionExpiry(ctx context.Context) (time.Time, error)
}

// App is one running console. It owns the current route and implements
// session.Navigator.
type App struct {
	flavour  Flavour
	log      logging.Logger
	auth     services.AuthService
	invoices services.InvoiceService
	api      client.Client
	session  sessionInfo
	registry *prometheus.Registry
	pushURL  string
	db       *sql.DB
	reader   *bufio.Reader
	out      io.Writer
	now      func() time.Time

	router *session.Router

	mu   sync.Mutex
	user *models.User
}

var _ session.Navigator = (*App)(nil)

// NewApp wires a console of the given flavour: the token database, the
// session manager, the API client, the services and the export sink.
func NewApp(ctx context.Context, cfg *config.Config, fl Flavour) (*App, error) {
	log := logging.New(cfg.LogLevel).With("console", fl.Name)

	db, err := client.InitDatabase(ctx, cfg.TokenDBPath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	app, err := newApp(ctx, cfg, fl, db, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, cfg *config.Config, fl Flavour, db *sql.DB, log logging.Logger) (*App, error) {
	store, err := session.NewSQLStore(ctx, db, cfg.TokenSecret)
	if err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}

	sink, err := newSink(ctx, cfg.Export)
	if err != nil {
		return nil, fmt.Errorf("export sink: %w", err)
	}

	registry := prometheus.NewRegistry()
	app := &App{
		flavour:  fl,
		log:      log,
		registry: registry,
		pushURL:  cfg.MetricsPushURL,
		db:       db,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		router:   session.NewRouter(fl.HomeRoute),
	}

	mgr, err := session.NewManager(session.Options{
		BaseURL:       cfg.APIBaseURL,
		Store:         store,
		Navigator:     app,
		Timeout:       cfg.RequestTimeout,
		LoginRoute:    fl.LoginRoute,
		LandingRoute:  fl.LandingRoute,
		SharedRefresh: cfg.SharedRefresh,
		Logger:        log,
		Metrics:       session.NewMetrics(registry),
	})
	if err != nil {
		return nil, err
	}

	api := client.NewHTTPClient(mgr)
	app.api = api
	app.session = mgr
	app.auth = services.NewAuthService(mgr, api, app, fl.LoginRoute)
	app.invoices = services.NewInvoiceService(api, sink)
	return app, nil
}

func newSink(ctx context.Context, cfg config.ExportConfig) (export.Sink, error) {
	if cfg.S3.Bucket == "" {
		return export.NewDirSink(cfg.Dir), nil
	}
	return export.NewS3Sink(ctx, export.S3Config{
		Endpoint:  cfg.S3.Endpoint,
		Region:    cfg.S3.Region,
		Bucket:    cfg.S3.Bucket,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Prefix:    cfg.S3.Prefix,
	})
}

// Run restores a stored session and starts the REPL on stdin. It blocks
// until the user exits or stdin is closed.
func (a *App) Run(ctx context.Context) {
	printlnFn(fmt.Sprintf("Welcome to the parceltrack %s console (type 'help' for commands)", a.flavour.Name))
	a.restore(ctx)
	runREPL(ctx, a, a.status, a.reader)
}

// restore hydrates the signed-in user from a stored session.
func (a *App) restore(ctx context.Context) {
	u, err := a.auth.CurrentUser(ctx)
	if err != nil {
		a.log.Warn(ctx, "could not restore session", "error", err)
	}
	a.setUser(u)
	if u == nil && a.flavour.RequireLogin {
		a.Navigate(a.flavour.LoginRoute)
	}
}

// Close pushes the session metrics when a Pushgateway is configured and
// closes the token database.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if err := a.pushMetrics(); err != nil {
		a.log.Warn(ctx, "could not push metrics", "error", err)
		errs = append(errs, err)
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *App) pushMetrics() error {
	if a.pushURL == "" || a.registry == nil {
		return nil
	}
	host, _ := os.Hostname()
	return push.New(a.pushURL, "parcel_"+a.flavour.Name).
		Gatherer(a.registry).
		Grouping("instance", host).
		Push()
}

// CurrentRoute implements session.Navigator.
func (a *App) CurrentRoute() string {
	return a.router.CurrentRoute()
}

// Navigate implements session.Navigator. Arriving on the login route drops
// the signed-in user.
func (a *App) Navigate(route string) {
	changed := a.router.CurrentRoute() != route
	a.router.Navigate(route)
	if strings.Contains(route, a.flavour.LoginRoute) {
		a.setUser(nil)
	}

	if changed {
		fmt.Fprintf(a.out, "-> %s\n", route)
	}
}

func (a *App) clock() time.Time {
	if a.now == nil {
		return time.Now()
	}
	return a.now()
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user != nil
}

func (a *App) currentUser() *models.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user
}

func (a *App) setUser(u *models.User) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.user = u
}

// status is shown in the prompt: the flavour, the signed-in user if any and
// the current route.
func (a *App) status() string {
	route := a.router.CurrentRoute()
	if u := a.currentUser(); u != nil {
		return fmt.Sprintf("%s %s@%s", a.flavour.Name, u.Email, route)
	}
	return fmt.Sprintf("%s %s", a.flavour.Name, route)
}
