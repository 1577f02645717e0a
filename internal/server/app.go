// Package server wires configuration, storage, services and the HTTP API
// together and runs the node server until it is signalled to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/dpnode/internal/dbx"
	"github.com/dmitrijs2005/dpnode/internal/logging"
	"github.com/dmitrijs2005/dpnode/internal/server/config"
	"github.com/dmitrijs2005/dpnode/internal/server/httpapi"
	"github.com/dmitrijs2005/dpnode/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/dpnode/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// DevAdminUserName is the superuser seeded when running on the in-memory store.
const DevAdminUserName = "admin"

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	identity *services.IdentityService
	handler  *httpapi.Handler
}

// NewApp opens the store selected by c.DatabaseDSN, migrating Postgres when
// used, and builds the services. An empty DSN selects the in-memory store.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	var (
		db *sql.DB
		tx dbx.Transactor
		m  repomanager.RepositoryManager
	)

	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "No database DSN configured, using the in-memory store")
		tx = &dbx.LockTransactor{}
		m = repomanager.NewMemoryRepositoryManager(nil)
	} else {
		var err error
		db, err = sql.Open("pgx", c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("db ping error: %w", err)
		}

		m = repomanager.NewPostgresRepositoryManager()
		if err := m.RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("migration error: %w", err)
		}
		tx = dbx.NewSQLTransactor(db)
	}

	identity := services.NewIdentityService(tx, m, c)
	handler := httpapi.NewHandler(httpapi.HandlerConfig{
		Identity:  identity,
		Registry:  services.NewRegistryService(tx, m),
		Nodes:     services.NewNodeService(tx, m),
		Transfers: services.NewTransferService(tx, m),
		Logger:    logger,
	})

	app := &App{config: c, logger: logger, db: db, identity: identity, handler: handler}

	if db == nil {
		if err := app.seedDevAdmin(ctx); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// seedDevAdmin creates a superuser on the in-memory store and logs a token
// for it, since such a store starts without accounts.
func (app *App) seedDevAdmin(ctx context.Context) error {
	u, err := app.identity.EnsureUser(ctx, services.Account{UserName: DevAdminUserName, IsSuperuser: true})
	if err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}
	token, err := app.identity.IssueToken(u.ID)
	if err != nil {
		return fmt.Errorf("issuing admin token: %w", err)
	}
	app.logger.Info(ctx, "Seeded in-memory admin", "username", u.UserName, "token", token)
	return nil
}

// Identity exposes account management to operator tools.
func (app *App) Identity() *services.IdentityService {
	return app.identity
}

// Close releases the database handle, if any.
func (app *App) Close() error {
	if app.db == nil {
		return nil
	}
	return app.db.Close()
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.handler)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves the API until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.Close(); err != nil {
		app.logger.Error(context.Background(), "closing database", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}
