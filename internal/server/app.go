// Package server assembles the TaskFlow application: configuration, storage,
// services and the HTTP API, plus graceful shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/taskflow-app/taskflow/internal/filex"
	"github.com/taskflow-app/taskflow/internal/logging"
	"github.com/taskflow-app/taskflow/internal/server/auth"
	"github.com/taskflow-app/taskflow/internal/server/config"
	"github.com/taskflow-app/taskflow/internal/server/metrics"
	"github.com/taskflow-app/taskflow/internal/server/repositories/repomanager"
	"github.com/taskflow-app/taskflow/internal/server/rest"
	"github.com/taskflow-app/taskflow/internal/server/services"
)

const serviceName = "taskflow"

// Startup connection attempts back off exponentially from connectBase, capped
// per attempt and overall.
var (
	connectBase    = 500 * time.Millisecond
	connectCap     = 5 * time.Second
	connectTimeout = 30 * time.Second
)

type App struct {
	config *config.Config
	logger logging.Logger
	store  repomanager.RepositoryManager
	server *rest.Server
}

// NewApp connects the store, applies migrations and builds the HTTP server.
// Logs go to w (stdout when nil).
func NewApp(ctx context.Context, c *config.Config, w io.Writer) (*App, error) {
	logger := logging.NewSlogLogger(logging.Setup(serviceName, c.LogFormat, c.LogLevel, w))

	store, err := openStore(ctx, c.DatabaseDSN, logger)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := store.RunMigrations(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	staticDir, err := staticRoot(ctx, c.StaticDir, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	tokens := auth.NewTokenService([]byte(c.SecretKey), c.TokenValidityDuration)
	users := services.NewUserService(store, auth.NewBcryptHasher(c.BcryptCost), tokens)
	tasks := services.NewTaskService(store)

	srv := rest.NewServer(rest.Options{
		Address:         c.EndpointAddrHTTP,
		StaticDir:       staticDir,
		ShutdownTimeout: c.ShutdownTimeout,
		Logger:          logger,
		Users:           users,
		Tasks:           tasks,
		Tokens:          tokens,
		Store:           store,
		Metrics:         metrics.New(),
	})

	return &App{config: c, logger: logger, store: store, server: srv}, nil
}

// openStore returns the memory store for config.MemoryDSN, otherwise a
// PostgreSQL store once the database answers a ping.
func openStore(ctx context.Context, dsn string, logger logging.Logger) (repomanager.RepositoryManager, error) {
	if dsn == config.MemoryDSN {
		logger.Warn(ctx, "Using in-memory store, data is lost on restart")
		return repomanager.NewMemoryRepositoryManager(), nil
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	store := repomanager.NewPostgresRepositoryManager(db)
	if err := pingWithRetry(ctx, store, logger); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func pingWithRetry(ctx context.Context, p interface{ Ping(context.Context) error }, logger logging.Logger) error {
	backoff := retry.NewExponential(connectBase)
	backoff = retry.WithCappedDuration(connectCap, backoff)
	backoff = retry.WithMaxDuration(connectTimeout, backoff)

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := p.Ping(ctx); err != nil {
			logger.Warn(ctx, "Database not reachable", "attempt", attempt, "error", err.Error())
			return retry.RetryableError(err)
		}
		return nil
	})
}

// staticRoot resolves the front-end directory. A missing directory disables
// static serving rather than failing startup.
func staticRoot(ctx context.Context, name string, logger logging.Logger) (string, error) {
	if name == "" {
		return "", nil
	}
	dir, ok, err := filex.ResolveDir(name)
	if err != nil {
		return "", fmt.Errorf("static dir: %w", err)
	}
	if !ok {
		logger.Info(ctx, "Static directory not found, front-end disabled", "dir", dir)
		return "", nil
	}
	return dir, nil
}

// Handler exposes the wrapped HTTP handler.
func (app *App) Handler() http.Handler { return app.server.Handler() }

// Run serves until ctx is cancelled or the process receives SIGINT/SIGTERM,
// then shuts the server down and closes the store.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	err := app.server.Run(ctx)

	if cerr := app.store.Close(); cerr != nil {
		logging.LogError(ctx, app.logger, "closing store", cerr)
	}
	app.logger.Info(ctx, "App stopped")
	return err
}
