// Package rest exposes the TaskFlow API over HTTP/JSON.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/taskflow-app/taskflow/internal/logging"
	"github.com/taskflow-app/taskflow/internal/server/auth"
	"github.com/taskflow-app/taskflow/internal/server/metrics"
	"github.com/taskflow-app/taskflow/internal/server/models"
	"github.com/taskflow-app/taskflow/internal/server/services"
)

// UserService is the account logic the handlers call.
type UserService interface {
	Register(ctx context.Context, fullName, email, password string) (*models.PublicUser, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	Me(ctx context.Context, userID string) (*models.Profile, error)
}

// TaskService is the task logic the handlers call.
type TaskService interface {
	Create(ctx context.Context, ownerID string, in services.CreateTaskInput) (*models.Task, error)
	List(ctx context.Context, ownerID string) ([]models.Task, error)
	Get(ctx context.Context, ownerID, id string) (*models.Task, error)
	Update(ctx context.Context, ownerID, id string, patch models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, ownerID, id string) error
	Delay(ctx context.Context, ownerID, id string) (*models.Task, error)
}

// TokenVerifier checks bearer tokens.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures a Server.
type Options struct {
	Address         string
	StaticDir       string
	ShutdownTimeout time.Duration
	Logger          logging.Logger
	Users           UserService
	Tasks           TaskService
	Tokens          TokenVerifier
	Store           Pinger
	Metrics         *metrics.Metrics
}

type Server struct {
	address         string
	staticDir       string
	shutdownTimeout time.Duration
	logger          logging.Logger
	users           UserService
	tasks           TaskService
	tokens          TokenVerifier
	store           Pinger
	metrics         *metrics.Metrics

	router  *mux.Router
	handler http.Handler
}

func NewServer(o Options) *Server {
	if o.Logger == nil {
		o.Logger = logging.Nop()
	}
	if o.Metrics == nil {
		o.Metrics = metrics.New()
	}
	if o.ShutdownTimeout <= 0 {
		o.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		address:         o.Address,
		staticDir:       o.StaticDir,
		shutdownTimeout: o.ShutdownTimeout,
		logger:          o.Logger.With("module", "rest_server"),
		users:           o.Users,
		tasks:           o.Tasks,
		tokens:          o.Tokens,
		store:           o.Store,
		metrics:         o.Metrics,
	}
	s.router = s.routes()
	s.handler = s.recoverer(s.logRequests(s.instrument(s.cors(s.router))))
	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Run serves until ctx is cancelled, then shuts down gracefully, waiting up
// to the configured timeout for in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()
		shutdownErr <- srv.Shutdown(sctx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-shutdownErr
}
