// Package server provides the HTTP REST API for the accreditation tracker.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/accreditrack/internal/logging"
	"github.com/jonathan/accreditrack/internal/server/middleware"
	"github.com/jonathan/accreditrack/internal/types"
	"github.com/jonathan/accreditrack/internal/workflow"
)

const (
	maxJSONBodyBytes = 1 << 20
	shutdownTimeout  = 30 * time.Second
)

// Config holds server configuration
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	CORSOrigins  []string

	// LoginRateLimit is the number of login attempts allowed per client IP
	// in LoginRateWindow. Zero disables the limit.
	LoginRateLimit  int
	LoginRateWindow time.Duration
}

// TokenAuthenticator is the auth gate as seen by the server.
type TokenAuthenticator interface {
	Authenticator
	middleware.TokenValidator
}

// Server represents the HTTP server
type Server struct {
	cfg         Config
	httpServer  *http.Server
	workflow    *workflow.Service
	authHandler *AuthHandler
	gate        TokenAuthenticator
}

// New creates a new server instance
func New(cfg Config, gate TokenAuthenticator, users UserLookup, svc *workflow.Service) *Server {
	s := &Server{
		cfg:         cfg,
		workflow:    svc,
		gate:        gate,
		authHandler: NewAuthHandler(gate, users),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// useMiddleware installs the shared middleware chain. Recover sits inside
// RequestLogger and PrometheusMetrics so recovered panics are logged and
// counted as 500s.
func (s *Server) useMiddleware(r chi.Router) {
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Recover)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	s.useMiddleware(r)

	r.NotFound(s.handleNotFound)
	r.MethodNotAllowed(s.handleMethodNotAllowed)

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.With(s.loginRateLimit()).Post("/auth/login", s.authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(s.gate))

			r.Get("/auth/me", s.authHandler.Me)
			r.Get("/cycles", s.handleListCycles)

			r.Route("/benchmark-tasks", func(r chi.Router) {
				r.Get("/", s.handleListTasks)
				r.With(middleware.RequireRole(types.RoleCoordinator, types.RoleAdmin)).
					Post("/", s.handleCreateTask)

				r.Route("/{taskId}", func(r chi.Router) {
					r.Get("/", s.handleGetTask)
					r.With(middleware.RequireRole(types.RoleFaculty)).
						Post("/submit", s.handleSubmitTask)
					r.With(middleware.RequireRole(types.RoleCoordinator, types.RoleAdmin)).
						Patch("/review", s.handleReviewTask)
				})
			})
		})
	})

	return r
}

// loginRateLimit throttles login attempts per client IP.
func (s *Server) loginRateLimit() func(http.Handler) http.Handler {
	if s.cfg.LoginRateLimit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		s.cfg.LoginRateLimit,
		s.cfg.LoginRateWindow,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			logging.Warn().Str("remote_addr", r.RemoteAddr).Msg("login rate limit exceeded")
			failureResponse(w, http.StatusTooManyRequests, "too many login attempts, please try again later")
		}),
	)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logging.Info().Str("addr", ln.Addr().String()).Msg("server starting")
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logging.Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		logging.Info().Msg("server stopped")
		return nil
	})

	return g.Wait()
}
