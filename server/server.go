package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bizgate/go-tenant-auth/audit"
	"github.com/bizgate/go-tenant-auth/auth"
	"github.com/bizgate/go-tenant-auth/internal/config"
	"github.com/bizgate/go-tenant-auth/token"
)

// Pinger reports backing store reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	env    string
	router chi.Router
	config config.Config
	repos  auth.Repos
	auth   *auth.Service
	tokens *token.Manager
	pinger Pinger
	log    zerolog.Logger
}

type Option func(*Server)

// WithPinger wires a backing store health check into GET /healthz.
func WithPinger(p Pinger) Option {
	return func(s *Server) { s.pinger = p }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) { s.log = logger }
}

func New(cfg config.Config, repos auth.Repos, tokens *token.Manager, sink audit.Sink, options ...Option) (*Server, error) {
	authService, err := auth.NewService(repos, tokens, sink)
	if err != nil {
		return nil, errors.Wrap(err, "[Server New] create auth service")
	}

	s := &Server{
		env:    cfg.GetEnv(),
		router: chi.NewRouter(),
		config: cfg,
		repos:  repos,
		auth:   authService,
		tokens: tokens,
		log:    log.Logger,
	}
	for _, opt := range options {
		opt(s)
	}

	s.initRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) initRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(chimiddleware.Timeout(30 * time.Second))

	s.router.Get("/healthz", s.HealthzHandler())
	s.router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	s.router.Route("/api/company", func(r chi.Router) {
		r.Post("/verify", s.VerifyIdentifierHandler())
		r.Post("/login", s.LoginHandler())
		r.Post("/refresh", s.RefreshHandler())

		r.Group(func(r chi.Router) {
			r.Use(s.RequireAuth)
			r.Post("/logout", s.LogoutHandler())
			r.Get("/validate", s.ValidateHandler())
			r.Get("/subscription", s.SubscriptionHandler())
			r.Get("/subscription/status", s.SubscriptionStatusHandler())
			r.Get("/usage", s.UsageHandler())
		})
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("requestId", chimiddleware.GetReqID(r.Context())).
			Msg("request")
	})
}
