// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the composition root for the chi router.
  - Only this package and cmd/api construct the [http.Server].
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/inkwell/internal/blog/post"
	"github.com/taibuivan/inkwell/internal/blog/tag"
	"github.com/taibuivan/inkwell/internal/platform/config"
	"github.com/taibuivan/inkwell/internal/platform/constants"
	"github.com/taibuivan/inkwell/internal/platform/metrics"
	"github.com/taibuivan/inkwell/internal/platform/middleware"
	"github.com/taibuivan/inkwell/internal/users/account"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler. Always 200 while the process runs.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. 200 only when all deps are healthy.
	Readiness http.HandlerFunc

	// Account handles sign-in and the current user.
	Account *account.Handler

	// Post handles posts and their comments.
	Post *post.Handler

	// Tag serves the tag catalogue.
	Tag *tag.Handler
}

// Security groups the collaborators of the authentication middleware.
type Security struct {
	Verifier middleware.TokenVerifier
	Resolver middleware.IdentityResolver
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups. ctx bounds background work such as the rate
// limiter janitor.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, security Security, h Handlers) *Server {
	r := chi.NewRouter()
	limiter := middleware.NewRateLimiter(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst)

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.Metrics)
	r.Use(middleware.PanicRecovery)
	r.Use(chimw.CleanPath)
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(limiter.Middleware)
	r.Use(middleware.Authenticate(security.Verifier, security.Resolver))

	// # Infrastructure Endpoints
	// Unauthenticated probes for container orchestration and scraping.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Account.Routes())
		api.Mount("/posts", h.Post.Routes())
		api.Mount("/tags", h.Tag.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the configured router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
