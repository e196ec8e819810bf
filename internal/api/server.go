// Copyright (c) 2026 Innkeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/innkeep/internal/core/availability"
	"github.com/taibuivan/innkeep/internal/core/dashboard"
	"github.com/taibuivan/innkeep/internal/core/guesthouse"
	"github.com/taibuivan/innkeep/internal/core/photo"
	"github.com/taibuivan/innkeep/internal/core/room"
	"github.com/taibuivan/innkeep/internal/platform/config"
	"github.com/taibuivan/innkeep/internal/platform/constants"
	"github.com/taibuivan/innkeep/internal/platform/metrics"
	"github.com/taibuivan/innkeep/internal/platform/middleware"
	"github.com/taibuivan/innkeep/internal/users/account"
	"github.com/taibuivan/innkeep/internal/users/auth"
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
	// Liveness is the /health handler and always returns 200 if the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler and returns 200 when Postgres and Redis answer.
	Readiness http.HandlerFunc

	// Auth handles registration, login, logout and the current user.
	Auth *auth.Handler

	// Account handles admin user management.
	Account *account.Handler

	Guesthouse   *guesthouse.Handler
	Room         *room.Handler
	Availability *availability.Handler
	Photo        *photo.Handler
	Dashboard    *dashboard.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(
	context context.Context,
	cfg *config.Config,
	log *slog.Logger,
	sessions middleware.SessionResolver,
	collector *metrics.Metrics,
	h Handlers,
) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.Metrics(collector))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(sessions))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health and scrape endpoints.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Handle("/metrics", collector.Handler())

	// Photos on the local provider are served by the API itself.
	if cfg.BlobProvider == config.BlobProviderLocal {
		mountMedia(r, cfg.LocalBlobBaseURL, cfg.LocalBlobRoot)
	}

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())

		api.Group(func(private chi.Router) {
			private.Use(middleware.RequireSession)

			private.Route("/guesthouses", func(router chi.Router) {
				h.Guesthouse.RegisterRoutes(router)
				h.Photo.RegisterGuesthouseRoutes(router)
			})

			private.Route("/rooms", func(router chi.Router) {
				h.Room.RegisterRoutes(router)
				h.Availability.RegisterRoutes(router)
			})

			private.Route("/photos", h.Photo.RegisterRoutes)
			private.Route("/dashboard", h.Dashboard.RegisterRoutes)
			private.Mount("/users", h.Account.Routes())
		})
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

// mountMedia serves the local blob directory read-only under prefix.
func mountMedia(r chi.Router, prefix, root string) {
	prefix = "/" + strings.Trim(prefix, "/")
	files := http.StripPrefix(prefix, http.FileServer(http.Dir(root)))

	r.Get(prefix+"/*", func(writer http.ResponseWriter, request *http.Request) {
		// Directory listings are never exposed.
		if strings.HasSuffix(request.URL.Path, "/") {
			http.NotFound(writer, request)
			return
		}
		files.ServeHTTP(writer, request)
	})
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
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
