// Copyright (c) 2026 Innkeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Innkeep HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool) and Redis.
//  4. Run database migrations (idempotent).
//  5. Build the blob store, metrics and view cache.
//  6. Wire services and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/innkeep/internal/api"
	"github.com/taibuivan/innkeep/internal/core/availability"
	"github.com/taibuivan/innkeep/internal/core/dashboard"
	"github.com/taibuivan/innkeep/internal/core/guesthouse"
	"github.com/taibuivan/innkeep/internal/core/photo"
	"github.com/taibuivan/innkeep/internal/core/room"
	"github.com/taibuivan/innkeep/internal/platform/blob"
	"github.com/taibuivan/innkeep/internal/platform/cache"
	"github.com/taibuivan/innkeep/internal/platform/config"
	"github.com/taibuivan/innkeep/internal/platform/constants"
	"github.com/taibuivan/innkeep/internal/platform/metrics"
	"github.com/taibuivan/innkeep/internal/platform/migration"
	pgstore "github.com/taibuivan/innkeep/internal/platform/postgres"
	redisstore "github.com/taibuivan/innkeep/internal/platform/redis"
	"github.com/taibuivan/innkeep/internal/platform/sec"
	"github.com/taibuivan/innkeep/internal/users/account"
	"github.com/taibuivan/innkeep/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("blob_provider", cfg.BlobProvider),
	)

	// Bound startup so misconfiguration fails fast instead of hanging.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL & Redis ─────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DSN(), cfg.DatabaseMaxConns, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 4. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DSN(), cfg.MigrationPath, log), "run migrations")

	// ── 5. Shared Infrastructure ──────────────────────────────────────────
	tokens, err := sec.NewTokenService([]byte(cfg.SessionSecret), constants.AuthIssuer)
	must(log, err, "initialize session tokens")

	store, err := blob.New(cfg)
	must(log, err, "initialize blob store")

	collector := metrics.New()
	views := cache.New(rdb, cfg.ViewCacheTTL, collector, log)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	authService := auth.NewService(
		auth.NewUserRepository(pool),
		auth.NewRevocationStore(rdb),
		tokens,
		auth.Options{SessionTTL: cfg.SessionTTL, AllowAdminSignup: cfg.AllowAdminSignup},
		log,
	)
	accountService := account.NewService(account.NewAccountRepository(pool), views, log)

	photoService := photo.NewService(photo.NewPostgresRepository(pool), store, views, collector, cfg.MaxUploadBytes, log)
	guesthouseService := guesthouse.NewService(guesthouse.NewPostgresRepository(pool), photoService, views, log)
	roomService := room.NewService(room.NewPostgresRepository(pool), views, log)
	availabilityService := availability.NewService(availability.NewPostgresRepository(pool), collector, log)
	dashboardService := dashboard.NewService(dashboard.NewPostgresRepository(pool), views)

	handlers := api.Handlers{
		Liveness:     liveness,
		Readiness:    readiness,
		Auth:         auth.NewHandler(authService, !cfg.IsDevelopment()),
		Account:      account.NewHandler(accountService),
		Guesthouse:   guesthouse.NewHandler(guesthouseService),
		Room:         room.NewHandler(roomService),
		Availability: availability.NewHandler(availabilityService),
		Photo:        photo.NewHandler(photoService, cfg.MaxUploadBytes),
		Dashboard:    dashboard.NewHandler(dashboardService),
	}

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	server := api.NewServer(appCtx, cfg, log, authService, collector, handlers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	log.Info("shutting down server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
