// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Inkwell HTTP API server.
//
// # Startup Sequence
//
//  1. Load configuration from the environment (and an optional .env file).
//  2. Initialize the structured logger.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire services and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/inkwell/internal/api"
	"github.com/taibuivan/inkwell/internal/blog/post"
	"github.com/taibuivan/inkwell/internal/blog/tag"
	"github.com/taibuivan/inkwell/internal/platform/config"
	"github.com/taibuivan/inkwell/internal/platform/constants"
	"github.com/taibuivan/inkwell/internal/platform/logger"
	"github.com/taibuivan/inkwell/internal/platform/metrics"
	"github.com/taibuivan/inkwell/internal/platform/migration"
	pgstore "github.com/taibuivan/inkwell/internal/platform/postgres"
	redisstore "github.com/taibuivan/inkwell/internal/platform/redis"
	"github.com/taibuivan/inkwell/internal/platform/sec"
	"github.com/taibuivan/inkwell/internal/users/account"
)

// poolStatsInterval is how often connection pool gauges are refreshed.
const poolStatsInterval = 15 * time.Second

func main() {
	// ── 1. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "startup failure:", err)
		os.Exit(1)
	}

	// ── 2. Logger ─────────────────────────────────────────────────────────
	log, logSink := logger.New(logger.Options{
		Level: cfg.LogLevel,
		Debug: cfg.Debug,
		File:  cfg.LogFile,
	})
	defer closeQuietly(log, logSink, "log file")
	slog.SetDefault(log)

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for background work, cancelled on shutdown.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Startup deadline so misconfiguration fails fast.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("postgres_pool_closing")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, redisstore.Options{URL: cfg.RedisURL, PoolSize: cfg.RedisPoolSize}, log)
	must(log, err, "connect to redis")
	defer closeQuietly(log, rdb, "redis client")

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Security ───────────────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.JWTSecret, constants.AuthIssuer)
	must(log, err, "initialize token service")

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	accountService := account.NewService(
		account.NewUserRepository(pool),
		account.NewIdentityCache(rdb),
		tokens,
		account.Options{AccessTokenTTL: cfg.AccessTokenTTL, IdentityCacheTTL: cfg.IdentityCacheTTL},
	)
	postService := post.NewService(post.NewPostgresRepository(pool))
	tagService := tag.NewService(tag.NewPostgresRepository(pool))

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		CheckCache:    func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
	})

	// ── 8. Metrics ────────────────────────────────────────────────────────
	poolStats := metrics.NewPoolStatsCollector(pool)
	poolStats.Start(poolStatsInterval)
	defer poolStats.Stop()

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(rootCtx, cfg, log,
		api.Security{Verifier: tokens, Resolver: accountService},
		api.Handlers{
			Liveness:  liveness,
			Readiness: readiness,
			Account:   account.NewHandler(accountService),
			Post:      post.NewHandler(postService),
			Tag:       tag.NewHandler(tagService),
		},
	)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
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
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_listen_failed", slog.Any(constants.FieldError, err))
	}

	log.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("server_shutdown_failed", slog.Any(constants.FieldError, err))
	}

	log.Info("server_stopped")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, errors are returned and handled.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any(constants.FieldError, err),
		)
		os.Exit(1)
	}
}

func closeQuietly(log *slog.Logger, closer io.Closer, name string) {
	if err := closer.Close(); err != nil {
		log.Error("close_failed", slog.String("resource", name), slog.Any(constants.FieldError, err))
	}
}
