// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

// Package pgtest starts a disposable PostgreSQL container with the blog
// schema applied, for repository integration tests.
package pgtest

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/taibuivan/inkwell/internal/platform/migration"
	"github.com/taibuivan/inkwell/internal/platform/postgres"
)

// Start runs postgres:16-alpine, applies data/migrations and returns a pool.
// The container and pool are released when the test finishes.
func Start(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	// 1. Container
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("inkwell"),
		tcpostgres.WithUsername("inkwell"),
		tcpostgres.WithPassword("inkwell"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("pgtest: start container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("pgtest: terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("pgtest: connection string: %v", err)
	}

	// 2. Schema
	if err := migration.RunUp(dsn, migrationsPath(), logger); err != nil {
		t.Fatalf("pgtest: migrate: %v", err)
	}

	// 3. Pool
	pool, err := postgres.NewPool(ctx, dsn, logger)
	if err != nil {
		t.Fatalf("pgtest: pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return pool
}

// SeedUser inserts an account and returns its id.
func SeedUser(t *testing.T, pool *pgxpool.Pool, username, role string) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO users.account (username, passwordhash, role) VALUES ($1, 'x', $2) RETURNING id`,
		username, role,
	).Scan(&id)
	if err != nil {
		t.Fatalf("pgtest: seed user %s: %v", username, err)
	}
	return id
}

func migrationsPath() string {
	_, currentFile, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(currentFile), "..", "..", "..", "..", "data", "migrations")
}
