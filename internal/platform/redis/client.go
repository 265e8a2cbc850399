// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis opens the Redis client behind the identity cache.

The authentication middleware resolves every bearer token to the account's
current role. Redis keeps those lookups off PostgreSQL for the cache TTL.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 2 * time.Second

// Options tunes the client on top of what the URL carries.
type Options struct {
	URL          string
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// withDefaults fills zero fields. Cache reads sit on the request path, so the
// I/O timeouts stay short.
func (options Options) withDefaults() Options {
	if options.PoolSize <= 0 {
		options.PoolSize = 10
	}
	if options.DialTimeout <= 0 {
		options.DialTimeout = 3 * time.Second
	}
	if options.ReadTimeout <= 0 {
		options.ReadTimeout = time.Second
	}
	if options.WriteTimeout <= 0 {
		options.WriteTimeout = time.Second
	}
	return options
}

/*
NewClient parses options.URL, applies the tuning and pings the server once.

Parameters:
  - context: Bounds the initial ping
  - options: URL (redis:// or rediss://) plus pool tuning
  - logger: Receives the redis_client_connected event

Returns:
  - *redis.Client: A connected client, closed again if the ping fails
  - error: Parse or connectivity failures
*/
func NewClient(context stdctx.Context, options Options, logger *slog.Logger) (*redis.Client, error) {
	options = options.withDefaults()

	parsed, err := redis.ParseURL(options.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	parsed.PoolSize = options.PoolSize
	parsed.MinIdleConns = max(1, options.PoolSize/5)
	parsed.DialTimeout = options.DialTimeout
	parsed.ReadTimeout = options.ReadTimeout
	parsed.WriteTimeout = options.WriteTimeout

	client := redis.NewClient(parsed)
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", parsed.Addr),
		slog.Int("db", parsed.DB),
		slog.Int("pool_size", parsed.PoolSize),
	)

	return client, nil
}

// Ping reports whether the server answers within two seconds. It backs the
// readiness probe.
func Ping(context stdctx.Context, client redis.UniversalClient) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}
