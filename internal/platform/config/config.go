// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. An optional '.env'
file is loaded first with 'joho/godotenv'; variables already present in the
environment always win.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is the dotenv file consulted by [Load].
const DefaultEnvFile = ".env"

// # Configuration Schema

// Config holds all runtime configuration for the Inkwell API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Logging. LogFile enables a rotating file sink in addition to stdout.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL         string        `env:"REDIS_URL,required"`
	RedisPoolSize    int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	IdentityCacheTTL time.Duration `env:"IDENTITY_CACHE_TTL" envDefault:"5m"`

	// Access token signing
	JWTSecret      string        `env:"JWT_SECRET,required"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"24h"`

	// Cross-Origin Resource Sharing
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	// Per-IP token bucket
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"20"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"40"`
}

// # Configuration Loading

// Load reads [DefaultEnvFile] when present, then parses the environment.
func Load() (*Config, error) {
	return LoadFrom(DefaultEnvFile)
}

// LoadFrom is [Load] with an explicit dotenv path. A missing file is not an error.
func LoadFrom(envFile string) (*Config, error) {

	// 1. Seed the environment from the dotenv file without overriding
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: failed to read %s: %w", envFile, err)
		}
	}

	// 2. Map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	// 3. Cross-field sanity checks
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return nil, fmt.Errorf("config: rate limit values must be positive")
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
