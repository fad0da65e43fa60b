// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local '.env' file is
loaded first when present so development machines need no exported variables.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, broker) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Config holds all runtime configuration for the API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Pool sizing for pgxpool
	DatabaseMaxConns int32 `env:"DATABASE_MAX_CONNS" envDefault:"25"`
	DatabaseMinConns int32 `env:"DATABASE_MIN_CONNS" envDefault:"5"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// StoreTimeout bounds every individual store call issued by the services.
	StoreTimeout time.Duration `env:"STORE_TIMEOUT" envDefault:"5s"`

	// Key-Value Cache (Redis)
	RedisURL      string `env:"REDIS_URL,required"`
	RedisPoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`

	// CacheTTL is the lifetime of a per-type zone or adventure listing.
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"6m"`

	// Public key used to verify access tokens issued by the identity service
	JWTPubKeyPath string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Message broker for search documents. Publishing is disabled when empty.
	AMQPURL     string `env:"AMQP_URL"`
	SearchQueue string `env:"SEARCH_QUEUE" envDefault:"search.documents"`

	// Hierarchy rules
	StrictTypeCheck    bool `env:"STRICT_TYPE_CHECK"    envDefault:"true"`
	BreadcrumbMaxDepth int  `env:"BREADCRUMB_MAX_DEPTH" envDefault:"32"`

	// Local image storage root used when removing adventure pictures
	ImageRoot string `env:"IMAGE_ROOT" envDefault:"./data/images"`

	// Per-IP token bucket
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"100"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"150"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
//
// Variables already present in the environment win over the '.env' file.
func Load() (*Config, error) {

	// A missing .env file is the normal case outside development
	_ = godotenv.Load()

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.DatabaseMaxConns < 1 {
		return nil, fmt.Errorf("config: DATABASE_MAX_CONNS must be positive, got %d", cfg.DatabaseMaxConns)
	}

	if cfg.BreadcrumbMaxDepth < 1 {
		return nil, fmt.Errorf("config: BREADCRUMB_MAX_DEPTH must be positive, got %d", cfg.BreadcrumbMaxDepth)
	}

	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst < 1 {
		return nil, fmt.Errorf("config: rate limit must be positive, got %g rps burst %d", cfg.RateLimitRPS, cfg.RateLimitBurst)
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

// PublishingEnabled reports whether search documents should be sent to the broker.
func (c *Config) PublishingEnabled() bool {
	return c.AMQPURL != ""
}

// AllowedOrigins splits EXTRA_ORIGINS into trimmed, non-empty entries.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
