// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Sunday zone and adventure API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Connect to the search broker (optional).
//  7. Wire domain services and HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
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

	"github.com/taibuivan/sunday/internal/api"
	"github.com/taibuivan/sunday/internal/core/adventure"
	"github.com/taibuivan/sunday/internal/core/breadcrumb"
	"github.com/taibuivan/sunday/internal/core/search"
	"github.com/taibuivan/sunday/internal/core/zone"
	"github.com/taibuivan/sunday/internal/platform/broker"
	"github.com/taibuivan/sunday/internal/platform/cache"
	"github.com/taibuivan/sunday/internal/platform/config"
	"github.com/taibuivan/sunday/internal/platform/constants"
	"github.com/taibuivan/sunday/internal/platform/images"
	"github.com/taibuivan/sunday/internal/platform/metrics"
	"github.com/taibuivan/sunday/internal/platform/migration"
	pgstore "github.com/taibuivan/sunday/internal/platform/postgres"
	redisstore "github.com/taibuivan/sunday/internal/platform/redis"
	"github.com/taibuivan/sunday/internal/platform/sec"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("strict_type_check", cfg.StrictTypeCheck),
	)

	// Root context for startup. A 30s deadline surfaces misconfiguration quickly.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Lives for the whole process; stops the rate limiter janitor on exit.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, pgstore.PoolOptions{
		MaxConns:         cfg.DatabaseMaxConns,
		MinConns:         cfg.DatabaseMinConns,
		StatementTimeout: cfg.StoreTimeout,
	}, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, cfg.RedisPoolSize, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Search Broker ──────────────────────────────────────────────────
	var (
		publisher   broker.Publisher = broker.Disabled{}
		checkBroker func() error
	)
	if cfg.PublishingEnabled() {
		amqpPublisher, err := broker.Dial(cfg.AMQPURL, cfg.SearchQueue, broker.RetryPolicy{
			MaxRetries: constants.PublishMaxRetries,
			Interval:   constants.PublishRetryInterval,
		}, log)
		must(log, err, "connect to broker")
		publisher, checkBroker = amqpPublisher, amqpPublisher.Ping
	} else {
		log.Warn("search_publishing_disabled")
	}
	defer func() {
		if cerr := publisher.Close(); cerr != nil {
			log.Error("broker close error", slog.Any("error", cerr))
		}
	}()

	// ── 7. Token Verification ─────────────────────────────────────────────
	verifier, err := sec.NewTokenVerifier(cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt verifier")

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
		CheckBroker: checkBroker,
	}, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	registry := metrics.New()
	listings := cache.NewListings(cache.NewRedisBackend(rdb), cfg.CacheTTL, registry, log)
	crumbs := breadcrumb.NewBuilder(pool, cfg.BreadcrumbMaxDepth)

	searchRepository := search.NewPostgresRepository(pool)
	indexer := search.NewIndexer(searchRepository, publisher, registry, log)
	searchService := search.NewService(searchRepository, log)

	zoneService := zone.NewService(zone.NewPostgresRepository(pool), crumbs, listings, indexer, zone.Options{
		StrictTypeCheck: cfg.StrictTypeCheck,
		MaxDepth:        cfg.BreadcrumbMaxDepth,
		StoreTimeout:    cfg.StoreTimeout,
	}, log)

	adventureService := adventure.NewService(adventure.NewPostgresRepository(pool), crumbs, listings, indexer,
		images.NewFileRemover(cfg.ImageRoot), adventure.Options{StoreTimeout: cfg.StoreTimeout}, log)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Zone:      zone.NewHandler(zoneService),
		Adventure: adventure.NewHandler(adventureService),
		Search:    search.NewHandler(searchService),
	}

	server := api.NewServer(rootCtx, cfg, log, verifier, registry, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
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

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
