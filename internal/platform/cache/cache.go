// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cache stores the per-type zone and adventure listings.

One entry exists per (namespace, type). Entries are filled on read with a TTL
and dropped by any write that changes a listing. Callers evict only after
their transaction commits, so a racing reader cannot repopulate an entry with
pre-write data.

Key layout:

	cache:zones:<type>
	cache:adventures:<type>
*/
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/taibuivan/sunday/internal/platform/constants"
	"github.com/taibuivan/sunday/internal/platform/metrics"
)

// ErrMiss is returned by a [Backend] when a key does not exist.
var ErrMiss = errors.New("cache: miss")

// Backend is the key-value store behind the listing cache.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Namespace is one family of listings sharing a key prefix.
type Namespace struct {
	name    string
	prefix  string
	backend Backend
	ttl     time.Duration
	lookups *prometheus.CounterVec
	logger  *slog.Logger
}

// Listings groups the two namespaces used by the hierarchy.
type Listings struct {
	Zones      *Namespace
	Adventures *Namespace
}

// NewListings builds the zone and adventure namespaces over one backend.
func NewListings(backend Backend, ttl time.Duration, m *metrics.Metrics, logger *slog.Logger) *Listings {
	return &Listings{
		Zones:      newNamespace("zones", constants.RedisPrefixZones, backend, ttl, m, logger),
		Adventures: newNamespace("adventures", constants.RedisPrefixAdventures, backend, ttl, m, logger),
	}
}

func newNamespace(name, prefix string, backend Backend, ttl time.Duration, m *metrics.Metrics, logger *slog.Logger) *Namespace {
	return &Namespace{
		name:    name,
		prefix:  prefix,
		backend: backend,
		ttl:     ttl,
		lookups: m.CacheLookups,
		logger:  logger,
	}
}

// Key returns the backend key for one listing.
func (namespace *Namespace) Key(listing string) string {
	return namespace.prefix + listing
}

/*
Get decodes the cached listing into dest.

Backend failures are logged and reported as a miss; the caller then rebuilds
the listing from the store.

Returns:
  - bool: true on a hit
*/
func (namespace *Namespace) Get(ctx context.Context, listing string, dest any) bool {
	raw, err := namespace.backend.Get(ctx, namespace.Key(listing))
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			namespace.logger.WarnContext(ctx, "cache_get_failed",
				slog.String("namespace", namespace.name),
				slog.String("listing", listing),
				slog.Any("error", err),
			)
		}
		namespace.lookups.WithLabelValues(namespace.name, metrics.ResultMiss).Inc()
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		namespace.logger.WarnContext(ctx, "cache_decode_failed",
			slog.String("namespace", namespace.name),
			slog.String("listing", listing),
			slog.Any("error", err),
		)
		namespace.lookups.WithLabelValues(namespace.name, metrics.ResultMiss).Inc()
		return false
	}

	namespace.lookups.WithLabelValues(namespace.name, metrics.ResultHit).Inc()
	return true
}

// Set stores a listing. Failures are logged; the next read simply misses.
func (namespace *Namespace) Set(ctx context.Context, listing string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		namespace.logger.WarnContext(ctx, "cache_encode_failed", slog.String("namespace", namespace.name), slog.Any("error", err))
		return
	}

	if err := namespace.backend.Set(ctx, namespace.Key(listing), raw, namespace.ttl); err != nil {
		namespace.logger.WarnContext(ctx, "cache_set_failed",
			slog.String("namespace", namespace.name),
			slog.String("listing", listing),
			slog.Any("error", err),
		)
	}
}

// Evict drops the given listings.
func (namespace *Namespace) Evict(ctx context.Context, listings ...string) error {
	if len(listings) == 0 {
		return nil
	}

	keys := make([]string, len(listings))
	for i, listing := range listings {
		keys[i] = namespace.Key(listing)
	}

	if err := namespace.backend.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("cache: evict %s: %w", namespace.name, err)
	}
	return nil
}

// Clear drops every listing in the namespace.
func (namespace *Namespace) Clear(ctx context.Context) error {
	keys, err := namespace.backend.Keys(ctx, namespace.prefix)
	if err != nil {
		return fmt.Errorf("cache: list %s: %w", namespace.name, err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := namespace.backend.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("cache: clear %s: %w", namespace.name, err)
	}
	return nil
}
