// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Hierarchy: Defaults for proximity queries and graph walks.
  - Cache Taxonomy: Redis key prefixes.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "sunday-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Hierarchy & Proximity

const (
	// DefaultNearbyCount is used when a proximity query omits its count.
	DefaultNearbyCount = 10

	// MaxNearbyCount caps proximity queries.
	MaxNearbyCount = 100

	// DefaultBreadcrumbDepth bounds parent-chain walks.
	DefaultBreadcrumbDepth = 32

	// CoordinatePrecision is the number of decimals kept for path coordinates.
	CoordinatePrecision = 6

	// SearchResultLimit caps keyword search results.
	SearchResultLimit = 50
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "sunday.app"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixZones      = "cache:zones:"
	RedisPrefixAdventures = "cache:adventures:"
)

// # Message Broker

const (
	// PublishMaxRetries bounds attempts to publish a search document.
	PublishMaxRetries = 3

	// PublishRetryInterval is the constant wait between publish attempts.
	PublishRetryInterval = 200 * time.Millisecond
)
