// Copyright (c) 2026 Danmu. All rights reserved.

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Authentication: the deployment issuer and the token-principal context key.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "danmu-api"
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
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer identifies this deployment in logs and bootstrap tokens.
	AuthIssuer = "danmu.app"

	// ContextKeyUser is the key used to store the token principal in the request context.
	ContextKeyUser = "user_claims"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldItems   = "items"
	FieldTotal   = "total"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderOrigin        = "Origin"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
)

// # Database Schemas

const (
	SchemaCore     = "core"
	SchemaPlatform = "platform"
)

// # Redis Key Prefixes
//
// Redis here is deliberately narrow: it backs the cookie-refresh single-flight
// lock and nothing else. The cache layer (component A) lives in Postgres.
const (
	// RedisPrefixCookieRefreshLock is a key prefix for the per-provider
	// cookie-refresh lock. RateLimitedClient does not read it: its SETNX lock
	// key is "cookie_refresh:<provider>".
	RedisPrefixCookieRefreshLock = "scraper:cookie_refresh_lock:"
)

// # Default Config Values (§6 "Persisted config")
//
// These seed the `config` table on first boot; operators change them via the
// admin config endpoint thereafter.
const (
	DefaultSearchTTLSeconds      = 300
	DefaultEpisodesTTLSeconds    = 1800
	DefaultBaseInfoTTLSeconds    = 1800
	DefaultMetadataSearchTTLSecs = 1800
	DefaultMinRequestInterval    = 450 * time.Millisecond
	DefaultScraperRequestTimeout = 20 * time.Second
	DefaultIncrementalFailureCap = 5
	DefaultCacheSweepInterval    = 1 * time.Hour
	DefaultOAuthStateTTL         = 10 * time.Minute
)
