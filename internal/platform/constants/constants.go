// Copyright (c) 2026 Innkeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: JWT issuers and cookie configuration.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "innkeep-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	// Photo uploads travel in the body, so this is larger than a pure JSON API needs.
	DefaultReadTimeout = 30 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 45 * time.Second

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
	DefaultRateLimitRPS = 50.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 100

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in session tokens.
	AuthIssuer = "innkeep.app"

	// SessionCookieName is the HttpOnly cookie carrying the session token.
	SessionCookieName = "innkeep_session"

	// SessionCookiePath scopes the session cookie to the whole site.
	SessionCookiePath = "/"

	// LoginPath is where anonymous browser navigations are redirected.
	LoginPath = "/auth/login"

	// DashboardPath is where signed-in browser navigations land after login.
	DashboardPath = "/dashboard"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
	HeaderAccept        = "Accept"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Availability

const (
	// MaxAvailabilityRangeDays bounds a single range update (two years, leap day included).
	MaxAvailabilityRangeDays = 731

	// MaxAvailabilityNotesLength bounds the free-text note on a day.
	MaxAvailabilityNotesLength = 500
)

// # Uploads

const (
	// DefaultMaxUploadBytes is the photo size limit when MAX_UPLOAD_BYTES is unset.
	DefaultMaxUploadBytes = 10 << 20

	// BlobKeyPrefix starts every photo key; the sweeper lists under it.
	BlobKeyPrefix = "guesthouse-"

	// BlobSweepGracePeriod protects fresh uploads whose row may not be committed yet.
	BlobSweepGracePeriod = time.Hour
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixRevokedSession = "auth:revoked:"
	RedisPrefixView           = "view:"
	RedisPrefixViewGeneration = "view-gen:"
)
