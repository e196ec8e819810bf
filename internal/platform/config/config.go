// Copyright (c) 2026 Innkeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local '.env' file is
loaded first when present (joho/godotenv); real environment variables win.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, blob store) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/taibuivan/innkeep/internal/platform/constants"
)

// Blob provider identifiers accepted by BLOB_PROVIDER.
const (
	BlobProviderLocal    = "local"
	BlobProviderS3       = "s3"
	BlobProviderSupabase = "supabase"
)

// # Configuration Schema

// Config holds all runtime configuration for the Innkeep API server and CLI.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL). DatabaseURL, when set, overrides the parts.
	DatabaseURL      string `env:"DATABASE_URL"`
	DatabaseHost     string `env:"DATABASE_HOST"     envDefault:"localhost"`
	DatabasePort     int    `env:"DATABASE_PORT"     envDefault:"5432"`
	DatabaseUser     string `env:"DATABASE_USER"     envDefault:"innkeep"`
	DatabasePassword string `env:"DATABASE_PASSWORD"`
	DatabaseName     string `env:"DATABASE_NAME"     envDefault:"innkeep"`
	DatabaseSSLMode  string `env:"DATABASE_SSLMODE"  envDefault:"disable"`
	DatabaseMaxConns int32  `env:"DATABASE_MAX_CONNS" envDefault:"10"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis): view cache and session revocation set
	RedisURL     string        `env:"REDIS_URL,required"`
	ViewCacheTTL time.Duration `env:"VIEW_CACHE_TTL" envDefault:"10m"`

	// Session signing and lifetime
	SessionSecret    string        `env:"SESSION_SECRET,required"`
	SessionTTL       time.Duration `env:"SESSION_TTL"        envDefault:"168h"`
	AllowAdminSignup bool          `env:"ALLOW_ADMIN_SIGNUP" envDefault:"true"`

	// Blob storage for photos
	BlobProvider   string `env:"BLOB_PROVIDER"    envDefault:"local"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`

	// S3-compatible object storage (AWS, R2, MinIO)
	S3Bucket          string `env:"S3_BUCKET"`
	S3Region          string `env:"S3_REGION"   envDefault:"auto"`
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	S3PublicBaseURL   string `env:"S3_PUBLIC_BASE_URL"`

	// Supabase Storage
	SupabaseURL    string `env:"SUPABASE_URL"`
	SupabaseKey    string `env:"SUPABASE_KEY"`
	SupabaseBucket string `env:"SUPABASE_BUCKET" envDefault:"guesthouse-photos"`

	// Local filesystem storage, served by the API under LocalBlobBaseURL
	LocalBlobRoot    string `env:"LOCAL_BLOB_ROOT"     envDefault:"./data/uploads"`
	LocalBlobBaseURL string `env:"LOCAL_BLOB_BASE_URL" envDefault:"/media"`

	// Cross-Origin Resource Sharing
	ExtraOrigins []string `env:"EXTRA_ORIGINS" envSeparator:","`
}

// # Configuration Loading

// Load reads an optional .env file and parses environment variables into a [Config].
func Load() (*Config, error) {

	// A missing .env file is the normal production case.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	return Parse()
}

// Parse maps the current process environment into a [Config] and validates it.
func Parse() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate enforces cross-field rules env tags cannot express.
func (c *Config) validate() error {
	if len(c.SessionSecret) < 32 {
		return errors.New("config: SESSION_SECRET must be at least 32 bytes")
	}

	if c.SessionTTL <= 0 {
		return errors.New("config: SESSION_TTL must be positive")
	}

	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = constants.DefaultMaxUploadBytes
	}

	switch c.BlobProvider {
	case BlobProviderLocal:
	case BlobProviderS3:
		if c.S3Bucket == "" {
			return errors.New("config: S3_BUCKET is required when BLOB_PROVIDER=s3")
		}
	case BlobProviderSupabase:
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			return errors.New("config: SUPABASE_URL and SUPABASE_KEY are required when BLOB_PROVIDER=supabase")
		}
	default:
		return fmt.Errorf("config: unknown BLOB_PROVIDER %q", c.BlobProvider)
	}

	return nil
}

// DSN returns the PostgreSQL connection string, built from parts unless
// DATABASE_URL is set.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}

	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DatabaseUser, c.DatabasePassword),
		Host:   net.JoinHostPort(c.DatabaseHost, strconv.Itoa(c.DatabasePort)),
		Path:   "/" + c.DatabaseName,
	}

	query := dsn.Query()
	query.Set("sslmode", c.DatabaseSSLMode)
	dsn.RawQuery = query.Encode()

	return dsn.String()
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns the extra CORS origins accepted outside development.
func (c *Config) AllowedOrigins() []string {
	return c.ExtraOrigins
}
