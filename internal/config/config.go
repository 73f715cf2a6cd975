// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// Environment names accepted in App.Environment.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// StructuredConfig is the top-level configuration container for the TaskPro
// auth server and client. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line flags,
// an optional JSON file, and finally the built-in defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds process-level settings: environment, version, logging and
	// the public addresses used in notifications.
	App App `envPrefix:"APP_"`

	// Auth holds token signing keys, token lifetimes and password policy.
	Auth Auth `envPrefix:"AUTH_"`

	// Security holds origin allow-listing, rate limits and request caps.
	Security Security `envPrefix:"SECURITY_"`

	// Storage holds configuration for all persistence backends.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP and
	// gRPC servers.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the client's view of the server.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds intervals of background jobs.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration.
type App struct {
	// Environment is one of "development", "production" or "test".
	// Anything but production relaxes the origin allow-list.
	// Env: APP_ENV
	Environment string `env:"ENV"`

	// Version is reported by /api/health and the welcome route.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// LogLevel is a zerolog level name.
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`

	// PublicURL is the externally reachable base URL of the API, used to
	// build confirmation links.
	// Env: APP_PUBLIC_URL
	PublicURL string `env:"PUBLIC_URL"`

	// SupportEmail receives help requests.
	// Env: APP_SUPPORT_EMAIL
	SupportEmail string `env:"SUPPORT_EMAIL"`
}

// Auth holds credential and token settings.
type Auth struct {
	// AccessTokenKey signs access tokens. Must be kept confidential.
	// Env: AUTH_ACCESS_TOKEN_KEY
	AccessTokenKey string `env:"ACCESS_TOKEN_KEY"`

	// RefreshTokenKey signs refresh tokens. Must differ from AccessTokenKey.
	// Env: AUTH_REFRESH_TOKEN_KEY
	RefreshTokenKey string `env:"REFRESH_TOKEN_KEY"`

	// TokenIssuer is the "iss" claim embedded in and required of every token.
	// Env: AUTH_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// Env: AUTH_ACCESS_TOKEN_DURATION
	AccessTokenDuration time.Duration `env:"ACCESS_TOKEN_DURATION"`

	// Env: AUTH_REFRESH_TOKEN_DURATION
	RefreshTokenDuration time.Duration `env:"REFRESH_TOKEN_DURATION"`

	// ClockSkew is the tolerance applied to exp/iat checks.
	// Env: AUTH_CLOCK_SKEW
	ClockSkew time.Duration `env:"CLOCK_SKEW"`

	// PasswordHashCost is the bcrypt cost factor.
	// Env: AUTH_PASSWORD_HASH_COST
	PasswordHashCost int `env:"PASSWORD_HASH_COST"`

	// AllowUnconfirmedLogin lets users log in before following the
	// confirmation link. Off by default.
	// Env: AUTH_ALLOW_UNCONFIRMED_LOGIN
	AllowUnconfirmedLogin bool `env:"ALLOW_UNCONFIRMED_LOGIN"`
}

// Security holds abuse-mitigation settings of the HTTP surface.
type Security struct {
	// FrontendURL, when set, replaces the default origin allow-list.
	// Env: SECURITY_FRONTEND_URL
	FrontendURL string `env:"FRONTEND_URL"`

	// AllowedOrigins is appended to the allow-list (comma separated).
	// Env: SECURITY_ALLOWED_ORIGINS
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	// StrictOrigins disables the non-production relaxation of the
	// allow-list.
	// Env: SECURITY_STRICT_ORIGINS
	StrictOrigins bool `env:"STRICT_ORIGINS"`

	// TrustProxy makes the server take the client address from
	// X-Forwarded-For / X-Real-IP.
	// Env: SECURITY_TRUST_PROXY
	TrustProxy bool `env:"TRUST_PROXY"`

	// Env: SECURITY_GENERAL_RATE_LIMIT
	GeneralRateLimit int `env:"GENERAL_RATE_LIMIT"`
	// Env: SECURITY_GENERAL_RATE_WINDOW
	GeneralRateWindow time.Duration `env:"GENERAL_RATE_WINDOW"`
	// Env: SECURITY_AUTH_RATE_LIMIT
	AuthRateLimit int `env:"AUTH_RATE_LIMIT"`
	// Env: SECURITY_AUTH_RATE_WINDOW
	AuthRateWindow time.Duration `env:"AUTH_RATE_WINDOW"`

	// MaxBodyBytes caps inbound request bodies.
	// Env: SECURITY_MAX_BODY_BYTES
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES"`
}

// Storage groups the configuration for all storage backends used by the
// application.
type Storage struct {
	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`

	// Redis holds the shared rate-limiter backend settings.
	Redis Redis `envPrefix:"REDIS_"`

	// Files holds the avatar directory.
	Files Files `envPrefix:"FILES_"`
}

// DB holds connection settings for the relational database backend.
type DB struct {
	// DSN is the PostgreSQL connection string on the server and the SQLite
	// file path on the client. An empty server DSN selects in-memory stores.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Redis holds connection settings of the rate-limiter backend.
// An empty Address selects the in-process limiter.
type Redis struct {
	// Env: STORAGE_REDIS_ADDRESS
	Address string `env:"ADDRESS"`
	// Env: STORAGE_REDIS_PASSWORD
	Password string `env:"PASSWORD"`
	// Env: STORAGE_REDIS_DB
	DB int `env:"DB"`
}

// Files holds file-system settings.
type Files struct {
	// AvatarDir is where uploaded avatars are written and served from.
	// Env: STORAGE_FILES_AVATAR_DIR
	AvatarDir string `env:"AVATAR_DIR"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// GRPCAddress is the TCP address of the gRPC health server.
	// Empty disables it.
	// Env: SERVER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Adapter holds the client's connection settings.
type Adapter struct {
	// HTTPAddress is the base address of the auth server.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds every outbound client request.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds intervals of background jobs.
type Workers struct {
	// Env: WORKERS_LIMITER_SWEEP_INTERVAL
	LimiterSweepInterval time.Duration `env:"LIMITER_SWEEP_INTERVAL"`
	// Env: WORKERS_TOKEN_PURGE_INTERVAL
	TokenPurgeInterval time.Duration `env:"TOKEN_PURGE_INTERVAL"`
	// Env: WORKERS_HEALTH_INTERVAL
	HealthInterval time.Duration `env:"HEALTH_INTERVAL"`
	// TokenRefreshInterval is how often the client rotates its tokens.
	// Env: WORKERS_TOKEN_REFRESH_INTERVAL
	TokenRefreshInterval time.Duration `env:"TOKEN_REFRESH_INTERVAL"`
}

// IsProduction reports whether the server runs in production mode.
func (a App) IsProduction() bool {
	return a.Environment == EnvProduction
}

// Origins returns the effective origin allow-list.
func (s Security) Origins() []string {
	origins := defaultOrigins
	if s.FrontendURL != "" {
		origins = []string{s.FrontendURL}
	}

	out := make([]string, 0, len(origins)+len(s.AllowedOrigins))
	out = append(out, origins...)
	return append(out, s.AllowedOrigins...)
}

// GetStructuredConfig loads, merges, and validates the server configuration
// from all available sources in the following priority order (the first
// source that sets a field wins):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// The result is validated as a server configuration.
func GetStructuredConfig() (*StructuredConfig, error) {
	cfg, err := loadStructuredConfig()
	if err != nil {
		return nil, err
	}

	return cfg, cfg.validate()
}

func loadStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
