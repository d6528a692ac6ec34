// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string
	Port     string
	Env      string // "development", "production", "testing"
	LogLevel string

	// PostgreSQL connection. DatabaseURL wins over the individual fields.
	DatabaseURL    string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSL          bool
	DBMaxOpenConns int
	DBMaxIdleConns int

	// Valkey (Redis-compatible cache)
	ValkeyHost       string
	ValkeyPort       string
	ValkeyPassword   string
	CategoryCacheTTL time.Duration

	// Admin write requests allowed per client IP per minute
	MutationRateLimit int

	// Identity provider token verification
	AuthProjectID     string
	AuthIssuer        string
	AuthAudience      string
	AuthJWTSecret     string // HS256 shared secret
	AuthPublicKeyFile string // RS256 PEM public key
	AuthJWKSURL       string // RS256 JWK set selected by "kid"; wins over the other keys
}

// FirebaseJWKSURL publishes the rotating keys that sign Firebase ID tokens.
const FirebaseJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// is loaded first if present; variables already set in the environment
// take precedence over it. Returns an error if critical values are missing
// in production mode.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Host:     envOrDefault("APP_HOST", "0.0.0.0"),
		Port:     envOrDefault("APP_PORT", "8080"),
		Env:      envOrDefault("APP_ENV", "development"),
		LogLevel: os.Getenv("LOG_LEVEL"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:      envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:      envOrDefault("POSTGRES_USER", "hostelhub"),
		DBPassword:  envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:      envOrDefault("POSTGRES_DB", "hostelhub"),
		DBSSL:       sslRequested(os.Getenv("PGSSLMODE"), os.Getenv("SSLMODE"), os.Getenv("DATABASE_SSL")),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		AuthProjectID:     os.Getenv("AUTH_PROJECT_ID"),
		AuthJWTSecret:     os.Getenv("AUTH_JWT_SECRET"),
		AuthPublicKeyFile: os.Getenv("AUTH_PUBLIC_KEY_FILE"),
		AuthJWKSURL:       os.Getenv("AUTH_JWKS_URL"),
	}

	var err error
	if cfg.DBMaxOpenConns, err = envInt("DB_MAX_OPEN_CONNS", 25); err != nil {
		return nil, err
	}
	if cfg.DBMaxIdleConns, err = envInt("DB_MAX_IDLE_CONNS", 5); err != nil {
		return nil, err
	}
	if cfg.CategoryCacheTTL, err = envDuration("CATEGORY_CACHE_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.MutationRateLimit, err = envInt("MUTATION_RATE_LIMIT", 60); err != nil {
		return nil, err
	}

	// Issuer, audience and key set default to the Firebase conventions for
	// the project. A configured secret or key file keeps local verification.
	cfg.AuthIssuer = os.Getenv("AUTH_ISSUER")
	cfg.AuthAudience = os.Getenv("AUTH_AUDIENCE")
	if cfg.AuthProjectID != "" {
		if cfg.AuthIssuer == "" {
			cfg.AuthIssuer = "https://securetoken.google.com/" + cfg.AuthProjectID
		}
		if cfg.AuthAudience == "" {
			cfg.AuthAudience = cfg.AuthProjectID
		}
		if cfg.AuthJWKSURL == "" && cfg.AuthJWTSecret == "" && cfg.AuthPublicKeyFile == "" {
			cfg.AuthJWKSURL = FirebaseJWKSURL
		}
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
		if cfg.IsDev() {
			cfg.LogLevel = "debug"
		}
	}

	if cfg.Env == "production" {
		if cfg.DatabaseURL == "" && cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD or DATABASE_URL must be set in production")
		}
		if cfg.AuthJWTSecret == "" && cfg.AuthPublicKeyFile == "" && cfg.AuthJWKSURL == "" {
			return nil, fmt.Errorf("AUTH_PROJECT_ID, AUTH_JWKS_URL, AUTH_JWT_SECRET or AUTH_PUBLIC_KEY_FILE must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string. An explicit DATABASE_URL is
// returned as-is unless SSL was requested and the URL does not already
// specify an sslmode.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		if !c.DBSSL {
			return c.DatabaseURL
		}
		u, err := url.Parse(c.DatabaseURL)
		if err != nil {
			return c.DatabaseURL
		}
		q := u.Query()
		if q.Get("sslmode") == "" {
			q.Set("sslmode", "require")
			u.RawQuery = q.Encode()
		}
		return u.String()
	}

	sslMode := "disable"
	if c.DBSSL {
		sslMode = "require"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(c.DBUser), url.QueryEscape(c.DBPassword), c.DBHost, c.DBPort, c.DBName, sslMode,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// SlogLevel converts LogLevel into a slog.Level, defaulting to Info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envInt reads a positive integer environment variable.
func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}

// envDuration reads a time.Duration environment variable (e.g. "30m").
func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}

// sslRequested reports whether any of the given settings asks for SSL.
func sslRequested(values ...string) bool {
	for _, v := range values {
		switch strings.ToLower(v) {
		case "require", "true":
			return true
		}
	}
	return false
}
