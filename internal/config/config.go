// Package config provides environment-driven configuration for the lattice
// server and CLI.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Storage backends.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Secret wraps a sensitive string to prevent accidental logging or
// marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Config holds all application configuration values.
type Config struct {
	StorageBackend   string
	DatabaseURL      Secret
	SQLitePath       string
	Port             string
	ListenHost       string
	CORSOrigins      []string
	LogLevel         string
	MaxDocumentBytes int
	MaxNestingDepth  int
	IngestWorkers    int
}

// Load reads configuration from environment variables with sensible
// defaults.
func Load() (*Config, error) {
	cfg := &Config{
		StorageBackend: envOrDefault("STORAGE_BACKEND", BackendPostgres),
		DatabaseURL:    Secret(envOrDefault("DATABASE_URL", "")),
		SQLitePath:     envOrDefault("SQLITE_PATH", "lattice.db"),
		Port:           envOrDefault("PORT", "3030"),
		ListenHost:     envOrDefault("LISTEN_HOST", "127.0.0.1"),
		LogLevel:       envOrDefault("LOG_LEVEL", "info"),
	}

	var err error

	if cfg.MaxDocumentBytes, err = envInt("MAX_DOCUMENT_BYTES", 10<<20, 1, 1<<30); err != nil {
		return nil, err
	}

	if cfg.MaxNestingDepth, err = envInt("MAX_NESTING_DEPTH", 10, 1, 100); err != nil {
		return nil, err
	}

	if cfg.IngestWorkers, err = envInt("INGEST_WORKERS", 4, 1, 32); err != nil {
		return nil, err
	}

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:3002")
	cfg.CORSOrigins = strings.Split(origins, ",")

	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func envInt(key string, fallback, min, max int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		return 0, fmt.Errorf("%s must be an integer between %d and %d", key, min, max)
	}

	return n, nil
}
