// Package config defines the server configuration loaded from
// OKR_-prefixed environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/okrhub/okrhub/internal/env"
)

// Storage backends selectable via OKR_STORAGE_TYPE.
const (
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

// ServerConfig holds all configuration for the server binary.
type ServerConfig struct {
	HTTP            HTTPConfig
	Storage         StorageConfig
	Observability   ObservabilityConfig
	ShutdownTimeout time.Duration `env:"OKR_SHUTDOWN_TIMEOUT" default:"10s"`
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Host              string        `env:"OKR_HTTP_HOST"`
	Port              string        `env:"OKR_HTTP_PORT" default:"8080"`
	ReadTimeout       time.Duration `env:"OKR_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout      time.Duration `env:"OKR_HTTP_WRITE_TIMEOUT" default:"15s"`
	IdleTimeout       time.Duration `env:"OKR_HTTP_IDLE_TIMEOUT" default:"60s"`
	ReadHeaderTimeout time.Duration `env:"OKR_HTTP_READ_HEADER_TIMEOUT" default:"5s"`
}

// Addr returns the host:port listen address.
func (c HTTPConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// StorageConfig holds persistence configuration. Postgres is the
// production backend; sqlite serves local development and CI.
type StorageConfig struct {
	// Type selects the backend: "postgres" or "sqlite".
	Type string `env:"OKR_STORAGE_TYPE" default:"postgres"`

	// DSN is the PostgreSQL connection string, required for postgres.
	DSN string `env:"OKR_DB_DSN"`

	// Path is the sqlite database file, required for sqlite.
	Path string `env:"OKR_SQLITE_PATH" default:"./okrhub.db"`

	// Connection pool settings (zero = infrastructure defaults).
	MaxOpenConns    int           `env:"OKR_DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `env:"OKR_DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `env:"OKR_DB_CONN_MAX_LIFETIME"`
	ConnMaxIdleTime time.Duration `env:"OKR_DB_CONN_MAX_IDLE_TIME"`
}

// Validate checks the backend selection and its required settings.
func (c *StorageConfig) Validate() error {
	switch c.Type {
	case StoragePostgres:
		if c.DSN == "" {
			return fmt.Errorf("OKR_DB_DSN is required when OKR_STORAGE_TYPE is %q", StoragePostgres)
		}
	case StorageSQLite:
		if c.Path == "" {
			return fmt.Errorf("OKR_SQLITE_PATH is required when OKR_STORAGE_TYPE is %q", StorageSQLite)
		}
	default:
		return fmt.Errorf("unknown OKR_STORAGE_TYPE: %s", c.Type)
	}
	return nil
}

// ObservabilityConfig holds observability configuration. Exporter
// endpoints and resource attributes come from the standard OTEL_* env
// vars read by the SDK itself.
type ObservabilityConfig struct {
	OTelEnabled bool   `env:"OKR_OTEL_ENABLED"`
	ServiceName string `env:"OTEL_SERVICE_NAME" default:"okrhub"`
}

// LoadServerConfig loads and validates server configuration from the
// environment.
func LoadServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	return cfg, nil
}
