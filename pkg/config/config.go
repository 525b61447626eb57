package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gatehouse/gatehouse/pkg/auth"
	"github.com/gatehouse/gatehouse/pkg/users"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Auth configuration
	Auth AuthConfig

	// Store configuration
	Store StoreConfig

	// Observability configuration
	Observability ObservabilityConfig

	// Seed configuration
	Seed SeedConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for k8s probes)
	HealthPort string

	// CORS origin allowed to send credentialed requests
	CORSOrigin string
}

// AuthConfig holds credential and session settings
type AuthConfig struct {
	// JWTSecret signs session tokens. Required; there is no default.
	JWTSecret string

	// TokenTTL bounds session lifetime
	TokenTTL time.Duration

	// HashCost is the bcrypt work factor
	HashCost int

	// SecureCookies marks the session cookie Secure (HTTPS only)
	SecureCookies bool
}

// StoreConfig holds account store settings
type StoreConfig struct {
	// Type selects the backend: memory, sqlite, or postgres
	Type string

	// SQLitePath is the database file for the sqlite backend
	SQLitePath string

	// Postgres settings for the postgres backend
	Postgres users.PostgresConfig
}

// ObservabilityConfig holds logging and metrics settings
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string

	MetricsEnabled bool

	// GaugeRefreshSchedule is a cron expression for the account gauge
	GaugeRefreshSchedule string
}

// SeedConfig optionally bootstraps an admin account at startup
type SeedConfig struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// Enabled reports whether a seed admin is configured
func (s SeedConfig) Enabled() bool {
	return s.AdminEmail != "" && s.AdminPassword != ""
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Auth:          loadAuthConfig(),
		Store:         loadStoreConfig(),
		Observability: loadObservabilityConfig(),
		Seed:          loadSeedConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadServerConfig loads server configuration from environment
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("GATEHOUSE_HOST", "0.0.0.0"),
		Port:            getEnv("GATEHOUSE_PORT", "8080"),
		ReadTimeout:     getEnvDuration("GATEHOUSE_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("GATEHOUSE_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("GATEHOUSE_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("GATEHOUSE_SHUTDOWN_TIMEOUT", 30*time.Second),
		HealthPort:      getEnv("GATEHOUSE_HEALTH_PORT", "9090"),
		CORSOrigin:      getEnv("GATEHOUSE_CORS_ORIGIN", "*"),
	}
}

// loadAuthConfig loads credential settings from environment
func loadAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecret:     getEnv("GATEHOUSE_JWT_SECRET", ""),
		TokenTTL:      getEnvDuration("GATEHOUSE_TOKEN_TTL", auth.DefaultTokenTTL),
		HashCost:      getEnvInt("GATEHOUSE_HASH_COST", auth.DefaultHashCost),
		SecureCookies: getEnvBool("GATEHOUSE_SECURE_COOKIES", false),
	}
}

// loadStoreConfig loads account store configuration from environment
func loadStoreConfig() StoreConfig {
	cfg := StoreConfig{
		Type:       getEnv("GATEHOUSE_STORE_TYPE", "memory"),
		SQLitePath: getEnv("GATEHOUSE_SQLITE_PATH", "gatehouse.db"),
		Postgres: users.PostgresConfig{
			URL:      getEnv("GATEHOUSE_POSTGRES_URL", ""),
			MaxConns: getEnvInt("GATEHOUSE_POSTGRES_MAX_CONNS", 10),
			MinConns: getEnvInt("GATEHOUSE_POSTGRES_MIN_CONNS", 2),
			Timeout:  getEnvDuration("GATEHOUSE_POSTGRES_TIMEOUT", 5*time.Second),
		},
	}
	return cfg
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:             getEnv("GATEHOUSE_LOG_LEVEL", "info"),
		LogFormat:            getEnv("GATEHOUSE_LOG_FORMAT", "json"),
		MetricsEnabled:       getEnvBool("GATEHOUSE_METRICS_ENABLED", true),
		GaugeRefreshSchedule: getEnv("GATEHOUSE_GAUGE_REFRESH_SCHEDULE", "@every 1m"),
	}
}

// loadSeedConfig loads the optional seed admin from environment
func loadSeedConfig() SeedConfig {
	return SeedConfig{
		AdminName:     getEnv("GATEHOUSE_SEED_ADMIN_NAME", "Admin"),
		AdminEmail:    getEnv("GATEHOUSE_SEED_ADMIN_EMAIL", ""),
		AdminPassword: getEnv("GATEHOUSE_SEED_ADMIN_PASSWORD", ""),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate server config
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	// The signing secret has no default. Refusing to start beats issuing
	// tokens signed with a guessable value.
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required (set GATEHOUSE_JWT_SECRET)")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive")
	}

	// Validate store config based on type
	switch c.Store.Type {
	case "memory":
	case "sqlite":
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required for sqlite store")
		}
	case "postgres":
		if c.Store.Postgres.URL == "" {
			return fmt.Errorf("postgres URL is required for postgres store")
		}
	default:
		return fmt.Errorf("invalid store type: %s (must be memory, sqlite, or postgres)", c.Store.Type)
	}

	switch strings.ToLower(c.Observability.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Observability.LogLevel)
	}

	return nil
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
