package config

import (
	"os"
	"testing"
	"time"
)

// TestGetEnv tests the getEnv helper function
func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
	}{
		{
			name:         "returns env value when set",
			key:          "TEST_VAR",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
		},
		{
			name:         "returns default when env not set",
			key:          "TEST_VAR_NOT_SET",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestGetEnvBool tests the getEnvBool helper function
func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue bool
		envValue     string
		want         bool
	}{
		{
			name:         "returns true for 'true'",
			key:          "TEST_BOOL",
			defaultValue: false,
			envValue:     "true",
			want:         true,
		},
		{
			name:         "returns true for '1'",
			key:          "TEST_BOOL",
			defaultValue: false,
			envValue:     "1",
			want:         true,
		},
		{
			name:         "returns false for 'false'",
			key:          "TEST_BOOL",
			defaultValue: true,
			envValue:     "false",
			want:         false,
		},
		{
			name:         "returns default when not set",
			key:          "TEST_BOOL_NOT_SET",
			defaultValue: true,
			envValue:     "",
			want:         true,
		},
		{
			name:         "returns true for 'TRUE' (case insensitive)",
			key:          "TEST_BOOL",
			defaultValue: false,
			envValue:     "TRUE",
			want:         true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			} else {
				os.Unsetenv(tt.key)
			}

			got := getEnvBool(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestGetEnvInt tests the getEnvInt helper function
func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue int
		envValue     string
		want         int
	}{
		{
			name:         "returns parsed value when valid",
			key:          "TEST_INT",
			defaultValue: 5,
			envValue:     "42",
			want:         42,
		},
		{
			name:         "returns default when not set",
			key:          "TEST_INT_NOT_SET",
			defaultValue: 5,
			envValue:     "",
			want:         5,
		},
		{
			name:         "returns default when not a number",
			key:          "TEST_INT",
			defaultValue: 5,
			envValue:     "abc",
			want:         5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			got := getEnvInt(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvInt() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestGetEnvDuration tests the getEnvDuration helper function
func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue time.Duration
		envValue     string
		want         time.Duration
	}{
		{
			name:         "returns parsed duration when valid",
			key:          "TEST_DUR",
			defaultValue: time.Second,
			envValue:     "30s",
			want:         30 * time.Second,
		},
		{
			name:         "returns default when not set",
			key:          "TEST_DUR_NOT_SET",
			defaultValue: time.Second,
			envValue:     "",
			want:         time.Second,
		},
		{
			name:         "returns default when unparseable",
			key:          "TEST_DUR",
			defaultValue: time.Second,
			envValue:     "soon",
			want:         time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			got := getEnvDuration(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestLoadConfigDefaults tests loading with only the required secret set
func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GATEHOUSE_JWT_SECRET", "test-secret")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %v, want 8080", cfg.Server.Port)
	}
	if cfg.Server.HealthPort != "9090" {
		t.Errorf("Server.HealthPort = %v, want 9090", cfg.Server.HealthPort)
	}
	if cfg.Store.Type != "memory" {
		t.Errorf("Store.Type = %v, want memory", cfg.Store.Type)
	}
	if cfg.Auth.TokenTTL != 7*24*time.Hour {
		t.Errorf("Auth.TokenTTL = %v, want 168h", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.HashCost != 12 {
		t.Errorf("Auth.HashCost = %v, want 12", cfg.Auth.HashCost)
	}
	if cfg.Observability.LogLevel != "info" {
		t.Errorf("Observability.LogLevel = %v, want info", cfg.Observability.LogLevel)
	}
	if cfg.Seed.Enabled() {
		t.Error("Seed.Enabled() = true with no seed env set")
	}
}

// TestLoadConfigRequiresSecret tests that a missing secret fails fast
func TestLoadConfigRequiresSecret(t *testing.T) {
	os.Unsetenv("GATEHOUSE_JWT_SECRET")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("LoadConfig() succeeded without GATEHOUSE_JWT_SECRET")
	}
}

// TestLoadConfigOverrides tests environment overrides
func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("GATEHOUSE_JWT_SECRET", "test-secret")
	t.Setenv("GATEHOUSE_PORT", "3000")
	t.Setenv("GATEHOUSE_STORE_TYPE", "sqlite")
	t.Setenv("GATEHOUSE_SQLITE_PATH", "/tmp/test.db")
	t.Setenv("GATEHOUSE_TOKEN_TTL", "2h")
	t.Setenv("GATEHOUSE_SECURE_COOKIES", "true")
	t.Setenv("GATEHOUSE_SEED_ADMIN_EMAIL", "admin@example.com")
	t.Setenv("GATEHOUSE_SEED_ADMIN_PASSWORD", "admin123")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != "3000" {
		t.Errorf("Server.Port = %v, want 3000", cfg.Server.Port)
	}
	if cfg.Store.Type != "sqlite" {
		t.Errorf("Store.Type = %v, want sqlite", cfg.Store.Type)
	}
	if cfg.Store.SQLitePath != "/tmp/test.db" {
		t.Errorf("Store.SQLitePath = %v, want /tmp/test.db", cfg.Store.SQLitePath)
	}
	if cfg.Auth.TokenTTL != 2*time.Hour {
		t.Errorf("Auth.TokenTTL = %v, want 2h", cfg.Auth.TokenTTL)
	}
	if !cfg.Auth.SecureCookies {
		t.Error("Auth.SecureCookies = false, want true")
	}
	if !cfg.Seed.Enabled() {
		t.Error("Seed.Enabled() = false, want true")
	}
}

// TestValidate tests configuration validation rules
func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: "8080", HealthPort: "9090"},
			Auth:   AuthConfig{JWTSecret: "s", TokenTTL: time.Hour},
			Store:  StoreConfig{Type: "memory"},
			Observability: ObservabilityConfig{
				LogLevel: "info",
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing port",
			mutate:  func(c *Config) { c.Server.Port = "" },
			wantErr: true,
		},
		{
			name:    "port collision",
			mutate:  func(c *Config) { c.Server.HealthPort = "8080" },
			wantErr: true,
		},
		{
			name:    "missing secret",
			mutate:  func(c *Config) { c.Auth.JWTSecret = "" },
			wantErr: true,
		},
		{
			name:    "zero TTL",
			mutate:  func(c *Config) { c.Auth.TokenTTL = 0 },
			wantErr: true,
		},
		{
			name:    "unknown store type",
			mutate:  func(c *Config) { c.Store.Type = "mongodb" },
			wantErr: true,
		},
		{
			name:    "sqlite without path",
			mutate:  func(c *Config) { c.Store.Type = "sqlite"; c.Store.SQLitePath = "" },
			wantErr: true,
		},
		{
			name:    "postgres without URL",
			mutate:  func(c *Config) { c.Store.Type = "postgres" },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Observability.LogLevel = "loud" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
