// Package config provides application configuration management from environment variables.
//
// # Overview
//
// This package loads and validates configuration from environment variables with
// sensible defaults for every setting except the token signing secret, which is
// required.
//
// # Configuration Structure
//
// Server settings:
//
//	GATEHOUSE_HOST="0.0.0.0"
//	GATEHOUSE_PORT="8080"
//	GATEHOUSE_HEALTH_PORT="9090"
//	GATEHOUSE_READ_TIMEOUT="15s"
//	GATEHOUSE_WRITE_TIMEOUT="15s"
//	GATEHOUSE_CORS_ORIGIN="https://app.example.com"
//
// Auth settings:
//
//	GATEHOUSE_JWT_SECRET="..."       # required, no default
//	GATEHOUSE_TOKEN_TTL="168h"
//	GATEHOUSE_HASH_COST="12"
//	GATEHOUSE_SECURE_COOKIES="true"
//
// Store settings:
//
//	GATEHOUSE_STORE_TYPE="sqlite"    # memory, sqlite, postgres
//	GATEHOUSE_SQLITE_PATH="gatehouse.db"
//	GATEHOUSE_POSTGRES_URL="postgres://localhost/gatehouse"
//	GATEHOUSE_POSTGRES_MAX_CONNS="10"
//
// Observability settings:
//
//	GATEHOUSE_LOG_LEVEL="info"       # debug, info, warn, error
//	GATEHOUSE_LOG_FORMAT="json"      # json, text
//	GATEHOUSE_METRICS_ENABLED="true"
//	GATEHOUSE_GAUGE_REFRESH_SCHEDULE="@every 1m"
//
// Seed settings (optional admin bootstrap):
//
//	GATEHOUSE_SEED_ADMIN_EMAIL="admin@example.com"
//	GATEHOUSE_SEED_ADMIN_PASSWORD="admin123"
//	GATEHOUSE_SEED_ADMIN_NAME="Admin"
//
// # Usage Example
//
// Load configuration:
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("Server: %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//	fmt.Printf("Store: %s\n", cfg.Store.Type)
//
// # Related Packages
//
//   - pkg/users: Uses store configuration
//   - pkg/auth: Uses auth configuration
package config
