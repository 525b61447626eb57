// Package users provides the persisted account store for Gatehouse.
//
// # Overview
//
// The store holds credential records: identifier, name, email, password
// hash, role, and the active flag that gates authentication. Three
// implementations share the Store interface:
//
//   - NewMemoryStore: in-process map, used by tests and local development
//   - NewSQLiteStore: single-file SQLite database
//   - NewPostgresStore: PostgreSQL for production deployments
//
// # Usage
//
//	store, err := users.NewSQLiteStore("/var/lib/gatehouse/users.db")
//	user, err := store.FindByEmail(ctx, "alice@example.com")
//
// Reads exclude the password hash by default; FindByEmail and
// FindByID(..., true) include it for credential verification.
package users
