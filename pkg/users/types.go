package users

import (
	"context"
	"errors"
	"time"

	"github.com/gatehouse/gatehouse/pkg/auth"
)

var (
	// ErrNotFound indicates no record matches the given identifier
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken indicates the email is already registered
	ErrEmailTaken = errors.New("email already registered")
)

// User is a persisted account record
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         auth.Role  `json:"role"`
	IsActive     bool       `json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
}

// Profile is the externally visible shape of a user record, with the
// password hash stripped
type Profile struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      auth.Role  `json:"role"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

// Profile returns the public view of the record
func (u *User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}

// Principal builds the per-request identity from the record
func (u *User) Principal() *auth.Principal {
	return &auth.Principal{
		ID:     u.ID,
		Role:   u.Role,
		Active: u.IsActive,
	}
}

// SortOrder direction for listings
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListOptions controls pagination, search, and ordering of List
type ListOptions struct {
	Page   int    // 1-based, defaults to 1
	Limit  int    // page size, defaults to 10
	Search string // case-insensitive substring match over name and email

	SortBy    string    // one of: name, email, role, createdAt, lastLogin
	SortOrder SortOrder // defaults to desc
}

// Normalize applies defaults and clamps out-of-range values
func (o *ListOptions) Normalize() {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit < 1 {
		o.Limit = 10
	}
	if o.Limit > 100 {
		o.Limit = 100
	}
	switch o.SortBy {
	case "name", "email", "role", "createdAt", "lastLogin":
	default:
		o.SortBy = "createdAt"
	}
	if o.SortOrder != SortAsc {
		o.SortOrder = SortDesc
	}
}

// Store is the persisted account store consumed by the auth pipeline and
// the user-management handlers
type Store interface {
	// Create inserts a new record; fails with ErrEmailTaken on duplicates
	Create(ctx context.Context, u *User) error

	// FindByEmail returns the record for an email, including the password
	// hash. Fails with ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByID returns the record for an id. The password hash is zeroed
	// unless includePassword is set. Fails with ErrNotFound.
	FindByID(ctx context.Context, id string, includePassword bool) (*User, error)

	// Save persists changes to an existing record; fails with ErrNotFound,
	// or ErrEmailTaken when the new email collides with another record
	Save(ctx context.Context, u *User) error

	// Delete removes a record by id; fails with ErrNotFound
	Delete(ctx context.Context, id string) error

	// List returns a page of records (password hashes zeroed) and the
	// total number of records matching the search
	List(ctx context.Context, opts ListOptions) ([]*User, int, error)

	// Count returns the total number of records
	Count(ctx context.Context) (int, error)

	// Ping reports whether the backing store is reachable
	Ping(ctx context.Context) error

	// Close releases store resources
	Close() error
}
