package users

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/gatehouse/gatehouse/pkg/auth"
)

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, includePassword bool) (*User, error) {
	var (
		u         User
		role      string
		lastLogin sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.IsActive, &u.CreatedAt, &lastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	u.Role = auth.Role(role)
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	if !includePassword {
		u.PasswordHash = ""
	}
	return &u, nil
}

func collectUsers(rows *sql.Rows) ([]*User, error) {
	list := []*User{}
	for rows.Next() {
		u, err := scanUser(rows, false)
		if err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}
	return list, nil
}

// sortColumn maps the API-level sort key to a whitelisted column name.
// ListOptions.Normalize has already rejected anything else.
func sortColumn(sortBy string) string {
	switch sortBy {
	case "name":
		return "name"
	case "email":
		return "email"
	case "role":
		return "role"
	case "lastLogin":
		return "last_login"
	default:
		return "created_at"
	}
}

func sortDirection(order SortOrder) string {
	if order == SortAsc {
		return "ASC"
	}
	return "DESC"
}
