package auth

// Role represents an account-level role
type Role string

const (
	RoleUser  Role = "user"  // Regular account, self-service access only
	RoleAdmin Role = "admin" // Full access to user administration
)

// ValidRole reports whether the given role is a known role
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// Principal is the authenticated identity attached to a request.
// It is constructed fresh per request from a verified token plus a live
// account lookup, and is never cached across requests.
type Principal struct {
	ID     string `json:"id"`
	Role   Role   `json:"role"`
	Active bool   `json:"active"`
}

// IsAdmin reports whether the principal carries the admin role
func (p *Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
