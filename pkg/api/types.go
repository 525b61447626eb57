package api

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gatehouse/gatehouse/pkg/auth"
	"github.com/gatehouse/gatehouse/pkg/httputil"
	"github.com/gatehouse/gatehouse/pkg/users"
)

// emailPattern is a shape check, not RFC validation: something, an @,
// something, a dot, something
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	minNameLength = 2
	maxNameLength = 50
)

type signupRequest struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Role     auth.Role `json:"role,omitempty"`
}

func (r *signupRequest) validate() []httputil.FieldError {
	var errs []httputil.FieldError

	r.Name = strings.TrimSpace(r.Name)
	if n := utf8.RuneCountInString(r.Name); n < minNameLength || n > maxNameLength {
		errs = append(errs, httputil.FieldError{Field: "name", Message: "Name must be 2-50 characters"})
	}
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if !emailPattern.MatchString(r.Email) {
		errs = append(errs, httputil.FieldError{Field: "email", Message: "Please provide a valid email"})
	}
	// Length in bytes: the upper bound is bcrypt's input limit
	if len(r.Password) < auth.MinPasswordLength {
		errs = append(errs, httputil.FieldError{Field: "password", Message: "Password must be at least 6 characters"})
	} else if len(r.Password) > auth.MaxPasswordLength {
		errs = append(errs, httputil.FieldError{Field: "password", Message: "Password must be at most 72 characters"})
	}
	if r.Role == "" {
		r.Role = auth.RoleUser
	} else if !auth.ValidRole(r.Role) {
		errs = append(errs, httputil.FieldError{Field: "role", Message: "Invalid role"})
	}
	return errs
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *loginRequest) validate() []httputil.FieldError {
	var errs []httputil.FieldError

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if !emailPattern.MatchString(r.Email) {
		errs = append(errs, httputil.FieldError{Field: "email", Message: "Please provide a valid email"})
	}
	if r.Password == "" {
		errs = append(errs, httputil.FieldError{Field: "password", Message: "Password is required"})
	}
	return errs
}

// updateUserRequest carries a partial account update. Pointer fields
// distinguish "absent" from "set to zero value".
type updateUserRequest struct {
	Name     *string    `json:"name"`
	Email    *string    `json:"email"`
	Role     *auth.Role `json:"role"`
	IsActive *bool      `json:"isActive"`
}

func (r *updateUserRequest) validate() []httputil.FieldError {
	var errs []httputil.FieldError

	if r.Name != nil {
		*r.Name = strings.TrimSpace(*r.Name)
		if n := utf8.RuneCountInString(*r.Name); n < minNameLength || n > maxNameLength {
			errs = append(errs, httputil.FieldError{Field: "name", Message: "Name must be 2-50 characters"})
		}
	}
	if r.Email != nil {
		*r.Email = strings.ToLower(strings.TrimSpace(*r.Email))
		if !emailPattern.MatchString(*r.Email) {
			errs = append(errs, httputil.FieldError{Field: "email", Message: "Please provide a valid email"})
		}
	}
	if r.Role != nil && !auth.ValidRole(*r.Role) {
		errs = append(errs, httputil.FieldError{Field: "role", Message: "Invalid role"})
	}
	return errs
}

type updateProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func (r *updateProfileRequest) validate() []httputil.FieldError {
	var errs []httputil.FieldError

	if r.Name != nil {
		*r.Name = strings.TrimSpace(*r.Name)
		if n := utf8.RuneCountInString(*r.Name); n < minNameLength || n > maxNameLength {
			errs = append(errs, httputil.FieldError{Field: "name", Message: "Name must be 2-50 characters"})
		}
	}
	if r.Email != nil {
		*r.Email = strings.ToLower(strings.TrimSpace(*r.Email))
		if !emailPattern.MatchString(*r.Email) {
			errs = append(errs, httputil.FieldError{Field: "email", Message: "Please provide a valid email"})
		}
	}
	return errs
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// sessionResponse is the data payload of signup and login
type sessionResponse struct {
	User  users.Profile `json:"user"`
	Token string        `json:"token"`
}

// profileResponse wraps a single profile
type profileResponse struct {
	User users.Profile `json:"user"`
}

// pagination mirrors the listing metadata of the user index
type pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalUsers  int  `json:"totalUsers"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

type listUsersResponse struct {
	Users      []users.Profile `json:"users"`
	Pagination pagination      `json:"pagination"`
}
