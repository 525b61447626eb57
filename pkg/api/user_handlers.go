package api

import (
	"errors"
	"net/http"

	"github.com/gatehouse/gatehouse/pkg/auth"
	"github.com/gatehouse/gatehouse/pkg/contextkeys"
	"github.com/gatehouse/gatehouse/pkg/httputil"
	"github.com/gatehouse/gatehouse/pkg/users"
)

// listUsers handles GET /api/users
func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	opts := users.ListOptions{
		Page:      httputil.QueryInt(r, "page", 0),
		Limit:     httputil.QueryInt(r, "limit", 0),
		Search:    httputil.QueryString(r, "search", ""),
		SortBy:    httputil.QueryString(r, "sortBy", ""),
		SortOrder: users.SortOrder(httputil.QueryString(r, "sortOrder", "")),
	}
	opts.Normalize()

	list, total, err := s.store.List(r.Context(), opts)
	if err != nil {
		s.logger.WithError(err).Error("user listing failed")
		httputil.WriteInternalError(w)
		return
	}

	profiles := make([]users.Profile, 0, len(list))
	for _, u := range list {
		profiles = append(profiles, u.Profile())
	}
	totalPages := (total + opts.Limit - 1) / opts.Limit
	httputil.WriteSuccess(w, "", listUsersResponse{
		Users: profiles,
		Pagination: pagination{
			CurrentPage: opts.Page,
			TotalPages:  totalPages,
			TotalUsers:  total,
			HasNextPage: opts.Page < totalPages,
			HasPrevPage: opts.Page > 1,
		},
	})
}

// createUser handles POST /api/users. Same validation as signup but no
// session is issued: the admin creating the account is not the account.
func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		httputil.WriteValidationErrors(w, errs)
		return
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.WithError(err).Error("password hashing failed")
		httputil.WriteInternalError(w)
		return
	}

	user := &users.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.store.Create(r.Context(), user); err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			httputil.WriteBadRequest(w, "User with this email already exists")
			return
		}
		s.logger.WithError(err).Error("user creation failed")
		httputil.WriteInternalError(w)
		return
	}

	httputil.WriteCreated(w, "User created successfully", profileResponse{User: user.Profile()})
}

// getUser handles GET /api/users/{id}. Any authenticated caller may
// fetch their own record; other records require the admin role. The
// lookup runs first, so an unknown id is a 404 for every caller.
func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id := httputil.PathVar(r, "id")
	principal := contextkeys.GetPrincipal(r.Context())

	user, err := s.store.FindByID(r.Context(), id, false)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		s.logger.WithError(err).Error("user lookup failed")
		httputil.WriteInternalError(w)
		return
	}

	if principal.ID != id && !principal.IsAdmin() {
		httputil.WriteForbidden(w, "Access denied. You can only access your own resources.")
		return
	}
	httputil.WriteSuccess(w, "", profileResponse{User: user.Profile()})
}

// updateUser handles PUT /api/users/{id}. The ownership gate has already
// admitted the caller; non-admins may still only change their own name
// and email, so role and isActive are stripped from their requests.
func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id := httputil.PathVar(r, "id")
	principal := contextkeys.GetPrincipal(r.Context())

	var req updateUserRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !principal.IsAdmin() {
		req.Role = nil
		req.IsActive = nil
	}
	if errs := req.validate(); len(errs) > 0 {
		httputil.WriteValidationErrors(w, errs)
		return
	}

	user, err := s.store.FindByID(r.Context(), id, false)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		s.logger.WithError(err).Error("user lookup failed")
		httputil.WriteInternalError(w)
		return
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.store.Save(r.Context(), user); err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			httputil.WriteBadRequest(w, "Email already exists")
			return
		}
		s.logger.WithError(err).Error("user update failed")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteSuccess(w, "User updated successfully", profileResponse{User: user.Profile()})
}

// deleteUser handles DELETE /api/users/{id}
func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id := httputil.PathVar(r, "id")
	principal := contextkeys.GetPrincipal(r.Context())

	if principal.ID == id {
		httputil.WriteBadRequest(w, "You cannot delete your own account")
		return
	}

	if err := s.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		s.logger.WithError(err).Error("user deletion failed")
		httputil.WriteInternalError(w)
		return
	}

	s.logger.WithField("user_id", id).Info("user deleted")
	httputil.WriteSuccess(w, "User deleted successfully", nil)
}

// updateProfile handles PUT /api/users/profile. Self-service name and
// email change for the authenticated account.
func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	principal := contextkeys.GetPrincipal(r.Context())

	var req updateProfileRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		httputil.WriteValidationErrors(w, errs)
		return
	}

	user, err := s.store.FindByID(r.Context(), principal.ID, false)
	if err != nil {
		httputil.WriteNotFound(w, "User not found")
		return
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}

	if err := s.store.Save(r.Context(), user); err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			httputil.WriteBadRequest(w, "Email already exists")
			return
		}
		s.logger.WithError(err).Error("profile update failed")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteSuccess(w, "Profile updated successfully", profileResponse{User: user.Profile()})
}

// changePassword handles PUT /api/users/change-password. Requires
// re-proving the current password before accepting the new one.
func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	principal := contextkeys.GetPrincipal(r.Context())

	var req changePasswordRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		httputil.WriteBadRequest(w, "Current password and new password are required")
		return
	}
	if len(req.NewPassword) < auth.MinPasswordLength {
		httputil.WriteBadRequest(w, "New password must be at least 6 characters long")
		return
	}
	if len(req.NewPassword) > auth.MaxPasswordLength {
		httputil.WriteBadRequest(w, "New password must be at most 72 characters long")
		return
	}

	user, err := s.store.FindByID(r.Context(), principal.ID, true)
	if err != nil {
		httputil.WriteNotFound(w, "User not found")
		return
	}
	if !s.hasher.Verify(req.CurrentPassword, user.PasswordHash) {
		httputil.WriteBadRequest(w, "Current password is incorrect")
		return
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		s.logger.WithError(err).Error("password hashing failed")
		httputil.WriteInternalError(w)
		return
	}
	user.PasswordHash = hash

	if err := s.store.Save(r.Context(), user); err != nil {
		s.logger.WithError(err).Error("password change failed")
		httputil.WriteInternalError(w)
		return
	}

	s.logger.WithField("user_id", user.ID).Info("password changed")
	httputil.WriteSuccess(w, "Password changed successfully", nil)
}
