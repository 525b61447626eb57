package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gatehouse/gatehouse/pkg/contextkeys"
	"github.com/gatehouse/gatehouse/pkg/httputil"
	"github.com/gatehouse/gatehouse/pkg/observability"
	"github.com/gatehouse/gatehouse/pkg/users"
)

// loginFailedMessage is shared by every login failure cause: unknown
// email, inactive account, and wrong password are indistinguishable to
// the caller, which prevents account enumeration.
const loginFailedMessage = "Invalid credentials"

// signup handles POST /api/auth/signup
func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
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

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		s.logger.WithError(err).Error("token issuance failed")
		httputil.WriteInternalError(w)
		return
	}
	s.transport.Attach(w, token)
	s.touchLastLogin(r, user)
	s.metrics.RecordSignup()

	s.logger.WithField("user_id", user.ID).Info("user registered")
	httputil.WriteCreated(w, "User created successfully", sessionResponse{
		User:  user.Profile(),
		Token: token,
	})
}

// login handles POST /api/auth/login
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		s.metrics.RecordLogin(observability.LoginOutcomeValidationFailed)
		httputil.WriteValidationErrors(w, errs)
		return
	}

	user, err := s.store.FindByEmail(r.Context(), req.Email)
	if err != nil || !user.IsActive {
		// Unknown email and inactive account fall through to the same
		// response as a bad password
		s.metrics.RecordLogin(observability.LoginOutcomeBadCredentials)
		httputil.WriteUnauthorized(w, loginFailedMessage)
		return
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		s.metrics.RecordLogin(observability.LoginOutcomeBadCredentials)
		httputil.WriteUnauthorized(w, loginFailedMessage)
		return
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		s.logger.WithError(err).Error("token issuance failed")
		httputil.WriteInternalError(w)
		return
	}
	s.transport.Attach(w, token)
	s.touchLastLogin(r, user)
	s.metrics.RecordLogin(observability.LoginOutcomeSuccess)

	s.logger.WithField("user_id", user.ID).Info("user logged in")
	httputil.WriteSuccess(w, "Login successful", sessionResponse{
		User:  user.Profile(),
		Token: token,
	})
}

// logout handles POST /api/auth/logout. Always succeeds: the session is
// client-side state, and there is no server-side token registry to clear.
func (s *Server) logout(w http.ResponseWriter, _ *http.Request) {
	s.transport.Detach(w)
	httputil.WriteSuccess(w, "Logout successful", nil)
}

// me handles GET /api/auth/me
func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	principal := contextkeys.GetPrincipal(r.Context())
	user, err := s.store.FindByID(r.Context(), principal.ID, false)
	if err != nil {
		httputil.WriteNotFound(w, "User not found")
		return
	}
	httputil.WriteSuccess(w, "", profileResponse{User: user.Profile()})
}

// touchLastLogin records the authentication timestamp. The session is
// already granted at this point: a persistence failure is logged and
// otherwise ignored.
func (s *Server) touchLastLogin(r *http.Request, user *users.User) {
	now := time.Now().UTC()
	user.LastLogin = &now
	if err := s.store.Save(r.Context(), user); err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("failed to update last login")
	}
}
