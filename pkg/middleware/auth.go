package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/gatehouse/gatehouse/pkg/auth"
	"github.com/gatehouse/gatehouse/pkg/contextkeys"
	"github.com/gatehouse/gatehouse/pkg/httputil"
	"github.com/gatehouse/gatehouse/pkg/observability"
	"github.com/gatehouse/gatehouse/pkg/users"
)

// External failure messages. Intentionally generic: missing token, invalid
// signature, expired token, unknown account, and inactive account are not
// distinguishable from outside.
const (
	msgNoToken      = "Access denied. No token provided."
	msgInvalidToken = "Invalid token."
)

// Authenticator resolves principals from transported tokens and provides
// the authorization gates
type Authenticator struct {
	tokens    *auth.TokenService
	store     users.Store
	transport *auth.SessionTransport
	logger    *logrus.Logger
	metrics   *observability.Metrics
}

// NewAuthenticator creates the authorization pipeline entry points
func NewAuthenticator(tokens *auth.TokenService, store users.Store, transport *auth.SessionTransport, logger *logrus.Logger) *Authenticator {
	if logger == nil {
		logger = logrus.New()
	}
	return &Authenticator{
		tokens:    tokens,
		store:     store,
		transport: transport,
		logger:    logger,
	}
}

// WithMetrics enables verification outcome counters
func (a *Authenticator) WithMetrics(m *observability.Metrics) *Authenticator {
	a.metrics = m
	return a
}

// RequireAuthentication is the authentication gate. On success the
// resolved Principal is attached to the request context; on any failure
// the request is rejected with 401 before reaching the next handler.
//
// Resolution is read-only and performs exactly one store read per request.
func (a *Authenticator) RequireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := a.transport.Extract(r)
		if !ok {
			httputil.WriteUnauthorized(w, msgNoToken)
			return
		}

		claims, err := a.tokens.Verify(token)
		if err != nil {
			a.metrics.RecordTokenVerification(observability.TokenOutcomeInvalid)
			a.logger.WithError(err).Debug("token verification failed")
			httputil.WriteUnauthorized(w, msgInvalidToken)
			return
		}
		a.metrics.RecordTokenVerification(observability.TokenOutcomeValid)

		// Live re-check against the account store. The role claim in the
		// token is kept as issued; the active flag is what locks a
		// deactivated account out immediately.
		record, err := a.store.FindByID(r.Context(), claims.Subject, false)
		if err != nil || !record.IsActive {
			if err != nil && r.Context().Err() == nil {
				a.logger.WithError(err).Debug("principal lookup failed")
			}
			httputil.WriteUnauthorized(w, msgInvalidToken)
			return
		}

		principal := &auth.Principal{
			ID:     record.ID,
			Role:   claims.Role,
			Active: record.IsActive,
		}
		ctx := contextkeys.WithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole is the role gate: the request's principal must carry one of
// the permitted roles. Must run after RequireAuthentication.
func (a *Authenticator) RequireRole(roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := contextkeys.GetPrincipal(r.Context())
			if principal == nil {
				httputil.WriteUnauthorized(w, msgNoToken)
				return
			}

			for _, role := range roles {
				if principal.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			// Role names are not secret; naming the denied role is fine.
			httputil.WriteForbidden(w, fmt.Sprintf("Access denied. %s role is not authorized.", principal.Role))
		})
	}
}

// RequireOwnership is the ownership gate: the value of the named path
// variable (or body field, when the path has none) must equal the acting
// principal's identifier. Admins pass unconditionally. Must run after
// RequireAuthentication.
func (a *Authenticator) RequireOwnership(field string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := contextkeys.GetPrincipal(r.Context())
			if principal == nil {
				httputil.WriteUnauthorized(w, msgNoToken)
				return
			}

			if principal.IsAdmin() {
				next.ServeHTTP(w, r)
				return
			}

			ownerID := httputil.PathVar(r, field)
			if ownerID == "" {
				ownerID = bodyField(r, field)
			}

			if principal.ID != ownerID {
				httputil.WriteForbidden(w, "Access denied. You can only access your own resources.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bodyField peeks at a string field of a JSON request body, restoring the
// body so the downstream handler can decode it again
func bodyField(r *http.Request, field string) string {
	if r.Body == nil {
		return ""
	}
	raw, err := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return ""
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	val, _ := body[field].(string)
	return val
}
