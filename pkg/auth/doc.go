// Package auth provides credential verification and session token management
// for the Gatehouse service.
//
// # Overview
//
// This package implements the security-sensitive primitives of the system:
// bcrypt password hashing with constant-time verification, signed session
// tokens (JWT, HS256) carrying subject identity and role, and the HTTP
// cookie transport for those tokens.
//
// # Password Hashing
//
//	hasher := auth.NewPasswordHasher()
//	hash, err := hasher.Hash("s3cret-pass")
//	ok := hasher.Verify("s3cret-pass", hash) // true
//
// # Session Tokens
//
// Tokens are issued with an explicit secret and TTL injected at construction
// time. The secret is process-wide immutable state: changing it invalidates
// every outstanding token.
//
//	ts := auth.NewTokenService(secret, 7*24*time.Hour)
//	token, err := ts.Issue(userID, auth.RoleUser)
//	claims, err := ts.Verify(token)
//
// Verification failures (bad signature, malformed token, expired token) are
// deliberately not distinguished to callers: all of them surface as
// ErrTokenInvalid so that nothing about which check failed leaks outward.
//
// # Session Transport
//
// The session cookie is HTTP-only and SameSite=Strict. A Bearer header
// fallback exists for non-browser API clients; note that the CSRF posture
// assumed for the cookie path does not apply to the header path.
//
//	transport := auth.NewSessionTransport(ttl, secureCookies)
//	transport.Attach(w, token)
//	token, ok := transport.Extract(r)
//	transport.Detach(w) // logout
//
// # Known Limitations
//
// There is no server-side revocation: logout clears the client cookie only,
// and a stolen token remains verifiable until its natural expiry. Immediate
// lockout of a principal is achieved by the per-request active-flag re-check
// in the middleware layer, not by token state.
package auth
