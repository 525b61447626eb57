// Package middleware implements the request-authorization pipeline: an
// ordered chain of gates applied to each protected route.
//
// # Gates
//
// The pipeline is composed per route, always in this order:
//
//  1. Authentication gate (RequireAuthentication): extracts the session
//     token, verifies it, re-checks the account against the live store
//     (existence and active flag), and attaches the resulting Principal to
//     the request context. Every failure maps to 401 with a generic
//     message.
//  2. Role gate (RequireRole): set membership over the typed role enum;
//     failure maps to 403 naming the denied role (role names are not
//     secret, unlike token internals).
//  3. Ownership gate (RequireOwnership): compares the resource's declared
//     owner identifier against the acting principal. Admins pass
//     unconditionally.
//
// # Example
//
//	authn := middleware.NewAuthenticator(tokens, store, transport, logger)
//	r.Handle("/api/users", authn.RequireAuthentication(
//		authn.RequireRole(auth.RoleAdmin)(listHandler))).Methods("GET")
//
// The live store lookup on every request is what makes deactivating an
// account take effect immediately: a stale-but-signature-valid token from
// a deactivated account is rejected here every time, with no need for
// token revocation.
package middleware
