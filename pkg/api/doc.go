// Package api exposes the HTTP operations of the Gatehouse service.
//
// # Routes
//
// Authentication (public except /me):
//
//	POST /api/auth/signup  - register, issue session token, set cookie
//	POST /api/auth/login   - verify credentials, issue token, set cookie
//	POST /api/auth/logout  - clear the session cookie
//	GET  /api/auth/me      - current principal's profile
//
// User management (all behind the authentication gate):
//
//	GET    /api/users                  - admin: list with pagination/search
//	POST   /api/users                  - admin: create an account
//	GET    /api/users/{id}             - self or admin
//	PUT    /api/users/{id}             - owner (admins may edit anyone)
//	DELETE /api/users/{id}             - admin, self-deletion rejected
//	PUT    /api/users/profile          - self-service name/email update
//	PUT    /api/users/change-password  - self-service credential change
//
// Every response uses the httputil.Envelope shape. Failure messages are
// deliberately generic at this boundary: which internal check failed never
// crosses it.
package api
