package auth

import (
	"net/http"
	"strings"
	"time"
)

// SessionCookieName is the cookie carrying the session token
const SessionCookieName = "token"

// SessionTransport binds a session token to a scoped HTTP-only cookie.
// A Bearer authorization header is accepted as a fallback for non-browser
// clients; the SameSite=Strict CSRF mitigation only covers the cookie path.
type SessionTransport struct {
	ttl    time.Duration
	secure bool // set Secure on cookies (production)
}

// NewSessionTransport creates a transport with the given cookie lifetime
func NewSessionTransport(ttl time.Duration, secure bool) *SessionTransport {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &SessionTransport{ttl: ttl, secure: secure}
}

// Attach sets the session cookie on the response
func (st *SessionTransport) Attach(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(st.ttl.Seconds()),
		HttpOnly: true,
		Secure:   st.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Detach overwrites the session cookie with an empty, already-expired value
// so the client discards it on receipt
func (st *SessionTransport) Detach(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   st.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Extract reads the session token from the request: cookie first, then a
// "Bearer <token>" authorization header. Returns false when neither is set.
func (st *SessionTransport) Extract(r *http.Request) (string, bool) {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value, true
	}

	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "" {
		return parts[1], true
	}
	return "", false
}
