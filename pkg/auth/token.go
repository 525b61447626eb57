package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the session token lifetime when none is configured
const DefaultTokenTTL = 7 * 24 * time.Hour

// ErrTokenInvalid is returned for every verification failure: bad signature,
// malformed token, or expired token. The causes are intentionally collapsed
// so a caller (or an attacker reading responses) cannot tell which check
// failed. The underlying cause is wrapped for logging and tests.
var ErrTokenInvalid = errors.New("invalid token")

// Claims is the verified content of a session token
type Claims struct {
	jwt.RegisteredClaims
	Role Role `json:"role"`
}

// TokenService issues and verifies signed, time-bounded session tokens.
// The signing secret is loaded once at startup and never rotated during the
// process lifetime; losing or changing it invalidates all outstanding tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration

	// now is swappable in tests to exercise expiry boundaries
	now func() time.Time
}

// NewTokenService creates a token service with the given secret and TTL.
// A non-positive TTL falls back to DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the configured token lifetime
func (ts *TokenService) TTL() time.Duration {
	return ts.ttl
}

// Issue produces a signed token asserting "subjectID had role at issuance,
// valid until issuance+TTL". The role claim is embedded at issuance and is
// not re-read from the account store on verification; catching role or
// active-flag changes after issuance is the resolver's job.
func (ts *TokenService) Issue(subjectID string, role Role) (string, error) {
	now := ts.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
		},
		Role: role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ts.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of a token and returns its claims.
// All failure modes surface as ErrTokenInvalid.
func (ts *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return ts.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return ts.now() }),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Subject == "" || !ValidRole(claims.Role) {
		return nil, fmt.Errorf("%w: missing claims", ErrTokenInvalid)
	}
	return claims, nil
}
