package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultHashCost is the bcrypt work factor used in production.
// MinPasswordLength and MaxPasswordLength are enforced by the validation
// layer before hashing, not by the hasher itself. The maximum is bcrypt's
// 72-byte input limit; anything longer makes GenerateFromPassword error.
const (
	DefaultHashCost   = 12
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

// PasswordHasher provides one-way password hashing and constant-time
// verification. The cost is injectable so tests can use bcrypt.MinCost.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a hasher with the default cost
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: DefaultHashCost}
}

// NewPasswordHasherWithCost creates a hasher with an explicit cost.
// Intended for tests; bcrypt.MinCost keeps test runs fast.
func NewPasswordHasherWithCost(cost int) *PasswordHasher {
	return &PasswordHasher{cost: cost}
}

// Hash produces a salted, irreversible digest of the plaintext.
// The salt and cost are embedded in the output, so the hash is
// self-contained and safe to store as-is.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// Verify compares a plaintext candidate against a stored hash in constant
// time. A mismatched or malformed hash returns false, never an error.
func (h *PasswordHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
