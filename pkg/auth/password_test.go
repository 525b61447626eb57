package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_RoundTrip(t *testing.T) {
	h := NewPasswordHasherWithCost(bcrypt.MinCost)

	passwords := []string{
		"secret",
		"admin123",
		"a much longer password with spaces",
		"üñïçødé-päss",
	}

	for _, pw := range passwords {
		hash, err := h.Hash(pw)
		if err != nil {
			t.Fatalf("Hash(%q) error = %v", pw, err)
		}
		if hash == pw {
			t.Errorf("hash must not equal plaintext")
		}
		if !h.Verify(pw, hash) {
			t.Errorf("Verify(%q) = false, want true", pw)
		}
	}
}

func TestPasswordHasher_WrongPassword(t *testing.T) {
	h := NewPasswordHasherWithCost(bcrypt.MinCost)

	hash, err := h.Hash("correct-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if h.Verify("wrong-password", hash) {
		t.Error("Verify with wrong password should return false")
	}
	if h.Verify("", hash) {
		t.Error("Verify with empty password should return false")
	}
}

func TestPasswordHasher_MalformedHash(t *testing.T) {
	h := NewPasswordHasherWithCost(bcrypt.MinCost)

	// A garbage hash must return false, never panic or error out
	if h.Verify("anything", "not-a-bcrypt-hash") {
		t.Error("Verify against malformed hash should return false")
	}
	if h.Verify("anything", "") {
		t.Error("Verify against empty hash should return false")
	}
}

func TestPasswordHasher_SaltedHashes(t *testing.T) {
	h := NewPasswordHasherWithCost(bcrypt.MinCost)

	// Same plaintext must produce distinct hashes (random salt)
	hash1, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	hash2, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash1 == hash2 {
		t.Error("two hashes of the same password should differ")
	}
	if !h.Verify("same-password", hash1) || !h.Verify("same-password", hash2) {
		t.Error("both salted hashes should verify")
	}
}

func TestPasswordHasher_TooLong(t *testing.T) {
	h := NewPasswordHasherWithCost(bcrypt.MinCost)

	// bcrypt rejects inputs over 72 bytes
	_, err := h.Hash(strings.Repeat("x", MaxPasswordLength+1))
	if err == nil {
		t.Error("expected error for over-length password")
	}
}
