package auth

import (
	"errors"
	"testing"
	"time"
)

const testSecret = "test-signing-secret-not-for-production"

func TestTokenService_IssueVerify(t *testing.T) {
	ts := NewTokenService(testSecret, time.Hour)

	token, err := ts.Issue("user-42", RoleUser)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := ts.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.Subject != "user-42" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "user-42")
	}
	if claims.Role != RoleUser {
		t.Errorf("Role = %q, want %q", claims.Role, RoleUser)
	}
}

func TestTokenService_AdminRoleClaim(t *testing.T) {
	ts := NewTokenService(testSecret, time.Hour)

	token, err := ts.Issue("admin-1", RoleAdmin)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	claims, err := ts.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.Role != RoleAdmin {
		t.Errorf("Role = %q, want %q", claims.Role, RoleAdmin)
	}
}

func TestTokenService_Expiry(t *testing.T) {
	ts := NewTokenService(testSecret, time.Hour)

	issued := time.Now()
	token, err := ts.Issue("user-42", RoleUser)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// Just before expiry: valid
	ts.now = func() time.Time { return issued.Add(time.Hour - time.Minute) }
	if _, err := ts.Verify(token); err != nil {
		t.Errorf("Verify() just before expiry error = %v", err)
	}

	// At/after expiry: ErrTokenInvalid
	ts.now = func() time.Time { return issued.Add(time.Hour + time.Minute) }
	_, err = ts.Verify(token)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Verify() after expiry error = %v, want ErrTokenInvalid", err)
	}
}

func TestTokenService_Tampering(t *testing.T) {
	ts := NewTokenService(testSecret, time.Hour)

	token, err := ts.Issue("user-42", RoleUser)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// Flipping any byte of the token must fail verification
	for i := 0; i < len(token); i += 7 {
		mutated := []byte(token)
		if mutated[i] == 'A' {
			mutated[i] = 'B'
		} else {
			mutated[i] = 'A'
		}
		if _, err := ts.Verify(string(mutated)); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("Verify() of token mutated at byte %d error = %v, want ErrTokenInvalid", i, err)
		}
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", time.Hour)
	verifier := NewTokenService("secret-b", time.Hour)

	token, err := issuer.Issue("user-42", RoleUser)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, err := verifier.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Verify() with wrong secret error = %v, want ErrTokenInvalid", err)
	}
}

func TestTokenService_Malformed(t *testing.T) {
	ts := NewTokenService(testSecret, time.Hour)

	for _, tok := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		if _, err := ts.Verify(tok); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("Verify(%q) error = %v, want ErrTokenInvalid", tok, err)
		}
	}
}

func TestTokenService_DefaultTTL(t *testing.T) {
	ts := NewTokenService(testSecret, 0)
	if ts.TTL() != DefaultTokenTTL {
		t.Errorf("TTL() = %v, want %v", ts.TTL(), DefaultTokenTTL)
	}
}
