package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/you/passwordless/domain"
)

func TestJWTService_IssueAndValidateRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "passwordless", 15*time.Minute, 168*time.Hour)

	token, err := svc.IssueAccessToken(42, "sess_42_1")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := svc.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user 42, got %d", claims.UserID)
	}
	if claims.SessionID != "sess_42_1" {
		t.Errorf("expected session carried in claims, got %q", claims.SessionID)
	}
	if claims.ExpiresAt <= claims.IssuedAt {
		t.Error("expected expiry after issuance")
	}
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", "passwordless", 15*time.Minute, 168*time.Hour)
	verifier := NewJWTService("secret-b", "passwordless", 15*time.Minute, 168*time.Hour)

	token, err := issuer.IssueAccessToken(42, "sess_42_1")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := verifier.ValidateAccessToken(token); !errors.Is(err, domain.ErrCredentialInvalid) {
		t.Fatalf("expected ErrCredentialInvalid, got %v", err)
	}
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret", "passwordless", -time.Minute, -time.Minute)

	token, err := svc.IssueAccessToken(42, "sess_42_1")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	_, err = svc.ValidateAccessToken(token)
	if err == nil {
		t.Fatal("expected expired token rejected")
	}
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	svc := NewJWTService("test-secret", "passwordless", 15*time.Minute, 168*time.Hour)

	if _, err := svc.ValidateRefreshToken("not.a.jwt"); !errors.Is(err, domain.ErrCredentialInvalid) {
		t.Fatalf("expected ErrCredentialInvalid, got %v", err)
	}
}
