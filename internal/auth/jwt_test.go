package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestJWTManager_GenerateAndValidate_Success(t *testing.T) {
	secret := "test-secret-at-least-32-chars-long-for-security"
	issuer := "victorylog-test"
	ttl := 15 * time.Minute

	manager := NewJWTManager(secret, issuer, ttl)
	userID := uuid.New()

	token, err := manager.GenerateAccessToken(userID)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	validatedID, err := manager.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}
	if validatedID != userID {
		t.Errorf("expected userID %s, got %s", userID, validatedID)
	}
}

func TestJWTManager_ValidateAccessToken_Expired(t *testing.T) {
	secret := "test-secret-at-least-32-chars-long-for-security"
	issuer := "victorylog-test"
	ttl := -1 * time.Hour // Already expired

	manager := NewJWTManager(secret, issuer, ttl)
	userID := uuid.New()

	token, err := manager.GenerateAccessToken(userID)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	_, err = manager.ValidateAccessToken(token)
	if err == nil {
		t.Fatal("expected error for expired token, got nil")
	}
	if !strings.Contains(err.Error(), "expired") && !strings.Contains(err.Error(), "parse token") {
		t.Errorf("expected expiry-related error, got: %v", err)
	}
}

func TestJWTManager_ValidateAccessToken_InvalidSignature(t *testing.T) {
	secret1 := "test-secret-at-least-32-chars-long-for-security"
	secret2 := "different-secret-32-chars-long-for-security!!"
	issuer := "victorylog-test"
	ttl := 15 * time.Minute

	manager1 := NewJWTManager(secret1, issuer, ttl)
	manager2 := NewJWTManager(secret2, issuer, ttl)
	userID := uuid.New()

	token, err := manager1.GenerateAccessToken(userID)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	_, err = manager2.ValidateAccessToken(token)
	if err == nil {
		t.Fatal("expected error for invalid signature, got nil")
	}
}

func TestJWTManager_ValidateAccessToken_Malformed(t *testing.T) {
	secret := "test-secret-at-least-32-chars-long-for-security"
	issuer := "victorylog-test"
	ttl := 15 * time.Minute

	manager := NewJWTManager(secret, issuer, ttl)

	malformedTokens := []string{
		"not.a.jwt",
		"invalid-token",
		"header.payload",
		"",
	}

	for _, token := range malformedTokens {
		_, err := manager.ValidateAccessToken(token)
		if err == nil {
			t.Errorf("expected error for malformed token %q, got nil", token)
		}
	}
}

func TestJWTManager_ValidateAccessToken_WrongIssuer(t *testing.T) {
	secret := "test-secret-at-least-32-chars-long-for-security"
	ttl := 15 * time.Minute

	issued := NewJWTManager(secret, "other-service", ttl)
	validator := NewJWTManager(secret, "victorylog-test", ttl)
	userID := uuid.New()

	token, err := issued.GenerateAccessToken(userID)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	_, err = validator.ValidateAccessToken(token)
	if err == nil {
		t.Fatal("expected error for wrong issuer, got nil")
	}
	if !strings.Contains(err.Error(), "issuer") {
		t.Errorf("expected issuer error, got: %v", err)
	}
}

func TestGenerateRefreshToken_RawAndHashDiffer(t *testing.T) {
	manager := NewJWTManager("test-secret-at-least-32-chars-long-for-security", "victorylog-test", time.Minute)

	raw, hash, err := manager.GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}
	if raw == "" || hash == "" {
		t.Fatal("expected non-empty raw token and hash")
	}
	if raw == hash {
		t.Error("raw token must not equal its hash")
	}
	if HashToken(raw) != hash {
		t.Error("hash must be the SHA-256 of the raw token")
	}
}

func TestGenerateRefreshToken_Unique(t *testing.T) {
	manager := NewJWTManager("test-secret-at-least-32-chars-long-for-security", "victorylog-test", time.Minute)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		raw, _, err := manager.GenerateRefreshToken()
		if err != nil {
			t.Fatalf("GenerateRefreshToken failed: %v", err)
		}
		if seen[raw] {
			t.Fatal("duplicate refresh token generated")
		}
		seen[raw] = true
	}
}
