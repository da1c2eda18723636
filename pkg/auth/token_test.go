package auth

import (
	"testing"
	"time"

	"github.com/codewithtechdev/storefront-backend/pkg/config"
	"github.com/google/uuid"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "storefront-test",
		ExpirationMinutes: 60,
	}
}

func TestMintAndParseSessionToken(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	sessionID := uuid.New()

	token, err := MintSessionToken(cfg, time.Now(), sessionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := ParseSessionToken(cfg, token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.SessionID != sessionID {
		t.Fatalf("expected session %s, got %s", sessionID, claims.SessionID)
	}
}

func TestParseSessionTokenRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	token, err := MintSessionToken(cfg, time.Now(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := cfg
	bad.Secret = "other-secret"
	if _, err := ParseSessionToken(bad, token); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestParseSessionTokenRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	token, err := MintSessionToken(cfg, time.Now(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := cfg
	bad.Issuer = "someone-else"
	if _, err := ParseSessionToken(bad, token); err == nil {
		t.Fatal("expected error for wrong issuer")
	}
}

func TestParseSessionTokenRejectsExpired(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	token, err := MintSessionToken(cfg, time.Now().Add(-2*time.Hour), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := ParseSessionToken(cfg, token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestMintSessionTokenValidations(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	if _, err := MintSessionToken(cfg, time.Now(), uuid.Nil); err == nil {
		t.Fatal("expected error for nil session id")
	}

	cfg.Secret = ""
	if _, err := MintSessionToken(cfg, time.Now(), uuid.New()); err == nil {
		t.Fatal("expected error for blank secret")
	}
}
