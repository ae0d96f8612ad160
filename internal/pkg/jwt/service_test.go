package jwt

import (
	"errors"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func signToken(t *testing.T, secret string, sub string, exp time.Time) string {
	t.Helper()

	tok := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwtlib.NewNumericDate(exp),
		IssuedAt:  jwtlib.NewNumericDate(time.Now()),
	})
	signed, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}

func TestValidateToken_OK(t *testing.T) {
	svc := NewHMACService("test-secret")
	userID := uuid.New()

	claims, err := svc.ValidateToken(signToken(t, "test-secret", userID.String(), time.Now().Add(time.Hour)))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user id %s, got %s", userID, claims.UserID)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	svc := NewHMACService("test-secret")

	_, err := svc.ValidateToken(signToken(t, "test-secret", uuid.NewString(), time.Now().Add(-time.Hour)))
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc := NewHMACService("test-secret")

	_, err := svc.ValidateToken(signToken(t, "other-secret", uuid.NewString(), time.Now().Add(time.Hour)))
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestValidateToken_NonUUIDSubject(t *testing.T) {
	svc := NewHMACService("test-secret")

	_, err := svc.ValidateToken(signToken(t, "test-secret", "not-a-uuid", time.Now().Add(time.Hour)))
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
