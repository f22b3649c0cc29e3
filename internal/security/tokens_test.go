package security

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	testIssuer   = "expense-idp"
	testAudience = "expense-api"
)

func newTestKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return key
}

func signToken(t *testing.T, key *ecdsa.PrivateKey, claims IdentityClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func validClaims() IdentityClaims {
	now := time.Now().UTC()
	return IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    testIssuer,
			Audience:  jwt.ClaimStrings{testAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(15 * time.Minute)),
		},
		Email: "user@example.com",
		Name:  "User One",
	}
}

func TestVerify_Valid(t *testing.T) {
	key := newTestKey(t)
	v := NewTokenVerifier(&key.PublicKey, testIssuer, testAudience)

	userID, email, name, err := v.Verify(signToken(t, key, validClaims()))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("userID = %q, want %q", userID, "user-1")
	}
	if email != "user@example.com" {
		t.Errorf("email = %q, want %q", email, "user@example.com")
	}
	if name != "User One" {
		t.Errorf("name = %q, want %q", name, "User One")
	}
}

func TestVerify_WrongIssuer(t *testing.T) {
	key := newTestKey(t)
	v := NewTokenVerifier(&key.PublicKey, testIssuer, testAudience)

	claims := validClaims()
	claims.Issuer = "someone-else"
	if _, _, _, err := v.Verify(signToken(t, key, claims)); err == nil {
		t.Fatal("expected error for wrong issuer")
	}
}

func TestVerify_WrongAudience(t *testing.T) {
	key := newTestKey(t)
	v := NewTokenVerifier(&key.PublicKey, testIssuer, testAudience)

	claims := validClaims()
	claims.Audience = jwt.ClaimStrings{"other-api"}
	if _, _, _, err := v.Verify(signToken(t, key, claims)); err == nil {
		t.Fatal("expected error for wrong audience")
	}
}

func TestVerify_Expired(t *testing.T) {
	key := newTestKey(t)
	v := NewTokenVerifier(&key.PublicKey, testIssuer, testAudience)

	claims := validClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	if _, _, _, err := v.Verify(signToken(t, key, claims)); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestVerify_WrongKey(t *testing.T) {
	key := newTestKey(t)
	other := newTestKey(t)
	v := NewTokenVerifier(&other.PublicKey, testIssuer, testAudience)

	if _, _, _, err := v.Verify(signToken(t, key, validClaims())); err == nil {
		t.Fatal("expected error for wrong key")
	}
}

func TestVerify_MissingEmail(t *testing.T) {
	key := newTestKey(t)
	v := NewTokenVerifier(&key.PublicKey, testIssuer, testAudience)

	claims := validClaims()
	claims.Email = ""
	if _, _, _, err := v.Verify(signToken(t, key, claims)); err == nil {
		t.Fatal("expected error for missing email claim")
	}
}
