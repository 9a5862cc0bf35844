package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !VerifyPassword(hash, "s3cret") {
		t.Fatal("VerifyPassword rejected the right password")
	}
	if VerifyPassword(hash, "wrong") {
		t.Fatal("VerifyPassword accepted a wrong password")
	}
	if VerifyPassword("", "") {
		t.Fatal("empty hash must never match")
	}
}

func TestNewAccessToken(t *testing.T) {
	now := time.Now()
	tok, err := NewAccessToken("k", "desk-1", RoleOperator, 5, now)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if want := now.UTC().Add(5 * time.Minute).Unix(); tok.Exp.Unix() != want {
		t.Fatalf("Exp = %v, want unix %d", tok.Exp, want)
	}
	parsed, err := jwt.Parse(tok.Token, func(*jwt.Token) (any, error) { return []byte("k"), nil })
	if err != nil || !parsed.Valid {
		t.Fatalf("parse: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != "desk-1" || claims["role"] != RoleOperator {
		t.Fatalf("claims = %v", claims)
	}
}
