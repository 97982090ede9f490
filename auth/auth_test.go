// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("GenerateID() = %q is not a UUID: %v", id, err)
	}

	// Test randomness - two IDs should be different
	if GenerateID() == GenerateID() {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestPasswords(t *testing.T) {
	hash, err := HashPassword("FatChance!")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "FatChance!" {
		t.Error("HashPassword() returned the plaintext")
	}

	if err := CheckPassword(hash, "FatChance!"); err != nil {
		t.Errorf("CheckPassword() with correct password = %v", err)
	}
	if err := CheckPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("CheckPassword() with wrong password = %v, want ErrInvalidCredentials", err)
	}

	if _, err := HashPassword(""); err == nil {
		t.Error("HashPassword(\"\") should fail")
	}
}

func TestIssueAndParseToken(t *testing.T) {
	now := time.Now()
	token, expires, err := IssueToken("user-1", "testuser", true, "secret", now)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("IssueToken() returned empty token")
	}
	if got := expires.Sub(now); got != TokenTTL {
		t.Errorf("expiry = %v after issue, want %v", got, TokenTTL)
	}

	claims, err := ParseToken(token, "secret")
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.UserID() != "user-1" {
		t.Errorf("UserID() = %q, want user-1", claims.UserID())
	}
	if claims.Username != "testuser" || !claims.Staff {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestParseToken_Rejects(t *testing.T) {
	now := time.Now()
	valid, _, _ := IssueToken("user-1", "testuser", false, "secret", now)
	expired, _, _ := IssueToken("user-1", "testuser", false, "secret", now.Add(-2*TokenTTL))

	// Same claims, signed with "none"
	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer, Subject: "user-1"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong secret", valid, "other-secret"},
		{"expired", expired, "secret"},
		{"garbage", "not.a.token", "secret"},
		{"empty", "", "secret"},
		{"tampered", valid + "x", "secret"},
		{"alg none", unsigned, "secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseToken(tt.token, tt.secret); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("ParseToken() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestIssueToken_EmptySecret(t *testing.T) {
	_, _, err := IssueToken("user-1", "testuser", false, "", time.Now())
	if err == nil || !strings.Contains(err.Error(), "secret") {
		t.Errorf("expected secret error, got %v", err)
	}
}
