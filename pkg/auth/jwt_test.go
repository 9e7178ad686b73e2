package auth

import (
	"testing"
)

const testSecret = "test-secret"

func TestTokenPairRoundTrip(t *testing.T) {
	access, refresh, err := GenerateTokenPair(42, "student", testSecret, 15, 7)
	if err != nil {
		t.Fatalf("GenerateTokenPair error: %v", err)
	}

	claims, err := ValidateAccessToken(access, testSecret)
	if err != nil {
		t.Fatalf("ValidateAccessToken error: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("access claims.UserID = %d, want 42", claims.UserID)
	}
	if claims.Role != "student" {
		t.Errorf("access claims.Role = %q, want student", claims.Role)
	}

	claims, err = ValidateRefreshToken(refresh, testSecret)
	if err != nil {
		t.Fatalf("ValidateRefreshToken error: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("refresh claims.UserID = %d, want 42", claims.UserID)
	}
}

func TestValidateRejectsWrongTokenType(t *testing.T) {
	access, refresh, err := GenerateTokenPair(7, "business", testSecret, 15, 7)
	if err != nil {
		t.Fatalf("GenerateTokenPair error: %v", err)
	}

	if _, err := ValidateAccessToken(refresh, testSecret); err == nil {
		t.Error("refresh token accepted as access token")
	}
	if _, err := ValidateRefreshToken(access, testSecret); err == nil {
		t.Error("access token accepted as refresh token")
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	access, _, err := GenerateTokenPair(7, "student", testSecret, 15, 7)
	if err != nil {
		t.Fatalf("GenerateTokenPair error: %v", err)
	}
	if _, err := ValidateAccessToken(access, "other-secret"); err == nil {
		t.Error("token signed with another secret was accepted")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash equals plaintext")
	}
	if !CheckPassword("hunter22", hash) {
		t.Error("CheckPassword rejected correct password")
	}
	if CheckPassword("hunter23", hash) {
		t.Error("CheckPassword accepted wrong password")
	}
}
