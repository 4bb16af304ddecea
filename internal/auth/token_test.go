package auth

import (
	"testing"

	"github.com/buildingops/maintenance-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)

	token, expiresAt, err := tm.GenerateToken("user-1", domain.RoleTechnician)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token == "" || expiresAt.IsZero() {
		t.Fatal("empty token or expiry")
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("uid = %s", claims.UserID)
	}
	if claims.Role != domain.RoleTechnician {
		t.Fatalf("role = %s", claims.Role)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", 30).GenerateToken("user-1", domain.RoleTenant)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := NewTokenManager("secret-b", 30).ParseToken(token); err == nil {
		t.Fatal("token signed with other secret accepted")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	if _, err := NewTokenManager("secret", 30).ParseToken("not-a-jwt"); err == nil {
		t.Fatal("garbage token accepted")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := ComparePassword(hash, "hunter2hunter2"); err != nil {
		t.Fatalf("ComparePassword: %v", err)
	}
	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Fatal("wrong password accepted")
	}
}
