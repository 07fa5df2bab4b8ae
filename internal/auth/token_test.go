package auth

import (
	"errors"
	"testing"
	"time"
)

func testInstitute() Institute {
	return Institute{
		InstituteID: "INST-01TEST",
		Name:        "Tech U",
		Email:       "a@b.com",
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Setenv("CERTCHAIN_AUTH_SECRET", "test-secret")
	ResetSecretForTests()

	token, err := GenerateToken(testInstitute(), time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ParseAndValidate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.InstituteID != "INST-01TEST" || claims.Email != "a@b.com" || claims.Name != "Tech U" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	t.Setenv("CERTCHAIN_AUTH_SECRET", "test-secret")
	ResetSecretForTests()

	token, err := GenerateToken(testInstitute(), time.Millisecond)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := ParseAndValidate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	t.Setenv("CERTCHAIN_AUTH_SECRET", "secret-one")
	ResetSecretForTests()
	token, err := GenerateToken(testInstitute(), time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	t.Setenv("CERTCHAIN_AUTH_SECRET", "secret-two")
	ResetSecretForTests()
	if _, err := ParseAndValidate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestGenerateTokenRequiresSecret(t *testing.T) {
	t.Setenv("CERTCHAIN_AUTH_SECRET", "")
	ResetSecretForTests()
	defer ResetSecretForTests()

	if _, err := GenerateToken(testInstitute(), time.Hour); err == nil {
		t.Fatal("expected error without configured secret")
	}
}
