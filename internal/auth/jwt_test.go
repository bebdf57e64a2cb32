package auth

import (
	"testing"
	"time"

	"github.com/edupulse/school-service/internal/models"
)

func testClaims() SessionClaims {
	branch := uint(3)
	return SessionClaims{
		UserID:   42,
		Username: "jlee",
		Role:     models.RoleTeacher,
		BranchID: &branch,
		Name:     "Jordan Lee",
		UserType: models.UserTypeStaff,
	}
}

func TestSignAndVerify(t *testing.T) {
	manager := NewTokenManager("test-secret", "school-service", time.Hour)

	token, err := manager.Sign(7, testClaims())
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	claims, err := manager.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "jlee" {
		t.Errorf("Username = %q, want %q", claims.Username, "jlee")
	}
	if claims.Role != models.RoleTeacher {
		t.Errorf("Role = %v, want %v", claims.Role, models.RoleTeacher)
	}
	if claims.UserType != models.UserTypeStaff {
		t.Errorf("UserType = %v, want %v", claims.UserType, models.UserTypeStaff)
	}
	if claims.BranchID == nil || *claims.BranchID != 3 {
		t.Errorf("BranchID = %v, want 3", claims.BranchID)
	}

	credentialID, err := claims.CredentialID()
	if err != nil {
		t.Fatalf("CredentialID() error = %v", err)
	}
	if credentialID != 7 {
		t.Errorf("CredentialID() = %d, want 7", credentialID)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	manager := NewTokenManager("test-secret", "school-service", -time.Hour)

	token, err := manager.Sign(7, testClaims())
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	if _, err := manager.Verify(token); err != ErrInvalidToken {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	signer := NewTokenManager("secret-a", "school-service", time.Hour)
	verifier := NewTokenManager("secret-b", "school-service", time.Hour)

	token, err := signer.Sign(7, testClaims())
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	if _, err := verifier.Verify(token); err != ErrInvalidToken {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyGarbageToken(t *testing.T) {
	manager := NewTokenManager("test-secret", "school-service", time.Hour)
	if _, err := manager.Verify("not.a.token"); err != ErrInvalidToken {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}
