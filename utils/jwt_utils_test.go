package utils

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret-key"

func TestJWTRoundTrip(t *testing.T) {
	userID := primitive.NewObjectID()

	token, err := GenerateJWTToken(userID, "ana@university.edu", "Ana Reyes", "student", nil, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWTToken: %v", err)
	}

	claims, err := VerifyJWTToken(token, testSecret)
	if err != nil {
		t.Fatalf("VerifyJWTToken: %v", err)
	}

	if claims.UserID != userID.Hex() {
		t.Errorf("expected user id %s, got %s", userID.Hex(), claims.UserID)
	}
	if claims.Email != "ana@university.edu" {
		t.Errorf("expected email ana@university.edu, got %s", claims.Email)
	}
	if claims.Role != "student" {
		t.Errorf("expected role student, got %s", claims.Role)
	}
}

func TestVerifyJWTTokenWrongSecret(t *testing.T) {
	token, err := GenerateJWTToken(primitive.NewObjectID(), "a@b.edu", "A", "student", nil, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWTToken: %v", err)
	}

	if _, err := VerifyJWTToken(token, "different-secret"); err == nil {
		t.Error("expected verification to fail with wrong secret")
	}
}

func TestVerifyJWTTokenExpired(t *testing.T) {
	token, err := GenerateJWTToken(primitive.NewObjectID(), "a@b.edu", "A", "student", nil, testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWTToken: %v", err)
	}

	if _, err := VerifyJWTToken(token, testSecret); err == nil {
		t.Error("expected verification to fail for expired token")
	}
}

func TestGetUserIDFromToken(t *testing.T) {
	userID := primitive.NewObjectID()
	token, err := GenerateJWTToken(userID, "a@b.edu", "A", "instructor", nil, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWTToken: %v", err)
	}

	got, err := GetUserIDFromToken(token, testSecret)
	if err != nil {
		t.Fatalf("GetUserIDFromToken: %v", err)
	}
	if got != userID {
		t.Errorf("expected %s, got %s", userID.Hex(), got.Hex())
	}
}

func TestClaimsHasPermission(t *testing.T) {
	admin := &Claims{Role: "admin", Permissions: []string{"manage_accounts"}}

	if !admin.HasPermission("manage_accounts") {
		t.Error("granted permission should pass")
	}
	if admin.HasPermission("manage_repository") {
		t.Error("missing permission should fail")
	}

	superadmin := &Claims{Role: "superadmin"}
	if !superadmin.HasPermission("manage_repository") {
		t.Error("superadmin should bypass the permission set")
	}

	student := &Claims{Role: "student"}
	if student.HasPermission("manage_accounts") {
		t.Error("student should hold no admin permissions")
	}
}
