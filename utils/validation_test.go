package utils

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestValidateTeamSize(t *testing.T) {
	tests := []struct {
		memberCount int
		wantErr     bool
	}{
		{0, false},
		{1, false},
		{3, false}, // leader + 3 = max
		{4, true},  // leader + 4 exceeds the bound
		{10, true},
	}

	for _, tt := range tests {
		err := ValidateTeamSize(tt.memberCount)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateTeamSize(%d) error = %v, wantErr %v", tt.memberCount, err, tt.wantErr)
		}
	}
}

func TestValidateDecision(t *testing.T) {
	if err := ValidateDecision("APPROVED"); err != nil {
		t.Errorf("APPROVED should be valid: %v", err)
	}
	if err := ValidateDecision("REJECTED"); err != nil {
		t.Errorf("REJECTED should be valid: %v", err)
	}
	if err := ValidateDecision("MAYBE"); err == nil {
		t.Error("MAYBE should be rejected")
	}
	if err := ValidateDecision("approved"); err == nil {
		t.Error("lowercase decision should be rejected")
	}
}

func TestValidateObjectID(t *testing.T) {
	id := primitive.NewObjectID()

	got, err := ValidateObjectID(id.Hex())
	if err != nil {
		t.Fatalf("valid hex rejected: %v", err)
	}
	if got != id {
		t.Errorf("expected %s, got %s", id.Hex(), got.Hex())
	}

	if _, err := ValidateObjectID("not-a-hex-id"); err == nil {
		t.Error("malformed id should be rejected")
	}
	if _, err := ValidateObjectID(""); err == nil {
		t.Error("empty id should be rejected")
	}
}

func TestValidateObjectIDs(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	got, err := ValidateObjectIDs([]string{a.Hex(), b.Hex()})
	if err != nil {
		t.Fatalf("valid ids rejected: %v", err)
	}
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("expected [%s %s], got %v", a.Hex(), b.Hex(), got)
	}

	if _, err := ValidateObjectIDs([]string{a.Hex(), "bogus"}); err == nil {
		t.Error("list with malformed id should be rejected")
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"student@university.edu", "a.b+tag@dept.example.org"}
	for _, email := range valid {
		if err := ValidateEmail(email); err != nil {
			t.Errorf("ValidateEmail(%q) unexpected error: %v", email, err)
		}
	}

	invalid := []string{"", "no-at-sign", "user@", "@domain.com", "user@domain"}
	for _, email := range invalid {
		if err := ValidateEmail(email); err == nil {
			t.Errorf("ValidateEmail(%q) expected error", email)
		}
	}
}

func TestContainsObjectID(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	ids := []primitive.ObjectID{a, b}

	if !ContainsObjectID(ids, a) {
		t.Error("expected a to be found")
	}
	if ContainsObjectID(ids, primitive.NewObjectID()) {
		t.Error("unexpected match for foreign id")
	}
	if ContainsObjectID(nil, a) {
		t.Error("nil slice should contain nothing")
	}
}

func TestRemoveObjectID(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	got := RemoveObjectID([]primitive.ObjectID{a, b, a}, a)
	if len(got) != 1 || got[0] != b {
		t.Errorf("expected [%s], got %v", b.Hex(), got)
	}

	got = RemoveObjectID([]primitive.ObjectID{b}, a)
	if len(got) != 1 || got[0] != b {
		t.Errorf("removal of absent id should be a no-op, got %v", got)
	}
}
