package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxTeamSize bounds a team at one leader plus three additional members.
const MaxTeamSize = 4

func ValidateObjectID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid id: %s", id)
	}
	return objID, nil
}

func ValidateObjectIDs(ids []string) ([]primitive.ObjectID, error) {
	objIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objID, err := ValidateObjectID(id)
		if err != nil {
			return nil, err
		}
		objIDs = append(objIDs, objID)
	}
	return objIDs, nil
}

// Email validation
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}

	return nil
}

func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title cannot be empty")
	}

	if len(title) > 300 {
		return fmt.Errorf("title too long (max 300 characters)")
	}

	if !utf8.ValidString(title) {
		return fmt.Errorf("title contains invalid UTF-8 characters")
	}

	return nil
}

// ValidateTeamSize checks the bound on leader + members.
func ValidateTeamSize(memberCount int) error {
	if memberCount+1 > MaxTeamSize {
		return fmt.Errorf("team size exceeds maximum of %d (leader plus %d members)", MaxTeamSize, MaxTeamSize-1)
	}
	return nil
}

func ValidateDecision(decision string) error {
	if decision != "APPROVED" && decision != "REJECTED" {
		return fmt.Errorf("invalid decision: %s. Allowed: APPROVED, REJECTED", decision)
	}
	return nil
}

// ContainsObjectID reports whether ids contains target.
func ContainsObjectID(ids []primitive.ObjectID, target primitive.ObjectID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}

// RemoveObjectID returns ids with every occurrence of target removed.
func RemoveObjectID(ids []primitive.ObjectID, target primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
