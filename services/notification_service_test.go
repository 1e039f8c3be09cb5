package services

import (
	"researchhub/models"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildFanOutOnePerRecipient(t *testing.T) {
	leader := primitive.NewObjectID()
	memberA := primitive.NewObjectID()
	memberB := primitive.NewObjectID()

	recipients := []Recipient{
		{ID: leader, Model: models.RecipientStudent},
		{ID: memberA, Model: models.RecipientStudent},
		{ID: memberB, Model: models.RecipientStudent},
	}

	notifications := BuildFanOut(recipients, models.NotifTeamRequestResponse, "approved", models.NotificationData{})

	if len(notifications) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(notifications))
	}
	for _, n := range notifications {
		if n.Status != models.NotifUnread {
			t.Errorf("expected UNREAD status, got %q", n.Status)
		}
		if n.Type != models.NotifTeamRequestResponse {
			t.Errorf("expected type %q, got %q", models.NotifTeamRequestResponse, n.Type)
		}
		if n.ID.IsZero() {
			t.Error("expected assigned notification id")
		}
	}
}

func TestBuildFanOutCollapsesDuplicates(t *testing.T) {
	submitter := primitive.NewObjectID()
	adviser := primitive.NewObjectID()

	// The submitter appears twice: once as team member, once explicitly.
	recipients := []Recipient{
		{ID: submitter, Model: models.RecipientStudent},
		{ID: submitter, Model: models.RecipientStudent},
		{ID: adviser, Model: models.RecipientInstructor},
	}

	notifications := BuildFanOut(recipients, models.NotifResearchSubmission, "submitted", models.NotificationData{})

	if len(notifications) != 2 {
		t.Fatalf("expected duplicates collapsed to 2 notifications, got %d", len(notifications))
	}
}

func TestBuildFanOutEmpty(t *testing.T) {
	if got := BuildFanOut(nil, models.NotifGeneral, "", models.NotificationData{}); len(got) != 0 {
		t.Errorf("expected no notifications, got %d", len(got))
	}
}

func TestBuildFanOutCarriesPayload(t *testing.T) {
	instructorID := primitive.NewObjectID()
	recipient := Recipient{ID: primitive.NewObjectID(), Model: models.RecipientStudent}

	notifications := BuildFanOut([]Recipient{recipient}, models.NotifTeamRequestResponse, "approved", models.NotificationData{
		InstructorID: &instructorID,
		Decision:     "APPROVED",
	})

	if len(notifications) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifications))
	}
	n := notifications[0]
	if n.Data.InstructorID == nil || *n.Data.InstructorID != instructorID {
		t.Error("expected payload to carry the instructor id")
	}
	if n.Data.Decision != "APPROVED" {
		t.Errorf("expected decision APPROVED, got %q", n.Data.Decision)
	}
}
