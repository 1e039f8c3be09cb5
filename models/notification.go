package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	NotifTeamRequest         = "TEAM_REQUEST"
	NotifTeamRequestResponse = "TEAM_REQUEST_RESPONSE"
	NotifResearchSubmission  = "RESEARCH_SUBMISSION"
	NotifAdviserRequest      = "ADVISER_REQUEST"
	NotifGeneral             = "GENERAL"
)

const (
	NotifUnread   = "UNREAD"
	NotifRead     = "READ"
	NotifApproved = "APPROVED"
	NotifRejected = "REJECTED"
)

const (
	RecipientStudent    = "Student"
	RecipientInstructor = "Instructor"
)

type Notification struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Recipient      primitive.ObjectID `bson:"recipient" json:"recipient"`
	RecipientModel string             `bson:"recipient_model" json:"recipient_model"` // "Student" or "Instructor"
	Type           string             `bson:"type" json:"type"`
	Status         string             `bson:"status" json:"status"`
	Message        string             `bson:"message" json:"message"`
	Data           NotificationData   `bson:"data" json:"data"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

// NotificationData is the per-event payload. Each event type sets only the
// fields it carries; omitempty keeps stored documents variant-shaped.
type NotificationData struct {
	StudentID    *primitive.ObjectID  `bson:"student_id,omitempty" json:"student_id,omitempty"`
	TeamMembers  []primitive.ObjectID `bson:"team_members,omitempty" json:"team_members,omitempty"`
	InstructorID *primitive.ObjectID  `bson:"instructor_id,omitempty" json:"instructor_id,omitempty"`
	ResearchID   *primitive.ObjectID  `bson:"research_id,omitempty" json:"research_id,omitempty"`
	RequestID    *primitive.ObjectID  `bson:"request_id,omitempty" json:"request_id,omitempty"`
	Decision     string               `bson:"decision,omitempty" json:"decision,omitempty"`
	RevisionNote string               `bson:"revision_note,omitempty" json:"revisionNote,omitempty"`
	Version      int                  `bson:"version,omitempty" json:"version,omitempty"`
}
