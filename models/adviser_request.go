package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AdviserRequestPending  = "pending"
	AdviserRequestApproved = "approved"
	AdviserRequestRejected = "rejected"
)

// AdviserRequest links a Research to an Instructor asking to become its
// adviser. Terminal once approved or rejected.
type AdviserRequest struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ResearchID   primitive.ObjectID `bson:"research_id" json:"research_id"`
	InstructorID primitive.ObjectID `bson:"instructor_id" json:"instructor_id"`
	Status       string             `bson:"status" json:"status"`
	Message      string             `bson:"message,omitempty" json:"message,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	HandledAt    *time.Time         `bson:"handled_at,omitempty" json:"handled_at,omitempty"`
}
