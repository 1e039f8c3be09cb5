package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Student struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	GoogleID       string               `bson:"google_id" json:"google_id"`
	Email          string               `bson:"email" json:"email"`
	Name           string               `bson:"name" json:"name"`
	StudentID      string               `bson:"student_id" json:"student_id"` // university-issued number
	Course         string               `bson:"course" json:"course"`
	Section        string               `bson:"section" json:"section"`
	ManagedBy      *primitive.ObjectID  `bson:"managed_by,omitempty" json:"managed_by,omitempty"` // supervising instructor
	InstructorID   *primitive.ObjectID  `bson:"instructor_id,omitempty" json:"instructor_id,omitempty"`
	ProjectMembers []primitive.ObjectID `bson:"project_members" json:"project_members"`
	Bookmarks      []primitive.ObjectID `bson:"bookmarks" json:"bookmarks"`
	Archived       bool                 `bson:"archived" json:"archived"`
	CreatedAt      time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time            `bson:"updated_at" json:"updated_at"`
}

// HasTeam reports whether the student already belongs to a team,
// either as leader or as a member.
func (s *Student) HasTeam() bool {
	return s.ManagedBy != nil || len(s.ProjectMembers) > 0
}
