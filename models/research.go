package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Research status state machine: Pending -> Accepted | Rejected | Revision.
// Rejected and Revision permit resubmission, which creates a new document
// linked to the original through ParentID.
const (
	StatusPending  = "Pending"
	StatusAccepted = "Accepted"
	StatusRejected = "Rejected"
	StatusRevision = "Revision"
)

type Research struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	MongoID     primitive.ObjectID   `bson:"mongo_id" json:"mongo_id"` // owning student (team leader)
	TeamMembers []primitive.ObjectID `bson:"team_members" json:"team_members"`
	Adviser     *primitive.ObjectID  `bson:"adviser,omitempty" json:"adviser,omitempty"` // nil until a team request is approved
	Title       string               `bson:"title" json:"title"`
	Abstract    string               `bson:"abstract" json:"abstract"`
	Authors     string               `bson:"authors" json:"authors"`
	Keywords    []string             `bson:"keywords" json:"keywords"`
	DriveFileID string               `bson:"drive_file_id" json:"drive_file_id"`
	FileURL     string               `bson:"file_url" json:"file_url"`
	FileName    string               `bson:"file_name" json:"file_name"`
	Status      string               `bson:"status" json:"status"`
	Note        string               `bson:"note,omitempty" json:"note,omitempty"`
	Version     int                  `bson:"version" json:"version"`
	ParentID    *primitive.ObjectID  `bson:"parent_id,omitempty" json:"parent_id,omitempty"` // chain root; nil for originals
	Archived    bool                 `bson:"archived" json:"archived"`
	UploadDate  time.Time            `bson:"upload_date" json:"upload_date"`
	CreatedAt   time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at" json:"updated_at"`
}

// ChainRoot resolves the id every version of this research shares.
func (r *Research) ChainRoot() primitive.ObjectID {
	if r.ParentID != nil {
		return *r.ParentID
	}
	return r.ID
}

// Submitted reports whether the document carries an actual uploaded paper,
// as opposed to the bare team record created when a team request is approved.
func (r *Research) Submitted() bool {
	return r.DriveFileID != ""
}

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusAccepted, StatusRejected, StatusRevision:
		return true
	}
	return false
}

// CanResubmit reports whether the status permits a new version. Accepted is
// terminal and Pending is still awaiting review.
func CanResubmit(status string) bool {
	return status == StatusRejected || status == StatusRevision
}
