package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OTPCode is a one-time code keyed by email. Stored in its own collection so
// every server instance sees the same codes; expired rows are purged by the
// expiry cleaner job.
type OTPCode struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Code      string             `bson:"code" json:"-"`
	ExpiresAt time.Time          `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
