package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"researchhub/models"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OTPService is an ephemeral keyed store with expiry, backed by its own
// collection so every server instance sees the same codes. Delivery of the
// code (email) happens elsewhere; this service only issues and verifies.
type OTPService struct {
	otpCollection *mongo.Collection
	expiry        time.Duration
}

func NewOTPService(db *mongo.Database, expiry time.Duration) *OTPService {
	s := &OTPService{
		otpCollection: db.Collection("otps"),
		expiry:        expiry,
	}
	s.createIndexes()
	return s
}

func (s *OTPService) createIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "expires_at", Value: 1}}},
	}

	if _, err := s.otpCollection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("[OTPService] Failed to create indexes: %v", err)
	}
}

// Issue generates a fresh code for the email, replacing any outstanding one.
func (s *OTPService) Issue(ctx context.Context, email string) (models.OTPCode, error) {
	code, err := GenerateCode()
	if err != nil {
		return models.OTPCode{}, err
	}

	now := time.Now()
	otp := models.OTPCode{
		Email:     email,
		Code:      code,
		ExpiresAt: now.Add(s.expiry),
		CreatedAt: now,
	}

	opts := options.Update().SetUpsert(true)
	_, err = s.otpCollection.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{
			"$set": bson.M{
				"code":       otp.Code,
				"expires_at": otp.ExpiresAt,
				"created_at": otp.CreatedAt,
			},
			"$setOnInsert": bson.M{"_id": primitive.NewObjectID()},
		},
		opts,
	)
	if err != nil {
		return models.OTPCode{}, fmt.Errorf("failed to store OTP: %w", err)
	}

	return otp, nil
}

// Verify consumes a code: a matching, unexpired code is deleted on success
// so it can never be replayed.
func (s *OTPService) Verify(ctx context.Context, email, code string) error {
	var otp models.OTPCode
	err := s.otpCollection.FindOneAndDelete(ctx, bson.M{
		"email": email,
		"code":  code,
	}).Decode(&otp)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return fmt.Errorf("%w: invalid verification code", ErrPrecondition)
		}
		return fmt.Errorf("failed to verify OTP: %w", err)
	}

	if time.Now().After(otp.ExpiresAt) {
		return fmt.Errorf("%w: verification code expired", ErrPrecondition)
	}
	return nil
}

// PurgeExpired removes codes past their expiry. Called by the cleanup job.
func (s *OTPService) PurgeExpired(ctx context.Context) (int64, error) {
	result, err := s.otpCollection.DeleteMany(ctx, bson.M{
		"expires_at": bson.M{"$lte": time.Now()},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired OTPs: %w", err)
	}
	return result.DeletedCount, nil
}

// GenerateCode produces a 6-digit numeric code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
