package services

import (
	"context"
	"fmt"
	"log"
	"researchhub/models"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotificationService struct {
	notificationCollection *mongo.Collection
}

// Recipient pairs a document id with the collection it lives in, since a
// notification may address either a student or an instructor.
type Recipient struct {
	ID    primitive.ObjectID
	Model string // models.RecipientStudent or models.RecipientInstructor
}

func NewNotificationService(db *mongo.Database) *NotificationService {
	s := &NotificationService{
		notificationCollection: db.Collection("notifications"),
	}
	s.createIndexes()
	return s
}

func (s *NotificationService) createIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	inboxIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "recipient", Value: 1},
			{Key: "recipient_model", Value: 1},
			{Key: "created_at", Value: -1},
		},
	}

	if _, err := s.notificationCollection.Indexes().CreateOne(ctx, inboxIndex); err != nil {
		log.Printf("[NotificationService] Failed to create inbox index: %v", err)
	}
}

// BuildFanOut constructs one unread notification per recipient. Duplicate
// recipients are collapsed so no party is notified twice for one event.
func BuildFanOut(recipients []Recipient, notifType, message string, data models.NotificationData) []models.Notification {
	now := time.Now()
	seen := make(map[primitive.ObjectID]bool, len(recipients))

	notifications := make([]models.Notification, 0, len(recipients))
	for _, r := range recipients {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true

		notifications = append(notifications, models.Notification{
			ID:             primitive.NewObjectID(),
			Recipient:      r.ID,
			RecipientModel: r.Model,
			Type:           notifType,
			Status:         models.NotifUnread,
			Message:        message,
			Data:           data,
			CreatedAt:      now,
		})
	}
	return notifications
}

// FanOut persists the prepared notifications with one unordered bulk insert.
// Callers treat a failure here as log-and-continue: the primary state
// transition has already been committed and is not rolled back.
func (s *NotificationService) FanOut(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	docs := make([]interface{}, len(notifications))
	for i, n := range notifications {
		docs[i] = n
	}

	opts := options.InsertMany().SetOrdered(false)
	if _, err := s.notificationCollection.InsertMany(ctx, docs, opts); err != nil {
		return fmt.Errorf("failed to insert notifications: %w", err)
	}
	return nil
}

func (s *NotificationService) Create(ctx context.Context, notification models.Notification) (models.Notification, error) {
	if notification.ID.IsZero() {
		notification.ID = primitive.NewObjectID()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	if notification.Status == "" {
		notification.Status = models.NotifUnread
	}

	if _, err := s.notificationCollection.InsertOne(ctx, notification); err != nil {
		return models.Notification{}, fmt.Errorf("failed to create notification: %w", err)
	}
	return notification, nil
}

func (s *NotificationService) GetByID(ctx context.Context, id primitive.ObjectID) (models.Notification, error) {
	var notification models.Notification
	err := s.notificationCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&notification)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Notification{}, fmt.Errorf("%w: notification %s", ErrNotFound, id.Hex())
		}
		return models.Notification{}, fmt.Errorf("failed to fetch notification: %w", err)
	}
	return notification, nil
}

func (s *NotificationService) ListForRecipient(ctx context.Context, recipient primitive.ObjectID, recipientModel string, limit, offset int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := s.notificationCollection.Find(ctx, bson.M{
		"recipient":       recipient,
		"recipient_model": recipientModel,
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, recipient primitive.ObjectID, recipientModel string) (int64, error) {
	count, err := s.notificationCollection.CountDocuments(ctx, bson.M{
		"recipient":       recipient,
		"recipient_model": recipientModel,
		"status":          models.NotifUnread,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead flips a single notification from UNREAD to READ. Only the
// recipient may flip their own notifications; decided team requests
// (APPROVED/REJECTED) keep their decision status.
func (s *NotificationService) MarkRead(ctx context.Context, id, recipient primitive.ObjectID) (models.Notification, error) {
	var notification models.Notification
	err := s.notificationCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&notification)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Notification{}, fmt.Errorf("%w: notification %s", ErrNotFound, id.Hex())
		}
		return models.Notification{}, fmt.Errorf("failed to fetch notification: %w", err)
	}

	if notification.Recipient != recipient {
		return models.Notification{}, fmt.Errorf("%w: notification belongs to another user", ErrForbidden)
	}

	if notification.Status != models.NotifUnread {
		return notification, nil
	}

	_, err = s.notificationCollection.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.NotifUnread},
		bson.M{"$set": bson.M{"status": models.NotifRead}},
	)
	if err != nil {
		return models.Notification{}, fmt.Errorf("failed to mark notification read: %w", err)
	}

	notification.Status = models.NotifRead
	return notification, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, recipient primitive.ObjectID, recipientModel string) (int64, error) {
	result, err := s.notificationCollection.UpdateMany(ctx,
		bson.M{
			"recipient":       recipient,
			"recipient_model": recipientModel,
			"status":          models.NotifUnread,
		},
		bson.M{"$set": bson.M{"status": models.NotifRead}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return result.ModifiedCount, nil
}

// SetRequestStatus records the decision on an originating request
// notification (a TEAM_REQUEST flipping to APPROVED or REJECTED).
func (s *NotificationService) SetRequestStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	result, err := s.notificationCollection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: notification %s", ErrNotFound, id.Hex())
	}
	return nil
}
