package services

import (
	"context"
	"fmt"
	"log"
	"researchhub/models"
	"researchhub/utils"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AdviserService handles instructors volunteering to advise a research
// project. A request is terminal once the owning student decides it.
type AdviserService struct {
	requestCollection    *mongo.Collection
	researchCollection   *mongo.Collection
	instructorCollection *mongo.Collection
	studentCollection    *mongo.Collection
	notificationService  *NotificationService
}

func NewAdviserService(db *mongo.Database, notificationService *NotificationService) *AdviserService {
	return &AdviserService{
		requestCollection:    db.Collection("adviser_requests"),
		researchCollection:   db.Collection("research"),
		instructorCollection: db.Collection("instructors"),
		studentCollection:    db.Collection("students"),
		notificationService:  notificationService,
	}
}

// Create files a pending adviser request and notifies the research owner.
func (s *AdviserService) Create(ctx context.Context, instructorID, researchID primitive.ObjectID, message string) (models.AdviserRequest, error) {
	var instructor models.Instructor
	err := s.instructorCollection.FindOne(ctx, bson.M{"_id": instructorID, "archived": false}).Decode(&instructor)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.AdviserRequest{}, fmt.Errorf("%w: instructor %s", ErrNotFound, instructorID.Hex())
		}
		return models.AdviserRequest{}, fmt.Errorf("failed to fetch instructor: %w", err)
	}
	if !instructor.HasRole(models.InstructorRoleAdviser) {
		return models.AdviserRequest{}, fmt.Errorf("%w: only instructors with the adviser role may request to advise", ErrForbidden)
	}

	var research models.Research
	err = s.researchCollection.FindOne(ctx, bson.M{"_id": researchID, "archived": false}).Decode(&research)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.AdviserRequest{}, fmt.Errorf("%w: research %s", ErrNotFound, researchID.Hex())
		}
		return models.AdviserRequest{}, fmt.Errorf("failed to fetch research: %w", err)
	}
	if research.Adviser != nil {
		return models.AdviserRequest{}, fmt.Errorf("%w: research already has an adviser", ErrPrecondition)
	}

	count, err := s.requestCollection.CountDocuments(ctx, bson.M{
		"research_id":   researchID,
		"instructor_id": instructorID,
		"status":        models.AdviserRequestPending,
	})
	if err != nil {
		return models.AdviserRequest{}, fmt.Errorf("failed to check existing requests: %w", err)
	}
	if count > 0 {
		return models.AdviserRequest{}, fmt.Errorf("%w: you already have a pending request for this research", ErrPrecondition)
	}

	request := models.AdviserRequest{
		ID:           primitive.NewObjectID(),
		ResearchID:   researchID,
		InstructorID: instructorID,
		Status:       models.AdviserRequestPending,
		Message:      message,
		CreatedAt:    time.Now(),
	}
	if _, err := s.requestCollection.InsertOne(ctx, request); err != nil {
		return models.AdviserRequest{}, fmt.Errorf("failed to create adviser request: %w", err)
	}

	notification := BuildFanOut(
		[]Recipient{{ID: research.MongoID, Model: models.RecipientStudent}},
		models.NotifAdviserRequest,
		fmt.Sprintf("%s offered to advise %q", instructor.Name, research.Title),
		models.NotificationData{
			InstructorID: &instructorID,
			ResearchID:   &researchID,
			RequestID:    &request.ID,
		},
	)
	if err := s.notificationService.FanOut(ctx, notification); err != nil {
		log.Printf("[AdviserService] Failed to notify owner of request %s: %v", request.ID.Hex(), err)
	}

	return request, nil
}

// Handle decides a pending adviser request. Only the research owner may
// decide, and a decided request never changes again.
func (s *AdviserService) Handle(ctx context.Context, studentID, requestID primitive.ObjectID, decision string) (models.AdviserRequest, error) {
	if err := utils.ValidateDecision(decision); err != nil {
		return models.AdviserRequest{}, fmt.Errorf("%w: %v", ErrPrecondition, err)
	}

	var request models.AdviserRequest
	err := s.requestCollection.FindOne(ctx, bson.M{"_id": requestID}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.AdviserRequest{}, fmt.Errorf("%w: adviser request %s", ErrNotFound, requestID.Hex())
		}
		return models.AdviserRequest{}, fmt.Errorf("failed to fetch adviser request: %w", err)
	}
	if request.Status != models.AdviserRequestPending {
		return models.AdviserRequest{}, fmt.Errorf("%w: adviser request %s", ErrRequestAlreadyHandled, requestID.Hex())
	}

	var research models.Research
	err = s.researchCollection.FindOne(ctx, bson.M{"_id": request.ResearchID}).Decode(&research)
	if err != nil {
		return models.AdviserRequest{}, fmt.Errorf("failed to fetch research: %w", err)
	}
	if research.MongoID != studentID {
		return models.AdviserRequest{}, fmt.Errorf("%w: only the research owner may decide adviser requests", ErrForbidden)
	}

	now := time.Now()
	newStatus := models.AdviserRequestRejected
	notifMessage := fmt.Sprintf("Your offer to advise %q was declined", research.Title)

	if decision == "APPROVED" {
		if research.Adviser != nil {
			return models.AdviserRequest{}, fmt.Errorf("%w: research already has an adviser", ErrPrecondition)
		}
		newStatus = models.AdviserRequestApproved
		notifMessage = fmt.Sprintf("Your offer to advise %q was accepted", research.Title)

		_, err = s.researchCollection.UpdateOne(ctx,
			bson.M{"_id": research.ID},
			bson.M{"$set": bson.M{"adviser": request.InstructorID, "updated_at": now}},
		)
		if err != nil {
			return models.AdviserRequest{}, fmt.Errorf("failed to assign adviser: %w", err)
		}
	}

	_, err = s.requestCollection.UpdateOne(ctx,
		bson.M{"_id": requestID, "status": models.AdviserRequestPending},
		bson.M{"$set": bson.M{"status": newStatus, "handled_at": now}},
	)
	if err != nil {
		return models.AdviserRequest{}, fmt.Errorf("failed to update adviser request: %w", err)
	}
	request.Status = newStatus
	request.HandledAt = &now

	notification := BuildFanOut(
		[]Recipient{{ID: request.InstructorID, Model: models.RecipientInstructor}},
		models.NotifAdviserRequest,
		notifMessage,
		models.NotificationData{
			ResearchID: &request.ResearchID,
			RequestID:  &requestID,
			Decision:   decision,
		},
	)
	if err := s.notificationService.FanOut(ctx, notification); err != nil {
		log.Printf("[AdviserService] Failed to notify instructor on request %s: %v", requestID.Hex(), err)
	}

	return request, nil
}

// ListForResearch returns all requests ever filed for a research document.
func (s *AdviserService) ListForResearch(ctx context.Context, researchID primitive.ObjectID) ([]models.AdviserRequest, error) {
	cursor, err := s.requestCollection.Find(ctx, bson.M{"research_id": researchID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch adviser requests: %w", err)
	}
	defer cursor.Close(ctx)

	requests := []models.AdviserRequest{}
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode adviser requests: %w", err)
	}
	return requests, nil
}
