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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TeamService mediates the multi-party agreement that associates a set of
// students with one instructor as their adviser. A team request lives as a
// TEAM_REQUEST notification addressed to the instructor; approving it is what
// actually mutates the student documents and creates the team's research
// record.
type TeamService struct {
	studentCollection    *mongo.Collection
	instructorCollection *mongo.Collection
	researchCollection   *mongo.Collection
	notificationService  *NotificationService
}

func NewTeamService(db *mongo.Database, notificationService *NotificationService) *TeamService {
	return &TeamService{
		studentCollection:    db.Collection("students"),
		instructorCollection: db.Collection("instructors"),
		researchCollection:   db.Collection("research"),
		notificationService:  notificationService,
	}
}

// CreateTeamRequest validates that the leader and every candidate member are
// free agents and files a TEAM_REQUEST notification with the instructor.
// No student document is mutated until the instructor approves.
func (s *TeamService) CreateTeamRequest(ctx context.Context, leaderID primitive.ObjectID, memberIDs []primitive.ObjectID, instructorID primitive.ObjectID) (models.Notification, error) {
	memberIDs = dedupeMembers(leaderID, memberIDs)

	if err := utils.ValidateTeamSize(len(memberIDs)); err != nil {
		return models.Notification{}, fmt.Errorf("%w: %v", ErrPrecondition, err)
	}

	leader, err := s.getActiveStudent(ctx, leaderID)
	if err != nil {
		return models.Notification{}, err
	}
	if leader.HasTeam() {
		return models.Notification{}, fmt.Errorf("%w: you already belong to a team", ErrPrecondition)
	}

	pending, err := s.hasPendingRequest(ctx, leaderID)
	if err != nil {
		return models.Notification{}, err
	}
	if pending {
		return models.Notification{}, fmt.Errorf("%w: you already have a pending team request", ErrPrecondition)
	}

	for _, memberID := range memberIDs {
		member, err := s.getActiveStudent(ctx, memberID)
		if err != nil {
			return models.Notification{}, err
		}
		if member.HasTeam() {
			return models.Notification{}, fmt.Errorf("%w: %s already belongs to a team", ErrPrecondition, member.Name)
		}
	}

	var instructor models.Instructor
	err = s.instructorCollection.FindOne(ctx, bson.M{"_id": instructorID, "archived": false}).Decode(&instructor)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Notification{}, fmt.Errorf("%w: instructor %s", ErrNotFound, instructorID.Hex())
		}
		return models.Notification{}, fmt.Errorf("failed to fetch instructor: %w", err)
	}

	request := models.Notification{
		Recipient:      instructorID,
		RecipientModel: models.RecipientInstructor,
		Type:           models.NotifTeamRequest,
		Message:        fmt.Sprintf("%s requested to form a team of %d under your supervision", leader.Name, len(memberIDs)+1),
		Data: models.NotificationData{
			StudentID:    &leaderID,
			TeamMembers:  memberIDs,
			InstructorID: &instructorID,
		},
	}

	return s.notificationService.Create(ctx, request)
}

// hasPendingRequest reports whether the leader has filed a TEAM_REQUEST that
// no instructor has decided yet. READ counts as pending: the instructor saw
// it but has not approved or rejected.
func (s *TeamService) hasPendingRequest(ctx context.Context, leaderID primitive.ObjectID) (bool, error) {
	count, err := s.notificationService.notificationCollection.CountDocuments(ctx, bson.M{
		"type":            models.NotifTeamRequest,
		"data.student_id": leaderID,
		"status":          bson.M{"$in": []string{models.NotifUnread, models.NotifRead}},
	})
	if err != nil {
		return false, fmt.Errorf("failed to check pending requests: %w", err)
	}
	return count > 0, nil
}

// HandleTeamRequest decides a pending team request. Acting on an
// already-decided request fails with ErrRequestAlreadyHandled rather than
// silently re-applying, so two racing instructor actions cannot both win.
func (s *TeamService) HandleTeamRequest(ctx context.Context, instructorID, requestID primitive.ObjectID, decision, message string) (models.Notification, error) {
	if err := utils.ValidateDecision(decision); err != nil {
		return models.Notification{}, fmt.Errorf("%w: %v", ErrPrecondition, err)
	}

	request, err := s.notificationService.GetByID(ctx, requestID)
	if err != nil {
		return models.Notification{}, err
	}
	if request.Type != models.NotifTeamRequest {
		return models.Notification{}, fmt.Errorf("%w: notification %s is not a team request", ErrPrecondition, requestID.Hex())
	}
	if request.Recipient != instructorID {
		return models.Notification{}, fmt.Errorf("%w: team request is addressed to another instructor", ErrForbidden)
	}
	if request.Status == models.NotifApproved || request.Status == models.NotifRejected {
		return models.Notification{}, fmt.Errorf("%w: team request %s", ErrRequestAlreadyHandled, requestID.Hex())
	}
	if request.Data.StudentID == nil {
		return models.Notification{}, fmt.Errorf("team request %s has no leader recorded", requestID.Hex())
	}

	leaderID := *request.Data.StudentID
	memberIDs := request.Data.TeamMembers

	var instructor models.Instructor
	if err := s.instructorCollection.FindOne(ctx, bson.M{"_id": instructorID}).Decode(&instructor); err != nil {
		return models.Notification{}, fmt.Errorf("failed to fetch instructor: %w", err)
	}

	var notifMessage string
	requestStatus := models.NotifRejected

	if decision == "APPROVED" {
		if err := s.approveTeam(ctx, leaderID, memberIDs, instructorID); err != nil {
			return models.Notification{}, err
		}
		requestStatus = models.NotifApproved
		notifMessage = fmt.Sprintf("Your team request was approved by %s", instructor.Name)
	} else {
		notifMessage = fmt.Sprintf("Your team request was rejected by %s", instructor.Name)
		if message != "" {
			notifMessage = fmt.Sprintf("%s: %s", notifMessage, message)
		}
	}

	if err := s.notificationService.SetRequestStatus(ctx, requestID, requestStatus); err != nil {
		return models.Notification{}, err
	}
	request.Status = requestStatus

	recipients := make([]Recipient, 0, len(memberIDs)+1)
	recipients = append(recipients, Recipient{ID: leaderID, Model: models.RecipientStudent})
	for _, memberID := range memberIDs {
		recipients = append(recipients, Recipient{ID: memberID, Model: models.RecipientStudent})
	}

	fanOut := BuildFanOut(recipients, models.NotifTeamRequestResponse, notifMessage, models.NotificationData{
		InstructorID: &instructorID,
		RequestID:    &requestID,
		Decision:     decision,
	})
	if err := s.notificationService.FanOut(ctx, fanOut); err != nil {
		// The team state is already committed; a lost response notification
		// is an accepted inconsistency window.
		log.Printf("[TeamService] Fan-out failed for request %s: %v", requestID.Hex(), err)
	}

	return request, nil
}

// approveTeam applies the approval side effects: supervision links on every
// student, symmetric project member references, and the team's research
// record. These are separate writes with no cross-document transaction.
func (s *TeamService) approveTeam(ctx context.Context, leaderID primitive.ObjectID, memberIDs []primitive.ObjectID, instructorID primitive.ObjectID) error {
	now := time.Now()
	team := append([]primitive.ObjectID{leaderID}, memberIDs...)

	// Requests wait in the instructor's inbox, so any student may have joined
	// another team in the meantime. Re-check before mutating anyone.
	students := make([]models.Student, 0, len(team))
	for _, studentID := range team {
		student, err := s.getActiveStudent(ctx, studentID)
		if err != nil {
			return err
		}
		students = append(students, student)
	}
	if err := ensureFreeAgents(students); err != nil {
		return err
	}

	for _, studentID := range team {
		others := utils.RemoveObjectID(team, studentID)
		_, err := s.studentCollection.UpdateOne(ctx,
			bson.M{"_id": studentID},
			bson.M{"$set": bson.M{
				"managed_by":      instructorID,
				"instructor_id":   instructorID,
				"project_members": others,
				"updated_at":      now,
			}},
		)
		if err != nil {
			return fmt.Errorf("failed to update student %s: %w", studentID.Hex(), err)
		}
	}

	// Team record: one research document per team, owned by the leader. The
	// first actual submission fills this document in place.
	filter := bson.M{
		"mongo_id":      leaderID,
		"drive_file_id": "",
		"parent_id":     bson.M{"$exists": false},
	}
	update := bson.M{
		"$set": bson.M{
			"team_members": memberIDs,
			"adviser":      instructorID,
			"updated_at":   now,
		},
		"$setOnInsert": bson.M{
			"mongo_id":      leaderID,
			"title":         "",
			"abstract":      "",
			"authors":       "",
			"keywords":      []string{},
			"drive_file_id": "",
			"file_url":      "",
			"file_name":     "",
			"status":        "",
			"version":       0,
			"archived":      false,
			"created_at":    now,
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := s.researchCollection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert team research record: %w", err)
	}

	return nil
}

// AddMember extends an approved team. Only the team leader may add, only
// after approval, and never past the size bound.
func (s *TeamService) AddMember(ctx context.Context, leaderID, newMemberID primitive.ObjectID) error {
	leader, err := s.getActiveStudent(ctx, leaderID)
	if err != nil {
		return err
	}
	if leader.ManagedBy == nil {
		return fmt.Errorf("%w: your team has not been approved yet", ErrPrecondition)
	}
	if !s.isTeamLeader(ctx, leaderID) {
		return fmt.Errorf("%w: only the team leader may add members", ErrForbidden)
	}
	if utils.ContainsObjectID(leader.ProjectMembers, newMemberID) || newMemberID == leaderID {
		return fmt.Errorf("%w: student is already on the team", ErrPrecondition)
	}
	if err := utils.ValidateTeamSize(len(leader.ProjectMembers) + 1); err != nil {
		return fmt.Errorf("%w: %v", ErrPrecondition, err)
	}

	newMember, err := s.getActiveStudent(ctx, newMemberID)
	if err != nil {
		return err
	}
	if newMember.HasTeam() {
		return fmt.Errorf("%w: %s already belongs to a team", ErrPrecondition, newMember.Name)
	}

	now := time.Now()
	existing := append([]primitive.ObjectID{leaderID}, leader.ProjectMembers...)
	currentUpdate, newMemberUpdate := addMemberUpdates(&leader, existing, newMemberID, now)

	_, err = s.studentCollection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": existing}},
		currentUpdate,
	)
	if err != nil {
		return fmt.Errorf("failed to link existing members: %w", err)
	}

	_, err = s.studentCollection.UpdateOne(ctx, bson.M{"_id": newMemberID}, newMemberUpdate)
	if err != nil {
		return fmt.Errorf("failed to link new member: %w", err)
	}

	_, err = s.researchCollection.UpdateMany(ctx,
		bson.M{"mongo_id": leaderID},
		bson.M{
			"$addToSet": bson.M{"team_members": newMemberID},
			"$set":      bson.M{"updated_at": now},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to update research team members: %w", err)
	}

	notification := BuildFanOut(
		[]Recipient{{ID: newMemberID, Model: models.RecipientStudent}},
		models.NotifGeneral,
		fmt.Sprintf("%s added you to their research team", leader.Name),
		models.NotificationData{StudentID: &leaderID, InstructorID: leader.ManagedBy},
	)
	if err := s.notificationService.FanOut(ctx, notification); err != nil {
		log.Printf("[TeamService] Failed to notify new member %s: %v", newMemberID.Hex(), err)
	}

	return nil
}

// RemoveMember detaches a member from the team, clearing their supervision
// links and every symmetric reference. Only the leader may remove.
func (s *TeamService) RemoveMember(ctx context.Context, leaderID, memberID primitive.ObjectID) error {
	leader, err := s.getActiveStudent(ctx, leaderID)
	if err != nil {
		return err
	}
	if !s.isTeamLeader(ctx, leaderID) {
		return fmt.Errorf("%w: only the team leader may remove members", ErrForbidden)
	}
	if !utils.ContainsObjectID(leader.ProjectMembers, memberID) {
		return fmt.Errorf("%w: student is not on your team", ErrPrecondition)
	}

	now := time.Now()
	remaining := append([]primitive.ObjectID{leaderID}, utils.RemoveObjectID(leader.ProjectMembers, memberID)...)
	remainingUpdate, removedUpdate := removeMemberUpdates(memberID, now)

	_, err = s.studentCollection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": remaining}},
		remainingUpdate,
	)
	if err != nil {
		return fmt.Errorf("failed to unlink remaining members: %w", err)
	}

	_, err = s.studentCollection.UpdateOne(ctx, bson.M{"_id": memberID}, removedUpdate)
	if err != nil {
		return fmt.Errorf("failed to detach member: %w", err)
	}

	_, err = s.researchCollection.UpdateMany(ctx,
		bson.M{"mongo_id": leaderID},
		bson.M{
			"$pull": bson.M{"team_members": memberID},
			"$set":  bson.M{"updated_at": now},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to update research team members: %w", err)
	}

	notification := BuildFanOut(
		[]Recipient{{ID: memberID, Model: models.RecipientStudent}},
		models.NotifGeneral,
		fmt.Sprintf("%s removed you from their research team", leader.Name),
		models.NotificationData{StudentID: &leaderID},
	)
	if err := s.notificationService.FanOut(ctx, notification); err != nil {
		log.Printf("[TeamService] Failed to notify removed member %s: %v", memberID.Hex(), err)
	}

	return nil
}

// addMemberUpdates builds the update documents that keep member references
// symmetric when a student joins: every current member gains the newcomer,
// the newcomer gains every current member plus the team's supervision links.
func addMemberUpdates(leader *models.Student, existing []primitive.ObjectID, newMemberID primitive.ObjectID, now time.Time) (currentUpdate, newMemberUpdate bson.M) {
	currentUpdate = bson.M{
		"$addToSet": bson.M{"project_members": newMemberID},
		"$set":      bson.M{"updated_at": now},
	}
	newMemberUpdate = bson.M{"$set": bson.M{
		"project_members": existing,
		"managed_by":      leader.ManagedBy,
		"instructor_id":   leader.InstructorID,
		"updated_at":      now,
	}}
	return currentUpdate, newMemberUpdate
}

// removeMemberUpdates builds the update documents that detach a member:
// everyone remaining drops the reference, the removed student loses their
// member list and supervision links.
func removeMemberUpdates(memberID primitive.ObjectID, now time.Time) (remainingUpdate, removedUpdate bson.M) {
	remainingUpdate = bson.M{
		"$pull": bson.M{"project_members": memberID},
		"$set":  bson.M{"updated_at": now},
	}
	removedUpdate = bson.M{
		"$set": bson.M{
			"project_members": []primitive.ObjectID{},
			"updated_at":      now,
		},
		"$unset": bson.M{
			"managed_by":    "",
			"instructor_id": "",
		},
	}
	return remainingUpdate, removedUpdate
}

// ensureFreeAgents fails if any student already belongs to a team.
func ensureFreeAgents(students []models.Student) error {
	for _, student := range students {
		if student.HasTeam() {
			return fmt.Errorf("%w: %s already belongs to a team", ErrPrecondition, student.Name)
		}
	}
	return nil
}

// ListManagedStudents returns the active students supervised by an
// instructor.
func (s *TeamService) ListManagedStudents(ctx context.Context, instructorID primitive.ObjectID) ([]models.Student, error) {
	cursor, err := s.studentCollection.Find(ctx, bson.M{
		"managed_by": instructorID,
		"archived":   false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch managed students: %w", err)
	}
	defer cursor.Close(ctx)

	students := []models.Student{}
	if err = cursor.All(ctx, &students); err != nil {
		return nil, fmt.Errorf("failed to decode managed students: %w", err)
	}
	return students, nil
}

// isTeamLeader checks whether the student owns a team research record.
func (s *TeamService) isTeamLeader(ctx context.Context, studentID primitive.ObjectID) bool {
	count, err := s.researchCollection.CountDocuments(ctx, bson.M{
		"mongo_id": studentID,
		"adviser":  bson.M{"$ne": nil},
	})
	return err == nil && count > 0
}

func (s *TeamService) getActiveStudent(ctx context.Context, studentID primitive.ObjectID) (models.Student, error) {
	var student models.Student
	err := s.studentCollection.FindOne(ctx, bson.M{"_id": studentID, "archived": false}).Decode(&student)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Student{}, fmt.Errorf("%w: student %s", ErrNotFound, studentID.Hex())
		}
		return models.Student{}, fmt.Errorf("failed to fetch student: %w", err)
	}
	return student, nil
}

// dedupeMembers drops the leader and repeated ids from the candidate list.
func dedupeMembers(leaderID primitive.ObjectID, memberIDs []primitive.ObjectID) []primitive.ObjectID {
	seen := map[primitive.ObjectID]bool{leaderID: true}
	out := make([]primitive.ObjectID, 0, len(memberIDs))
	for _, id := range memberIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
