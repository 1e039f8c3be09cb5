package services

import (
	"context"
	"fmt"
	"log"
	"researchhub/models"
	"researchhub/utils"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ResearchService manages the lifecycle and revision history of research
// artifacts. Resubmissions never mutate an earlier version: each one is a new
// document linked to the chain root through parent_id.
type ResearchService struct {
	researchCollection   *mongo.Collection
	studentCollection    *mongo.Collection
	instructorCollection *mongo.Collection
	notificationService  *NotificationService
}

type SubmitInput struct {
	Title       string
	Abstract    string
	Keywords    []string
	DriveFileID string
	FileURL     string
	FileName    string
}

type ResubmitInput struct {
	ResearchID  primitive.ObjectID
	DriveFileID string
	FileURL     string
	FileName    string
	Version     int
}

func NewResearchService(db *mongo.Database, notificationService *NotificationService) *ResearchService {
	s := &ResearchService{
		researchCollection:   db.Collection("research"),
		studentCollection:    db.Collection("students"),
		instructorCollection: db.Collection("instructors"),
		notificationService:  notificationService,
	}
	s.createIndexes()
	return s
}

func (s *ResearchService) createIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "mongo_id", Value: 1}}},
		{Keys: bson.D{{Key: "team_members", Value: 1}}},
		{Keys: bson.D{{Key: "parent_id", Value: 1}, {Key: "version", Value: -1}}},
	}

	if _, err := s.researchCollection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("[ResearchService] Failed to create indexes: %v", err)
	}
}

// Submit creates the first version of a research artifact. The student must
// belong to an approved team; the team's record (created at approval time) is
// filled in place for the team's first submission, and later projects get
// fresh documents.
func (s *ResearchService) Submit(ctx context.Context, studentID primitive.ObjectID, input SubmitInput) (models.Research, error) {
	if err := utils.ValidateTitle(input.Title); err != nil {
		return models.Research{}, fmt.Errorf("%w: %v", ErrPrecondition, err)
	}
	if input.DriveFileID == "" {
		return models.Research{}, fmt.Errorf("%w: missing file reference", ErrPrecondition)
	}

	var student models.Student
	err := s.studentCollection.FindOne(ctx, bson.M{"_id": studentID, "archived": false}).Decode(&student)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Research{}, fmt.Errorf("%w: student %s", ErrNotFound, studentID.Hex())
		}
		return models.Research{}, fmt.Errorf("failed to fetch student: %w", err)
	}
	if strings.TrimSpace(student.Course) == "" {
		return models.Research{}, fmt.Errorf("%w: your course must be set before submitting", ErrPrecondition)
	}

	anchor, err := s.findTeamRecord(ctx, studentID)
	if err != nil {
		return models.Research{}, err
	}

	authors, err := s.buildAuthors(ctx, anchor.MongoID, anchor.TeamMembers)
	if err != nil {
		return models.Research{}, err
	}

	now := time.Now()
	var research models.Research

	if !anchor.Submitted() {
		// First submission for this team fills the record created at
		// team approval.
		update := bson.M{"$set": bson.M{
			"title":         input.Title,
			"abstract":      input.Abstract,
			"authors":       authors,
			"keywords":      input.Keywords,
			"drive_file_id": input.DriveFileID,
			"file_url":      input.FileURL,
			"file_name":     input.FileName,
			"status":        models.StatusPending,
			"version":       1,
			"upload_date":   now,
			"updated_at":    now,
		}}

		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		err = s.researchCollection.FindOneAndUpdate(ctx, bson.M{"_id": anchor.ID}, update, opts).Decode(&research)
		if err != nil {
			return models.Research{}, fmt.Errorf("failed to record submission: %w", err)
		}
	} else {
		research = models.Research{
			ID:          primitive.NewObjectID(),
			MongoID:     anchor.MongoID,
			TeamMembers: anchor.TeamMembers,
			Adviser:     anchor.Adviser,
			Title:       input.Title,
			Abstract:    input.Abstract,
			Authors:     authors,
			Keywords:    input.Keywords,
			DriveFileID: input.DriveFileID,
			FileURL:     input.FileURL,
			FileName:    input.FileName,
			Status:      models.StatusPending,
			Version:     1,
			UploadDate:  now,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if _, err := s.researchCollection.InsertOne(ctx, research); err != nil {
			return models.Research{}, fmt.Errorf("failed to create research document: %w", err)
		}
	}

	s.notifySubmission(ctx, &research, studentID,
		fmt.Sprintf("New research submitted: %s", research.Title), 0)

	return research, nil
}

// UpdateStatus applies a review decision. Pure field update: no new document
// is created, and the version chain is untouched.
func (s *ResearchService) UpdateStatus(ctx context.Context, instructorID, researchID primitive.ObjectID, status, note string) (models.Research, error) {
	if !models.ValidStatus(status) {
		return models.Research{}, fmt.Errorf("%w: invalid status %q", ErrPrecondition, status)
	}

	research, err := s.GetByID(ctx, researchID)
	if err != nil {
		return models.Research{}, err
	}
	if research.Adviser == nil || *research.Adviser != instructorID {
		return models.Research{}, fmt.Errorf("%w: only the adviser may update submission status", ErrForbidden)
	}
	if !research.Submitted() {
		return models.Research{}, fmt.Errorf("%w: research has not been submitted yet", ErrPrecondition)
	}

	now := time.Now()
	update := bson.M{"$set": bson.M{
		"status":     status,
		"note":       note,
		"updated_at": now,
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = s.researchCollection.FindOneAndUpdate(ctx, bson.M{"_id": researchID}, update, opts).Decode(&research)
	if err != nil {
		return models.Research{}, fmt.Errorf("failed to update status: %w", err)
	}

	var instructor models.Instructor
	if err := s.instructorCollection.FindOne(ctx, bson.M{"_id": instructorID}).Decode(&instructor); err != nil {
		return models.Research{}, fmt.Errorf("failed to fetch adviser: %w", err)
	}

	message, data := statusNotification(&research, instructor.Name, status, note)

	recipients := teamRecipients(&research)
	if err := s.notificationService.FanOut(ctx, BuildFanOut(recipients, models.NotifResearchSubmission, message, data)); err != nil {
		log.Printf("[ResearchService] Status fan-out failed for %s: %v", researchID.Hex(), err)
	}

	return research, nil
}

// statusNotification builds the member-facing message and payload for a
// review decision.
func statusNotification(research *models.Research, adviserName, status, note string) (string, models.NotificationData) {
	data := models.NotificationData{
		ResearchID: &research.ID,
		Version:    research.Version,
	}

	var message string
	switch status {
	case models.StatusRevision:
		message = fmt.Sprintf("%q needs revisions: %s", research.Title, note)
		data.RevisionNote = note
	case models.StatusAccepted:
		message = fmt.Sprintf("%q was accepted by %s", research.Title, adviserName)
	case models.StatusRejected:
		message = fmt.Sprintf("%q was rejected", research.Title)
		if note != "" {
			message = fmt.Sprintf("%s: %s", message, note)
		}
	default:
		message = fmt.Sprintf("%q is now %s", research.Title, status)
	}
	return message, data
}

// Resubmit clones a revisable document into a new version. The prior
// document keeps its terminal status; the clone restarts at Pending.
func (s *ResearchService) Resubmit(ctx context.Context, studentID primitive.ObjectID, input ResubmitInput) (models.Research, error) {
	prior, err := s.GetByID(ctx, input.ResearchID)
	if err != nil {
		return models.Research{}, err
	}
	if prior.MongoID != studentID && !utils.ContainsObjectID(prior.TeamMembers, studentID) {
		return models.Research{}, fmt.Errorf("%w: you are not part of this research team", ErrForbidden)
	}
	if !models.CanResubmit(prior.Status) {
		return models.Research{}, fmt.Errorf("%w: research with status %q cannot be resubmitted", ErrPrecondition, prior.Status)
	}
	if input.DriveFileID == "" {
		return models.Research{}, fmt.Errorf("%w: missing file reference", ErrPrecondition)
	}

	// The caller may hold a stale version of the chain, so the new version is
	// checked against every document in the chain, not just the prior one.
	root := prior.ChainRoot()
	chain, err := s.chainDocs(ctx, root)
	if err != nil {
		return models.Research{}, err
	}
	if err := validateNewVersion(chain, input.Version); err != nil {
		return models.Research{}, err
	}

	now := time.Now()

	research := models.Research{
		ID:          primitive.NewObjectID(),
		MongoID:     prior.MongoID,
		TeamMembers: prior.TeamMembers,
		Adviser:     prior.Adviser,
		Title:       prior.Title,
		Abstract:    prior.Abstract,
		Authors:     prior.Authors,
		Keywords:    prior.Keywords,
		DriveFileID: input.DriveFileID,
		FileURL:     input.FileURL,
		FileName:    input.FileName,
		Status:      models.StatusPending,
		Version:     input.Version,
		ParentID:    &root,
		UploadDate:  now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.researchCollection.InsertOne(ctx, research); err != nil {
		return models.Research{}, fmt.Errorf("failed to create resubmission: %w", err)
	}

	s.notifySubmission(ctx, &research, studentID,
		fmt.Sprintf("Version %d of %q was submitted", research.Version, research.Title), research.Version)

	return research, nil
}

// notifySubmission fans out to the submitter, every other team member, and
// the adviser. Fan-out failure never unwinds the committed submission.
func (s *ResearchService) notifySubmission(ctx context.Context, research *models.Research, submitterID primitive.ObjectID, message string, version int) {
	recipients := teamRecipients(research)
	recipients = append(recipients, Recipient{ID: submitterID, Model: models.RecipientStudent})
	if research.Adviser != nil {
		recipients = append(recipients, Recipient{ID: *research.Adviser, Model: models.RecipientInstructor})
	}

	data := models.NotificationData{
		StudentID:  &submitterID,
		ResearchID: &research.ID,
		Version:    version,
	}

	if err := s.notificationService.FanOut(ctx, BuildFanOut(recipients, models.NotifResearchSubmission, message, data)); err != nil {
		log.Printf("[ResearchService] Submission fan-out failed for %s: %v", research.ID.Hex(), err)
	}
}

// teamRecipients lists the leader and every team member as student
// recipients.
func teamRecipients(research *models.Research) []Recipient {
	recipients := make([]Recipient, 0, len(research.TeamMembers)+1)
	recipients = append(recipients, Recipient{ID: research.MongoID, Model: models.RecipientStudent})
	for _, memberID := range research.TeamMembers {
		recipients = append(recipients, Recipient{ID: memberID, Model: models.RecipientStudent})
	}
	return recipients
}

func (s *ResearchService) GetByID(ctx context.Context, id primitive.ObjectID) (models.Research, error) {
	var research models.Research
	err := s.researchCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&research)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Research{}, fmt.Errorf("%w: research %s", ErrNotFound, id.Hex())
		}
		return models.Research{}, fmt.Errorf("failed to fetch research: %w", err)
	}
	return research, nil
}

// ListVersions returns the complete version chain of a research artifact,
// newest version first. The chain is every document whose id or parent_id
// equals the resolved root.
func (s *ResearchService) ListVersions(ctx context.Context, researchID primitive.ObjectID) ([]models.Research, error) {
	research, err := s.GetByID(ctx, researchID)
	if err != nil {
		return nil, err
	}
	return s.chainDocs(ctx, research.ChainRoot())
}

// chainDocs fetches every document in a version chain, newest version first.
func (s *ResearchService) chainDocs(ctx context.Context, root primitive.ObjectID) ([]models.Research, error) {
	opts := options.Find().SetSort(bson.D{{Key: "version", Value: -1}})
	cursor, err := s.researchCollection.Find(ctx, bson.M{
		"$or": []bson.M{
			{"_id": root},
			{"parent_id": root},
		},
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch version chain: %w", err)
	}
	defer cursor.Close(ctx)

	versions := []models.Research{}
	if err = cursor.All(ctx, &versions); err != nil {
		return nil, fmt.Errorf("failed to decode version chain: %w", err)
	}
	return versions, nil
}

// validateNewVersion requires a resubmission version to exceed every version
// already present in the chain, keeping version numbers unique per chain.
func validateNewVersion(chain []models.Research, version int) error {
	max := 0
	for _, doc := range chain {
		if doc.Version > max {
			max = doc.Version
		}
	}
	if version <= max {
		return fmt.Errorf("%w: version must be greater than %d", ErrPrecondition, max)
	}
	return nil
}

// ListLatest returns the student's submissions, one document per version
// chain, each the highest version of its chain.
func (s *ResearchService) ListLatest(ctx context.Context, studentID primitive.ObjectID) ([]models.Research, error) {
	cursor, err := s.researchCollection.Find(ctx, bson.M{
		"$or": []bson.M{
			{"mongo_id": studentID},
			{"team_members": studentID},
		},
		"drive_file_id": bson.M{"$ne": ""},
		"archived":      false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch research documents: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []models.Research
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode research documents: %w", err)
	}

	return LatestPerChain(docs), nil
}

// ListForAdviser returns the latest version of every chain an instructor
// advises.
func (s *ResearchService) ListForAdviser(ctx context.Context, instructorID primitive.ObjectID) ([]models.Research, error) {
	cursor, err := s.researchCollection.Find(ctx, bson.M{
		"adviser":       instructorID,
		"drive_file_id": bson.M{"$ne": ""},
		"archived":      false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch submissions: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []models.Research
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode submissions: %w", err)
	}

	return LatestPerChain(docs), nil
}

// LatestPerChain groups documents by their resolved chain root and keeps the
// highest version of each chain, ordered by upload date descending.
func LatestPerChain(docs []models.Research) []models.Research {
	latest := make(map[primitive.ObjectID]models.Research, len(docs))
	for _, doc := range docs {
		root := doc.ChainRoot()
		if current, ok := latest[root]; !ok || doc.Version > current.Version {
			latest[root] = doc
		}
	}

	out := make([]models.Research, 0, len(latest))
	for _, doc := range latest {
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UploadDate.After(out[j].UploadDate)
	})
	return out
}

// findTeamRecord locates the approved-team research record the student
// belongs to: owner or member, adviser assigned.
func (s *ResearchService) findTeamRecord(ctx context.Context, studentID primitive.ObjectID) (models.Research, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.researchCollection.Find(ctx, bson.M{
		"$or": []bson.M{
			{"mongo_id": studentID},
			{"team_members": studentID},
		},
		"adviser":  bson.M{"$ne": nil},
		"archived": false,
	}, opts)
	if err != nil {
		return models.Research{}, fmt.Errorf("failed to look up team record: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []models.Research
	if err = cursor.All(ctx, &docs); err != nil {
		return models.Research{}, fmt.Errorf("failed to decode team records: %w", err)
	}
	if len(docs) == 0 {
		return models.Research{}, fmt.Errorf("%w: you need an approved team with an adviser before submitting", ErrPrecondition)
	}

	// Prefer the unfilled team record so the first submission lands there.
	for _, doc := range docs {
		if !doc.Submitted() {
			return doc, nil
		}
	}
	return docs[0], nil
}

// buildAuthors concatenates the leader's and members' names.
func (s *ResearchService) buildAuthors(ctx context.Context, leaderID primitive.ObjectID, memberIDs []primitive.ObjectID) (string, error) {
	ids := append([]primitive.ObjectID{leaderID}, memberIDs...)

	cursor, err := s.studentCollection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return "", fmt.Errorf("failed to fetch team members: %w", err)
	}
	defer cursor.Close(ctx)

	var students []models.Student
	if err = cursor.All(ctx, &students); err != nil {
		return "", fmt.Errorf("failed to decode team members: %w", err)
	}

	names := make(map[primitive.ObjectID]string, len(students))
	for _, st := range students {
		names[st.ID] = st.Name
	}

	ordered := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok {
			ordered = append(ordered, name)
		}
	}
	return strings.Join(ordered, ", "), nil
}

// AddBookmark saves a research document on the student's bookmark list.
func (s *ResearchService) AddBookmark(ctx context.Context, studentID, researchID primitive.ObjectID) error {
	if _, err := s.GetByID(ctx, researchID); err != nil {
		return err
	}

	result, err := s.studentCollection.UpdateOne(ctx,
		bson.M{"_id": studentID},
		bson.M{
			"$addToSet": bson.M{"bookmarks": researchID},
			"$set":      bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to add bookmark: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: student %s", ErrNotFound, studentID.Hex())
	}
	return nil
}

func (s *ResearchService) RemoveBookmark(ctx context.Context, studentID, researchID primitive.ObjectID) error {
	result, err := s.studentCollection.UpdateOne(ctx,
		bson.M{"_id": studentID},
		bson.M{
			"$pull": bson.M{"bookmarks": researchID},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to remove bookmark: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: student %s", ErrNotFound, studentID.Hex())
	}
	return nil
}

func (s *ResearchService) ListBookmarks(ctx context.Context, studentID primitive.ObjectID) ([]models.Research, error) {
	var student models.Student
	err := s.studentCollection.FindOne(ctx, bson.M{"_id": studentID}).Decode(&student)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: student %s", ErrNotFound, studentID.Hex())
		}
		return nil, fmt.Errorf("failed to fetch student: %w", err)
	}
	if len(student.Bookmarks) == 0 {
		return []models.Research{}, nil
	}

	cursor, err := s.researchCollection.Find(ctx, bson.M{
		"_id":      bson.M{"$in": student.Bookmarks},
		"archived": false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookmarks: %w", err)
	}
	defer cursor.Close(ctx)

	research := []models.Research{}
	if err = cursor.All(ctx, &research); err != nil {
		return nil, fmt.Errorf("failed to decode bookmarks: %w", err)
	}
	return research, nil
}
