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
	"golang.org/x/crypto/bcrypt"
)

// AccountService covers the administrator surface: credential checks, admin
// provisioning, and archive/restore of accounts and repository records.
// Archived documents are never hard-deleted; they just drop out of listing
// queries.
type AccountService struct {
	adminCollection      *mongo.Collection
	studentCollection    *mongo.Collection
	instructorCollection *mongo.Collection
	researchCollection   *mongo.Collection
	jwtSecret            string
	jwtExpiration        time.Duration
}

type CreateAdminInput struct {
	Name        string
	Email       string
	Password    string
	Permissions []string
}

type AccountList struct {
	Students    []models.Student    `json:"students"`
	Instructors []models.Instructor `json:"instructors"`
}

func NewAccountService(db *mongo.Database, jwtSecret string, jwtExpiration time.Duration) *AccountService {
	s := &AccountService{
		adminCollection:      db.Collection("admins"),
		studentCollection:    db.Collection("students"),
		instructorCollection: db.Collection("instructors"),
		researchCollection:   db.Collection("research"),
		jwtSecret:            jwtSecret,
		jwtExpiration:        jwtExpiration,
	}
	s.createIndexes()
	return s
}

func (s *AccountService) createIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	emailIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	if _, err := s.adminCollection.Indexes().CreateOne(ctx, emailIndex); err != nil {
		log.Printf("[AccountService] Failed to create admin email index: %v", err)
	}
}

// Login verifies admin credentials and issues a token carrying the role and
// permission set the access-control gate checks on every request.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, models.Admin, error) {
	var admin models.Admin
	err := s.adminCollection.FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", models.Admin{}, ErrInvalidCredentials
		}
		return "", models.Admin{}, fmt.Errorf("failed to fetch admin: %w", err)
	}

	if !admin.IsActive {
		return "", models.Admin{}, fmt.Errorf("%w: account is deactivated", ErrForbidden)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", models.Admin{}, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWTToken(admin.ID, admin.Email, admin.Name, admin.Role, admin.Permissions, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		return "", models.Admin{}, fmt.Errorf("failed to generate token: %w", err)
	}

	return token, admin, nil
}

// CreateAdmin provisions a regular admin account with an explicit permission
// set. Superadmins are seeded out of band, never created through the API.
func (s *AccountService) CreateAdmin(ctx context.Context, input CreateAdminInput) (models.Admin, error) {
	if err := utils.ValidateEmail(input.Email); err != nil {
		return models.Admin{}, fmt.Errorf("%w: %v", ErrPrecondition, err)
	}
	if len(input.Password) < 8 {
		return models.Admin{}, fmt.Errorf("%w: password must be at least 8 characters", ErrPrecondition)
	}
	for _, p := range input.Permissions {
		if !models.ValidPermission(p) {
			return models.Admin{}, fmt.Errorf("%w: unknown permission %q", ErrPrecondition, p)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.Admin{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	admin := models.Admin{
		ID:           primitive.NewObjectID(),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Permissions:  input.Permissions,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.adminCollection.InsertOne(ctx, admin); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Admin{}, fmt.Errorf("%w: an admin with that email already exists", ErrPrecondition)
		}
		return models.Admin{}, fmt.Errorf("failed to create admin: %w", err)
	}

	return admin, nil
}

// SetUserArchived flips the archived flag on a student or instructor,
// whichever the id resolves to. Returns which model was touched. Setting the
// flag to its current value is a no-op, not an error.
func (s *AccountService) SetUserArchived(ctx context.Context, userID primitive.ObjectID, archived bool) (string, error) {
	update := bson.M{"$set": bson.M{"archived": archived, "updated_at": time.Now()}}

	result, err := s.studentCollection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return "", fmt.Errorf("failed to update student: %w", err)
	}
	if result.MatchedCount > 0 {
		return models.RecipientStudent, nil
	}

	result, err = s.instructorCollection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return "", fmt.Errorf("failed to update instructor: %w", err)
	}
	if result.MatchedCount > 0 {
		return models.RecipientInstructor, nil
	}

	return "", fmt.Errorf("%w: user %s", ErrNotFound, userID.Hex())
}

// SetResearchArchived flips the archived flag on a research document.
func (s *AccountService) SetResearchArchived(ctx context.Context, researchID primitive.ObjectID, archived bool) error {
	result, err := s.researchCollection.UpdateOne(ctx,
		bson.M{"_id": researchID},
		bson.M{"$set": bson.M{"archived": archived, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update research: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: research %s", ErrNotFound, researchID.Hex())
	}
	return nil
}

// ListAccounts returns students and instructors, optionally including
// archived ones.
func (s *AccountService) ListAccounts(ctx context.Context, includeArchived bool) (AccountList, error) {
	filter := bson.M{}
	if !includeArchived {
		filter["archived"] = false
	}

	list := AccountList{
		Students:    []models.Student{},
		Instructors: []models.Instructor{},
	}

	cursor, err := s.studentCollection.Find(ctx, filter)
	if err != nil {
		return list, fmt.Errorf("failed to fetch students: %w", err)
	}
	if err = cursor.All(ctx, &list.Students); err != nil {
		return list, fmt.Errorf("failed to decode students: %w", err)
	}

	cursor, err = s.instructorCollection.Find(ctx, filter)
	if err != nil {
		return list, fmt.Errorf("failed to fetch instructors: %w", err)
	}
	if err = cursor.All(ctx, &list.Instructors); err != nil {
		return list, fmt.Errorf("failed to decode instructors: %w", err)
	}

	return list, nil
}
