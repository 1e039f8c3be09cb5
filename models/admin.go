package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// Permission values an admin account can hold. Superadmin bypasses the set entirely.
const (
	PermManageAccounts   = "manage_accounts"
	PermManageRepository = "manage_repository"
	PermViewUserActivity = "view_user_activity"
	PermGenerateReports  = "generate_reports"
)

type Admin struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	Name         string             `bson:"name" json:"name"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         string             `bson:"role" json:"role"` // "admin" or "superadmin"
	Permissions  []string           `bson:"permissions" json:"permissions"`
	IsActive     bool               `bson:"is_active" json:"is_active"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

func ValidPermission(p string) bool {
	switch p {
	case PermManageAccounts, PermManageRepository, PermViewUserActivity, PermGenerateReports:
		return true
	}
	return false
}
