// routes/routes.go
package routes

import (
	"researchhub/services"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServiceContainer holds all services and dependencies
type ServiceContainer struct {
	DB                  *mongo.Database
	JWTSecret           string
	NotificationService *services.NotificationService
	TeamService         *services.TeamService
	ResearchService     *services.ResearchService
	AdviserService      *services.AdviserService
	AccountService      *services.AccountService
	OTPService          *services.OTPService
}

// NewServiceContainer creates a new service container with all dependencies initialized
func NewServiceContainer(db *mongo.Database, jwtSecret string, jwtExpiration, otpExpiry time.Duration) *ServiceContainer {
	notificationService := services.NewNotificationService(db)

	return &ServiceContainer{
		DB:                  db,
		JWTSecret:           jwtSecret,
		NotificationService: notificationService,
		TeamService:         services.NewTeamService(db, notificationService),
		ResearchService:     services.NewResearchService(db, notificationService),
		AdviserService:      services.NewAdviserService(db, notificationService),
		AccountService:      services.NewAccountService(db, jwtSecret, jwtExpiration),
		OTPService:          services.NewOTPService(db, otpExpiry),
	}
}

// SetupRoutesWithContainer configures all API routes using a service container
func SetupRoutesWithContainer(api *gin.RouterGroup, container *ServiceContainer) {
	RegisterStudentRoutes(api, container)
	RegisterInstructorRoutes(api, container)
	RegisterAdminRoutes(api, container)
}
