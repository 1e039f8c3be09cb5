package routes

import (
	"researchhub/controllers"
	"researchhub/middleware"
	"researchhub/models"

	"github.com/gin-gonic/gin"
)

func RegisterInstructorRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	teamController := controllers.NewTeamController(container.TeamService)
	researchController := controllers.NewResearchController(container.ResearchService)
	adviserController := controllers.NewAdviserController(container.AdviserService)
	notificationController := controllers.NewNotificationController(container.NotificationService, models.RecipientInstructor)

	instructor := rg.Group("/instructor")
	instructor.Use(middleware.AuthMiddleware(container.JWTSecret))
	instructor.Use(middleware.RequireRole("instructor"))
	{
		// Team requests addressed to this instructor
		instructor.PUT("/team-requests/:id/handle", teamController.HandleTeamRequest)
		instructor.GET("/students", teamController.GetManagedStudents)

		// Submission review
		instructor.GET("/submissions", researchController.GetAdviserSubmissions)
		instructor.PUT("/submissions/:id/status", researchController.UpdateStatus)

		// Volunteering to advise
		instructor.POST("/adviser-requests", adviserController.CreateRequest)

		// Inbox
		instructor.GET("/notifications", notificationController.GetNotifications)
		instructor.GET("/notifications/unread-count", notificationController.GetUnreadCount)
		instructor.PUT("/notifications/:id/mark-read", notificationController.MarkRead)
		instructor.PUT("/notifications/mark-all-read", notificationController.MarkAllRead)
	}
}
