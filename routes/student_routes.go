package routes

import (
	"researchhub/controllers"
	"researchhub/middleware"
	"researchhub/models"

	"github.com/gin-gonic/gin"
)

func RegisterStudentRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	teamController := controllers.NewTeamController(container.TeamService)
	researchController := controllers.NewResearchController(container.ResearchService)
	adviserController := controllers.NewAdviserController(container.AdviserService)
	notificationController := controllers.NewNotificationController(container.NotificationService, models.RecipientStudent)

	student := rg.Group("/student")
	student.Use(middleware.AuthMiddleware(container.JWTSecret))
	student.Use(middleware.RequireRole("student"))
	{
		// Team formation
		student.POST("/create-team-notification", teamController.CreateTeamNotification)
		student.POST("/add-team-member", teamController.AddTeamMember)
		student.POST("/remove-team-member", teamController.RemoveTeamMember)

		// Research lifecycle
		student.POST("/submit-research", researchController.SubmitResearch)
		student.PUT("/resubmit-research", researchController.ResubmitResearch)
		student.GET("/my-research", researchController.GetMyResearch)
		student.GET("/research/:id/versions", researchController.GetVersions)

		// Bookmarks
		student.POST("/bookmarks/:researchId", researchController.AddBookmark)
		student.DELETE("/bookmarks/:researchId", researchController.RemoveBookmark)
		student.GET("/bookmarks", researchController.GetBookmarks)

		// Adviser requests addressed to this student's research
		student.PUT("/adviser-requests/:id/handle", adviserController.HandleRequest)

		// Inbox
		student.GET("/notifications", notificationController.GetNotifications)
		student.GET("/notifications/unread-count", notificationController.GetUnreadCount)
		student.PUT("/notifications/:id/mark-read", notificationController.MarkRead)
		student.PUT("/notifications/mark-all-read", notificationController.MarkAllRead)
	}
}
