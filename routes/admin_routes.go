package routes

import (
	"researchhub/controllers"
	"researchhub/middleware"
	"researchhub/models"

	"github.com/gin-gonic/gin"
)

func RegisterAdminRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	adminController := controllers.NewAdminController(container.AccountService)

	admin := rg.Group("/admin")

	// Login is the only unauthenticated admin endpoint
	admin.POST("/login", adminController.Login)

	authed := admin.Group("")
	authed.Use(middleware.AuthMiddleware(container.JWTSecret))
	authed.Use(middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))
	{
		authed.POST("/admins", middleware.RequireRole(models.RoleSuperAdmin), adminController.CreateAdmin)

		accounts := authed.Group("")
		accounts.Use(middleware.RequirePermission(models.PermManageAccounts))
		{
			accounts.GET("/accounts", adminController.GetAccounts)
			accounts.PUT("/users/:id/archive", adminController.ArchiveUser)
			accounts.PUT("/users/:id/restore", adminController.RestoreUser)
		}

		repository := authed.Group("")
		repository.Use(middleware.RequirePermission(models.PermManageRepository))
		{
			repository.PUT("/research/:id/archive", adminController.ArchiveResearch)
			repository.PUT("/research/:id/restore", adminController.RestoreResearch)
		}
	}
}
