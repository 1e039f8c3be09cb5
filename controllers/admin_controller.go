package controllers

import (
	"researchhub/services"
	"researchhub/utils"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	accountService *services.AccountService
}

type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateAdminRequest struct {
	Name        string   `json:"name" binding:"required"`
	Email       string   `json:"email" binding:"required,email"`
	Password    string   `json:"password" binding:"required"`
	Permissions []string `json:"permissions"`
}

func NewAdminController(accountService *services.AccountService) *AdminController {
	return &AdminController{accountService: accountService}
}

func (ac *AdminController) Login(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	token, admin, err := ac.accountService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Login successful", gin.H{
		"token": token,
		"admin": admin,
	})
}

// CreateAdmin provisions a new admin account (superadmin only, enforced by
// route middleware).
func (ac *AdminController) CreateAdmin(c *gin.Context) {
	var req CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	admin, err := ac.accountService.CreateAdmin(c.Request.Context(), services.CreateAdminInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Permissions: req.Permissions,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Admin created", admin)
}

func (ac *AdminController) GetAccounts(c *gin.Context) {
	includeArchived := c.Query("includeArchived") == "true"

	accounts, err := ac.accountService.ListAccounts(c.Request.Context(), includeArchived)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Accounts retrieved", accounts)
}

func (ac *AdminController) ArchiveUser(c *gin.Context) {
	ac.setUserArchived(c, true, "User archived")
}

func (ac *AdminController) RestoreUser(c *gin.Context) {
	ac.setUserArchived(c, false, "User restored")
}

func (ac *AdminController) setUserArchived(c *gin.Context, archived bool, message string) {
	userID, err := utils.ValidateObjectID(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	model, err := ac.accountService.SetUserArchived(c.Request.Context(), userID, archived)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, message, gin.H{"model": model})
}

func (ac *AdminController) ArchiveResearch(c *gin.Context) {
	ac.setResearchArchived(c, true, "Research archived")
}

func (ac *AdminController) RestoreResearch(c *gin.Context) {
	ac.setResearchArchived(c, false, "Research restored")
}

func (ac *AdminController) setResearchArchived(c *gin.Context, archived bool, message string) {
	researchID, err := utils.ValidateObjectID(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	if err := ac.accountService.SetResearchArchived(c.Request.Context(), researchID, archived); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, message, nil)
}
