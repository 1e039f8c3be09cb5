package controllers

import (
	"researchhub/services"
	"researchhub/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AdviserController struct {
	adviserService *services.AdviserService
}

type CreateAdviserRequest struct {
	ResearchID string `json:"researchId" binding:"required"`
	Message    string `json:"message"`
}

type HandleAdviserRequest struct {
	Status string `json:"status" binding:"required,oneof=APPROVED REJECTED"`
}

func NewAdviserController(adviserService *services.AdviserService) *AdviserController {
	return &AdviserController{adviserService: adviserService}
}

// CreateRequest lets an instructor offer to advise a research project.
func (ac *AdviserController) CreateRequest(c *gin.Context) {
	var req CreateAdviserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	instructorID := c.MustGet("userId").(primitive.ObjectID)

	researchID, err := utils.ValidateObjectID(req.ResearchID)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	request, err := ac.adviserService.Create(c.Request.Context(), instructorID, researchID, req.Message)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Adviser request sent", request)
}

// HandleRequest lets the research owner decide a pending adviser request.
func (ac *AdviserController) HandleRequest(c *gin.Context) {
	requestID, err := utils.ValidateObjectID(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	var req HandleAdviserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	studentID := c.MustGet("userId").(primitive.ObjectID)

	request, err := ac.adviserService.Handle(c.Request.Context(), studentID, requestID, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Adviser request handled", request)
}
