package controllers

import (
	"researchhub/services"
	"researchhub/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ResearchController struct {
	researchService *services.ResearchService
}

type SubmitResearchRequest struct {
	Title       string   `json:"title" binding:"required"`
	Abstract    string   `json:"abstract"`
	Keywords    []string `json:"keywords"`
	DriveFileID string   `json:"driveFileId" binding:"required"`
	FileURL     string   `json:"fileUrl" binding:"required"`
	FileName    string   `json:"fileName" binding:"required"`
}

type ResubmitResearchRequest struct {
	ResearchID  string `json:"researchId" binding:"required"`
	DriveFileID string `json:"driveFileId" binding:"required"`
	FileURL     string `json:"fileUrl" binding:"required"`
	FileName    string `json:"fileName" binding:"required"`
	Version     int    `json:"version" binding:"required,min=2"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

func NewResearchController(researchService *services.ResearchService) *ResearchController {
	return &ResearchController{researchService: researchService}
}

func (rc *ResearchController) SubmitResearch(c *gin.Context) {
	var req SubmitResearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	studentID := c.MustGet("userId").(primitive.ObjectID)

	research, err := rc.researchService.Submit(c.Request.Context(), studentID, services.SubmitInput{
		Title:       req.Title,
		Abstract:    req.Abstract,
		Keywords:    req.Keywords,
		DriveFileID: req.DriveFileID,
		FileURL:     req.FileURL,
		FileName:    req.FileName,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Research submitted", research)
}

func (rc *ResearchController) ResubmitResearch(c *gin.Context) {
	var req ResubmitResearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	studentID := c.MustGet("userId").(primitive.ObjectID)

	researchID, err := utils.ValidateObjectID(req.ResearchID)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	research, err := rc.researchService.Resubmit(c.Request.Context(), studentID, services.ResubmitInput{
		ResearchID:  researchID,
		DriveFileID: req.DriveFileID,
		FileURL:     req.FileURL,
		FileName:    req.FileName,
		Version:     req.Version,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Research resubmitted", research)
}

// UpdateStatus applies a review decision to one submission (adviser only).
func (rc *ResearchController) UpdateStatus(c *gin.Context) {
	researchID, err := utils.ValidateObjectID(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	instructorID := c.MustGet("userId").(primitive.ObjectID)

	research, err := rc.researchService.UpdateStatus(c.Request.Context(), instructorID, researchID, req.Status, req.Note)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Submission status updated", research)
}

// GetMyResearch returns the latest version of every project the student
// belongs to.
func (rc *ResearchController) GetMyResearch(c *gin.Context) {
	studentID := c.MustGet("userId").(primitive.ObjectID)

	research, err := rc.researchService.ListLatest(c.Request.Context(), studentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Research retrieved", research)
}

func (rc *ResearchController) GetVersions(c *gin.Context) {
	researchID, err := utils.ValidateObjectID(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	versions, err := rc.researchService.ListVersions(c.Request.Context(), researchID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Version history retrieved", versions)
}

// GetAdviserSubmissions returns the latest version of every chain the
// authenticated instructor advises.
func (rc *ResearchController) GetAdviserSubmissions(c *gin.Context) {
	instructorID := c.MustGet("userId").(primitive.ObjectID)

	research, err := rc.researchService.ListForAdviser(c.Request.Context(), instructorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Submissions retrieved", research)
}

func (rc *ResearchController) AddBookmark(c *gin.Context) {
	researchID, err := utils.ValidateObjectID(c.Param("researchId"))
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	studentID := c.MustGet("userId").(primitive.ObjectID)

	if err := rc.researchService.AddBookmark(c.Request.Context(), studentID, researchID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Bookmark added", nil)
}

func (rc *ResearchController) RemoveBookmark(c *gin.Context) {
	researchID, err := utils.ValidateObjectID(c.Param("researchId"))
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	studentID := c.MustGet("userId").(primitive.ObjectID)

	if err := rc.researchService.RemoveBookmark(c.Request.Context(), studentID, researchID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Bookmark removed", nil)
}

func (rc *ResearchController) GetBookmarks(c *gin.Context) {
	studentID := c.MustGet("userId").(primitive.ObjectID)

	research, err := rc.researchService.ListBookmarks(c.Request.Context(), studentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Bookmarks retrieved", research)
}
