package controllers

import (
	"researchhub/services"
	"researchhub/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TeamController struct {
	teamService *services.TeamService
}

// CreateTeamRequest body. An empty member list is allowed: a student may
// work alone under an adviser.
type CreateTeamRequest struct {
	TeamMembers  []string `json:"teamMembers"`
	InstructorID string   `json:"instructorId" binding:"required"`
}

// HandleTeamRequest body
type HandleTeamRequest struct {
	Status  string `json:"status" binding:"required,oneof=APPROVED REJECTED"`
	Message string `json:"message"`
}

type AddMemberRequest struct {
	NewMemberID string `json:"newMemberId" binding:"required"`
}

type RemoveMemberRequest struct {
	MemberToRemove string `json:"memberToRemove" binding:"required"`
}

func NewTeamController(teamService *services.TeamService) *TeamController {
	return &TeamController{teamService: teamService}
}

// CreateTeamNotification files a team request with the chosen instructor.
func (tc *TeamController) CreateTeamNotification(c *gin.Context) {
	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	leaderID := c.MustGet("userId").(primitive.ObjectID)

	memberIDs, err := utils.ValidateObjectIDs(req.TeamMembers)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	instructorID, err := utils.ValidateObjectID(req.InstructorID)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	request, err := tc.teamService.CreateTeamRequest(c.Request.Context(), leaderID, memberIDs, instructorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Team request sent to instructor", request)
}

// HandleTeamRequest decides a pending team request (instructor only).
func (tc *TeamController) HandleTeamRequest(c *gin.Context) {
	requestID, err := utils.ValidateObjectID(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	var req HandleTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	instructorID := c.MustGet("userId").(primitive.ObjectID)

	request, err := tc.teamService.HandleTeamRequest(c.Request.Context(), instructorID, requestID, req.Status, req.Message)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Team request handled", request)
}

func (tc *TeamController) AddTeamMember(c *gin.Context) {
	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	leaderID := c.MustGet("userId").(primitive.ObjectID)

	newMemberID, err := utils.ValidateObjectID(req.NewMemberID)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	if err := tc.teamService.AddMember(c.Request.Context(), leaderID, newMemberID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Team member added", nil)
}

// GetManagedStudents lists the students under the instructor's supervision.
func (tc *TeamController) GetManagedStudents(c *gin.Context) {
	instructorID := c.MustGet("userId").(primitive.ObjectID)

	students, err := tc.teamService.ListManagedStudents(c.Request.Context(), instructorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Students retrieved", students)
}

func (tc *TeamController) RemoveTeamMember(c *gin.Context) {
	var req RemoveMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	leaderID := c.MustGet("userId").(primitive.ObjectID)

	memberID, err := utils.ValidateObjectID(req.MemberToRemove)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	if err := tc.teamService.RemoveMember(c.Request.Context(), leaderID, memberID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Team member removed", nil)
}
