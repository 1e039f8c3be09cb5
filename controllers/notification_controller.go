package controllers

import (
	"researchhub/services"
	"researchhub/utils"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationController struct {
	notificationService *services.NotificationService
	recipientModel      string // which inbox this controller serves
}

func NewNotificationController(notificationService *services.NotificationService, recipientModel string) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
		recipientModel:      recipientModel,
	}
}

func (nc *NotificationController) GetNotifications(c *gin.Context) {
	userID := c.MustGet("userId").(primitive.ObjectID)

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 0 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	notifications, err := nc.notificationService.ListForRecipient(c.Request.Context(), userID, nc.recipientModel, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Notifications retrieved", notifications)
}

func (nc *NotificationController) GetUnreadCount(c *gin.Context) {
	userID := c.MustGet("userId").(primitive.ObjectID)

	count, err := nc.notificationService.UnreadCount(c.Request.Context(), userID, nc.recipientModel)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Unread count retrieved", gin.H{"count": count})
}

func (nc *NotificationController) MarkRead(c *gin.Context) {
	notificationID, err := utils.ValidateObjectID(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	userID := c.MustGet("userId").(primitive.ObjectID)

	notification, err := nc.notificationService.MarkRead(c.Request.Context(), notificationID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Notification marked read", notification)
}

func (nc *NotificationController) MarkAllRead(c *gin.Context) {
	userID := c.MustGet("userId").(primitive.ObjectID)

	count, err := nc.notificationService.MarkAllRead(c.Request.Context(), userID, nc.recipientModel)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Notifications marked read", gin.H{"updated": count})
}
