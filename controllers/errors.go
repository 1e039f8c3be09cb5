package controllers

import (
	"errors"
	"researchhub/services"
	"researchhub/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError translates the service error taxonomy into HTTP
// statuses with a human-readable message body.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, err.Error())
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c, err.Error())
	case errors.Is(err, services.ErrRequestAlreadyHandled):
		utils.ConflictResponse(c, err.Error(), nil)
	case errors.Is(err, services.ErrPrecondition):
		utils.BadRequestResponse(c, err.Error(), nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.UnauthorizedResponse(c, err.Error())
	default:
		utils.InternalServerErrorResponse(c, "Something went wrong", nil)
	}
}
