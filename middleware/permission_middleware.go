package middleware

import (
	"net/http"
	"researchhub/models"
	"researchhub/utils"

	"github.com/gin-gonic/gin"
)

// RequirePermission gates admin operations on the permission set carried in
// the token. Superadmin bypasses every check.
func RequirePermission(requiredPermission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == models.RoleSuperAdmin {
			c.Next()
			return
		}

		if role != models.RoleAdmin {
			utils.ErrorResponse(c, http.StatusForbidden, "Admin access required", nil)
			c.Abort()
			return
		}

		perms, exists := c.Get("permissions")
		if !exists {
			utils.ErrorResponse(c, http.StatusForbidden, "No permissions granted", nil)
			c.Abort()
			return
		}

		permissions, ok := perms.([]string)
		if !ok {
			utils.ErrorResponse(c, http.StatusForbidden, "No permissions granted", nil)
			c.Abort()
			return
		}

		for _, p := range permissions {
			if p == requiredPermission {
				c.Next()
				return
			}
		}

		utils.ErrorResponse(c, http.StatusForbidden, "Insufficient permissions", nil)
		c.Abort()
	}
}
