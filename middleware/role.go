package middleware

import (
	"net/http"

	"shutterbook/models"
	"shutterbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireRole aborts with 403 unless the authenticated user holds one of the roles.
// It must run after JWTAuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := Role(c)
		for _, r := range roles {
			if current == r {
				c.Next()
				return
			}
		}
		utils.GetLogger().Warn("Role check failed",
			zap.String("userID", UserID(c)), zap.String("role", string(current)), zap.String("path", c.FullPath()))
		utils.JSONError(c, http.StatusForbidden, "Insufficient permission", "this action requires the admin role")
	}
}
