package middleware

import (
	"net/http"
	"strings"

	userRepo "shutterbook/database/repository/user"
	"shutterbook/models"
	"shutterbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by JWTAuthMiddleware.
const (
	ContextUserID = "userID"
	ContextRole   = "role"
	ContextUser   = "user"
)

// JWTAuthMiddleware validates the bearer token and loads the account it names.
// The role comes from the stored account, not the token, so a demotion takes effect immediately.
func JWTAuthMiddleware(repo userRepo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "missing or invalid Authorization header")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "empty bearer token")
			return
		}

		claims, err := utils.ExtractClaims(tokenString)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "Invalid or expired token", err.Error())
			return
		}

		u, err := repo.GetByID(c.Request.Context(), claims.Subject)
		if err != nil || u == nil {
			utils.GetLogger().Warn("Token subject not found", zap.String("userID", claims.Subject), zap.Error(err))
			utils.JSONError(c, http.StatusUnauthorized, "Invalid or expired token", "account not found")
			return
		}

		c.Set(ContextUserID, u.ID)
		c.Set(ContextRole, u.Role)
		c.Set(ContextUser, u)
		c.Next()
	}
}

// UserID returns the authenticated user's ID set by JWTAuthMiddleware.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// Role returns the authenticated user's role, or guest.
func Role(c *gin.Context) models.Role {
	if v, ok := c.Get(ContextRole); ok {
		if r, ok := v.(models.Role); ok {
			return r
		}
	}
	return models.RoleGuest
}
