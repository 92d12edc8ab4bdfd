package handlers

import (
	"net/http"

	"shutterbook/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterUserHandler handles POST /api/auth/register.
func (h *UserHandler) RegisterUserHandler(c *gin.Context) {
	var reg models.Registration
	if err := c.ShouldBindJSON(&reg); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.UserService.RegisterUser(c.Request.Context(), reg)
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("User registered", zap.String("userID", resp.User.ID))
	c.JSON(http.StatusCreated, resp)
}

// AuthenticateUserHandler handles POST /api/auth/login.
func (h *UserHandler) AuthenticateUserHandler(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.UserService.AuthenticateUser(c.Request.Context(), creds)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
