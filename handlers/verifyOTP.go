package handlers

import (
	"net/http"

	"shutterbook/models"

	"github.com/gin-gonic/gin"
)

// RequestAdminOTPHandler handles POST /api/auth/admin/otp/request.
// The response is identical whether or not the email belongs to an admin.
func (h *UserHandler) RequestAdminOTPHandler(c *gin.Context) {
	var req models.OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.UserService.RequestAdminOTP(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "If the account is an administrator, an OTP has been sent"})
}

// VerifyAdminOTPHandler handles POST /api/auth/admin/otp/verify.
func (h *UserHandler) VerifyAdminOTPHandler(c *gin.Context) {
	var req models.OTPVerification
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	resp, err := h.UserService.VerifyAdminOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
