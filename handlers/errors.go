package handlers

import (
	"errors"
	"net/http"

	"shutterbook/services/booking"
	"shutterbook/services/user"
	"shutterbook/utils"

	"github.com/gin-gonic/gin"
)

var bookingStatus = map[string]int{
	booking.CodeValidation:        http.StatusBadRequest,
	booking.CodeNotFound:          http.StatusNotFound,
	booking.CodeForbidden:         http.StatusForbidden,
	booking.CodeInvalidTransition: http.StatusConflict,
	booking.CodeNotCancellable:    http.StatusBadRequest,
	booking.CodeInternal:          http.StatusInternalServerError,
}

var authStatus = map[string]int{
	user.CodeValidation:         http.StatusBadRequest,
	user.CodeInvalidCredentials: http.StatusUnauthorized,
	user.CodeDuplicate:          http.StatusConflict,
	user.CodeForbidden:          http.StatusForbidden,
	user.CodeOTP:                http.StatusUnauthorized,
	user.CodeInternal:           http.StatusInternalServerError,
}

// respondError maps a service error onto the status table and writes {message, details}.
func respondError(c *gin.Context, err error) {
	var bErr *booking.BookingError
	if errors.As(err, &bErr) {
		status, ok := bookingStatus[bErr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		utils.JSONError(c, status, bErr.Message, "")
		return
	}

	var aErr *user.AuthError
	if errors.As(err, &aErr) {
		status, ok := authStatus[aErr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		utils.JSONError(c, status, aErr.Message, "")
		return
	}

	utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", err.Error())
}

func bindError(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
}
