package handlers

import (
	userRepoPkg "shutterbook/database/repository/user"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers for route registration.
type HandlerBundle struct {
	UserRepo userRepoPkg.UserRepository

	// Auth endpoints
	RegisterUserHandler     gin.HandlerFunc
	AuthenticateUserHandler gin.HandlerFunc
	RequestAdminOTPHandler  gin.HandlerFunc
	VerifyAdminOTPHandler   gin.HandlerFunc

	// Booking endpoints
	CreateBookingHandler       gin.HandlerFunc
	ListUserBookingsHandler    gin.HandlerFunc
	ListAllBookingsHandler     gin.HandlerFunc
	UpdateBookingStatusHandler gin.HandlerFunc
	CancelBookingHandler       gin.HandlerFunc

	// Operational endpoints
	HealthHandler gin.HandlerFunc
}

// NewHandlerBundle wires the handlers to their services.
func NewHandlerBundle(users userRepoPkg.UserRepository, uh *UserHandler, bh *BookingHandler) *HandlerBundle {
	return &HandlerBundle{
		UserRepo: users,

		RegisterUserHandler:     uh.RegisterUserHandler,
		AuthenticateUserHandler: uh.AuthenticateUserHandler,
		RequestAdminOTPHandler:  uh.RequestAdminOTPHandler,
		VerifyAdminOTPHandler:   uh.VerifyAdminOTPHandler,

		CreateBookingHandler:       bh.CreateBookingHandler,
		ListUserBookingsHandler:    bh.ListUserBookingsHandler,
		ListAllBookingsHandler:     bh.ListAllBookingsHandler,
		UpdateBookingStatusHandler: bh.UpdateBookingStatusHandler,
		CancelBookingHandler:       bh.CancelBookingHandler,

		HealthHandler: HealthHandler,
	}
}
