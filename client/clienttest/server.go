// Package clienttest runs the API server in-process with memory repositories for client tests.
package clienttest

import (
	"context"
	"net/http/httptest"
	"testing"

	bookingRepo "shutterbook/database/repository/booking"
	userRepo "shutterbook/database/repository/user"
	"shutterbook/handlers"
	"shutterbook/routes"
	"shutterbook/services/booking"
	"shutterbook/services/user"
	"shutterbook/utils"

	"github.com/gin-gonic/gin"
)

const (
	AdminEmail    = "admin@studio.test"
	AdminPassword = "Admin1234"
)

type Server struct {
	*httptest.Server
	Users    *userRepo.MemoryUserRepo
	Bookings *bookingRepo.MemoryBookingRepo
	OTP      *utils.MemoryOTPStore
}

// NewServer starts a server with a seeded admin account. It is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		Users:    userRepo.NewMemoryUserRepo(),
		Bookings: bookingRepo.NewMemoryBookingRepo(),
		OTP:      utils.NewMemoryOTPStore(),
	}
	userSvc := &user.DefaultUserService{Repo: s.Users, OTP: s.OTP, Sender: user.LogOTPSender{}}
	if err := userSvc.EnsureAdmin(context.Background(), "Studio Admin", AdminEmail, AdminPassword); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	bookingSvc := booking.NewBookingService(s.Bookings, nil)

	hb := handlers.NewHandlerBundle(s.Users, handlers.NewUserHandler(userSvc), handlers.NewBookingHandler(bookingSvc))
	router := routes.NewRouter(hb, routes.RouterOptions{AllowedOrigins: "*", MaxRequestsPerMin: 10000})

	s.Server = httptest.NewServer(router)
	t.Cleanup(s.Close)
	return s
}
