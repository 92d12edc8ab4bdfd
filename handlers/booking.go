package handlers

import (
	"net/http"

	"shutterbook/middleware"
	"shutterbook/models"
	"shutterbook/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves /api/bookings.
type BookingHandler struct {
	BookingService booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{BookingService: svc}
}

// CreateBookingHandler handles POST /api/bookings.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	b, err := h.BookingService.CreateBooking(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": b})
}

// ListUserBookingsHandler handles GET /api/bookings.
func (h *BookingHandler) ListUserBookingsHandler(c *gin.Context) {
	list, err := h.BookingService.ListUserBookings(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list})
}

// ListAllBookingsHandler handles GET /api/bookings/admin/all?status=.
func (h *BookingHandler) ListAllBookingsHandler(c *gin.Context) {
	list, err := h.BookingService.ListAllBookings(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list})
}

// UpdateBookingStatusHandler handles PATCH /api/bookings/admin/status/:id.
func (h *BookingHandler) UpdateBookingStatusHandler(c *gin.Context) {
	var update models.StatusUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		bindError(c, err)
		return
	}

	id := c.Param("id")
	b, err := h.BookingService.UpdateBookingStatus(c.Request.Context(), id, update)
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("Booking status changed",
		zap.String("bookingID", id), zap.String("status", string(b.Status)), zap.String("adminID", middleware.UserID(c)))
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

// CancelBookingHandler handles DELETE /api/bookings/:id.
func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	res, err := h.BookingService.CancelBooking(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
