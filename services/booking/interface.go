package booking

import (
	"context"
	"time"

	bookingRepo "shutterbook/database/repository/booking"
	"shutterbook/models"
)

// BookingService defines the booking lifecycle operations.
type BookingService interface {
	// CreateBooking stores a pending booking owned by ownerID with the catalog price.
	CreateBooking(ctx context.Context, ownerID string, req models.BookingRequest) (*models.Booking, error)
	// ListUserBookings returns the owner's bookings, newest first.
	ListUserBookings(ctx context.Context, ownerID string) ([]models.Booking, error)
	// ListAllBookings returns every booking, optionally filtered by status (empty means all).
	ListAllBookings(ctx context.Context, status string) ([]models.Booking, error)
	// UpdateBookingStatus applies an admin transition.
	UpdateBookingStatus(ctx context.Context, id string, update models.StatusUpdate) (*models.Booking, error)
	// CancelBooking removes a pending booking on behalf of its owner.
	CancelBooking(ctx context.Context, id, ownerID string) (*models.CancelResult, error)
}

// Notifier announces status changes to booking owners.
type Notifier interface {
	NotifyStatusChange(ctx context.Context, n models.StatusNotification) error
}

// DefaultBookingService implements BookingService on a repository.
type DefaultBookingService struct {
	Repo     bookingRepo.BookingRepository
	Notifier Notifier
	Now      func() time.Time
}

func NewBookingService(repo bookingRepo.BookingRepository, notifier Notifier) *DefaultBookingService {
	return &DefaultBookingService{Repo: repo, Notifier: notifier, Now: time.Now}
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}
