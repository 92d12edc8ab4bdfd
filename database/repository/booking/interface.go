package bookingRepo

import (
	"context"
	"errors"

	"shutterbook/models"
)

// ErrNotFound is returned when no booking matches the query.
var ErrNotFound = errors.New("booking not found")

// BookingRepository defines methods for booking data access.
type BookingRepository interface {
	// Create inserts a new booking record.
	Create(ctx context.Context, booking *models.Booking) error
	// GetByID retrieves a booking by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// ListByOwner retrieves one customer's bookings, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]models.Booking, error)
	// ListAll retrieves every booking, optionally filtered by status, newest first.
	ListAll(ctx context.Context, status models.BookingStatus) ([]models.Booking, error)
	// UpdateStatus moves a booking to a new status only if its current status is one of from.
	// It returns ErrNotFound when no booking matched both the id and the allowed sources.
	UpdateStatus(ctx context.Context, id string, from []models.BookingStatus, to models.BookingStatus, notes string) (*models.Booking, error)
	// DeleteIf removes a booking owned by ownerID that is currently in status.
	// It returns ErrNotFound when nothing matched.
	DeleteIf(ctx context.Context, id, ownerID string, status models.BookingStatus) (*models.Booking, error)
}
