package bookingRepo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"shutterbook/models"
)

// MemoryBookingRepo keeps bookings in process memory. It backs local development
// (STORAGE_DRIVER=memory) and end-to-end tests.
type MemoryBookingRepo struct {
	mu       sync.RWMutex
	bookings map[string]models.Booking
}

// NewMemoryBookingRepo creates an empty in-memory repository.
func NewMemoryBookingRepo() *MemoryBookingRepo {
	return &MemoryBookingRepo{bookings: make(map[string]models.Booking)}
}

func (r *MemoryBookingRepo) Create(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.bookings[booking.ID]; exists {
		return fmt.Errorf("failed to create booking: duplicate id %s", booking.ID)
	}
	r.bookings[booking.ID] = *booking
	return nil
}

func (r *MemoryBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (r *MemoryBookingRepo) ListByOwner(_ context.Context, ownerID string) ([]models.Booking, error) {
	return r.filter(func(b models.Booking) bool { return b.OwnerID == ownerID }), nil
}

func (r *MemoryBookingRepo) ListAll(_ context.Context, status models.BookingStatus) ([]models.Booking, error) {
	return r.filter(func(b models.Booking) bool { return status == "" || b.Status == status }), nil
}

func (r *MemoryBookingRepo) filter(keep func(models.Booking) bool) []models.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Booking{}
	for _, b := range r.bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *MemoryBookingRepo) UpdateStatus(_ context.Context, id string, from []models.BookingStatus, to models.BookingStatus, notes string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || !containsStatus(from, b.Status) {
		return nil, ErrNotFound
	}
	b.Status = to
	b.AdminNotes = notes
	b.UpdatedAt = time.Now().UTC()
	r.bookings[id] = b
	return &b, nil
}

func (r *MemoryBookingRepo) DeleteIf(_ context.Context, id, ownerID string, status models.BookingStatus) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.OwnerID != ownerID || b.Status != status {
		return nil, ErrNotFound
	}
	delete(r.bookings, id)
	return &b, nil
}

func containsStatus(list []models.BookingStatus, s models.BookingStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
