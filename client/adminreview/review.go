// Package adminreview drives the admin dashboard: a status filter over the full booking list
// and the approve, reject and complete actions.
package adminreview

import (
	"context"
	"sync"

	"shutterbook/client/api"
	"shutterbook/models"
)

// Store is the part of the booking store the review flow uses.
type Store interface {
	FetchAllBookings(ctx context.Context, filter models.BookingStatus) ([]models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus, notes string) (*models.Booking, error)
	AllBookings() []models.Booking
}

type Flow struct {
	store Store

	mu     sync.Mutex
	filter models.BookingStatus
}

func New(store Store) *Flow {
	return &Flow{store: store}
}

// Filter returns the selected status, "" meaning all.
func (f *Flow) Filter() models.BookingStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filter
}

// Load fetches the bookings matching the current filter.
func (f *Flow) Load(ctx context.Context) ([]models.Booking, error) {
	return f.store.FetchAllBookings(ctx, f.Filter())
}

// SetFilter selects a status ("" for all) and reloads. An unknown status is rejected before
// anything changes.
func (f *Flow) SetFilter(ctx context.Context, status models.BookingStatus) ([]models.Booking, error) {
	if status != "" {
		if _, err := models.ParseStatus(string(status)); err != nil {
			return []models.Booking{}, api.Local(api.KindValidation, err.Error())
		}
	}
	f.mu.Lock()
	f.filter = status
	f.mu.Unlock()
	return f.store.FetchAllBookings(ctx, status)
}

// Transition moves a booking to a new status. The store refreshes the list with the current
// filter afterwards.
func (f *Flow) Transition(ctx context.Context, id string, status models.BookingStatus, notes string) (*models.Booking, error) {
	return f.store.UpdateBookingStatus(ctx, id, status, notes)
}

func (f *Flow) Approve(ctx context.Context, id, notes string) (*models.Booking, error) {
	return f.Transition(ctx, id, models.StatusApproved, notes)
}

func (f *Flow) Reject(ctx context.Context, id, notes string) (*models.Booking, error) {
	return f.Transition(ctx, id, models.StatusRejected, notes)
}

func (f *Flow) Complete(ctx context.Context, id, notes string) (*models.Booking, error) {
	return f.Transition(ctx, id, models.StatusCompleted, notes)
}

// Counts tallies the loaded list per status for the dashboard tabs.
func (f *Flow) Counts() map[models.BookingStatus]int {
	counts := make(map[models.BookingStatus]int, len(models.AllStatuses))
	for _, s := range models.AllStatuses {
		counts[s] = 0
	}
	for _, b := range f.store.AllBookings() {
		counts[b.Status]++
	}
	return counts
}
