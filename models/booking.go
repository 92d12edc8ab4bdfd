package models

import (
	"fmt"
	"time"
)

// BookingStatus is the lifecycle state of a persisted booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusApproved  BookingStatus = "approved"
	StatusRejected  BookingStatus = "rejected"
	StatusCompleted BookingStatus = "completed"
)

// AllStatuses lists every booking status in lifecycle order.
var AllStatuses = []BookingStatus{StatusPending, StatusApproved, StatusRejected, StatusCompleted}

// ParseStatus validates a raw status string.
func ParseStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case StatusPending, StatusApproved, StatusRejected, StatusCompleted:
		return BookingStatus(s), nil
	default:
		return "", fmt.Errorf("unknown booking status: %q", s)
	}
}

// allowedTransitions only holds admin transitions; cancellation removes the booking instead.
var allowedTransitions = map[BookingStatus]map[BookingStatus]bool{
	StatusPending:   {StatusApproved: true, StatusRejected: true},
	StatusApproved:  {StatusCompleted: true},
	StatusRejected:  {},
	StatusCompleted: {},
}

// CanTransition reports whether an admin may move a booking from one status to another.
func CanTransition(from, to BookingStatus) bool {
	m, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return m[to]
}

// SourcesFor returns the statuses a booking may be in to move to the target status.
func SourcesFor(to BookingStatus) []BookingStatus {
	var out []BookingStatus
	for _, from := range AllStatuses {
		if CanTransition(from, to) {
			out = append(out, from)
		}
	}
	return out
}

// IsTerminal reports whether no further admin transition is possible.
func (s BookingStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// Booking is a persisted request for a photography service.
type Booking struct {
	ID                     string        `bson:"_id" json:"_id"`
	OwnerID                string        `bson:"user" json:"user"`
	ServiceType            string        `bson:"serviceType" json:"serviceType"`
	PackageType            string        `bson:"packageType" json:"packageType"`
	Date                   string        `bson:"date" json:"date"` // YYYY-MM-DD
	Location               string        `bson:"location" json:"location"`
	AdditionalRequirements string        `bson:"additionalRequirements,omitempty" json:"additionalRequirements,omitempty"`
	Price                  float64       `bson:"price" json:"price"`
	Status                 BookingStatus `bson:"status" json:"status"`
	AdminNotes             string        `bson:"adminNotes,omitempty" json:"adminNotes,omitempty"`
	CreatedAt              time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt              time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// BookingRequest is the draft submitted to create a booking.
type BookingRequest struct {
	ServiceType            string  `json:"serviceType"`
	PackageType            string  `json:"packageType"`
	Date                   string  `json:"date"`
	Location               string  `json:"location"`
	AdditionalRequirements string  `json:"additionalRequirements,omitempty"`
	Price                  float64 `json:"price"`
}

// MissingFields returns the names of required draft fields that are empty.
func (r BookingRequest) MissingFields() []string {
	var missing []string
	if r.ServiceType == "" {
		missing = append(missing, "serviceType")
	}
	if r.PackageType == "" {
		missing = append(missing, "packageType")
	}
	if r.Date == "" {
		missing = append(missing, "date")
	}
	if r.Location == "" {
		missing = append(missing, "location")
	}
	return missing
}

// StatusUpdate is the admin payload for a status transition.
type StatusUpdate struct {
	Status     BookingStatus `json:"status" binding:"required"`
	AdminNotes string        `json:"adminNotes"`
}

// CancelResult is returned when an owner cancels a pending booking.
type CancelResult struct {
	Message string   `json:"message"`
	Booking *Booking `json:"booking,omitempty"`
}
