package models

import "time"

// StatusNotification tells a customer their booking changed status.
type StatusNotification struct {
	BookingID  string        `json:"bookingId"`
	UserID     string        `json:"userId"`
	Status     BookingStatus `json:"status"`
	AdminNotes string        `json:"adminNotes,omitempty"`
	Title      string        `json:"title"`
	Message    string        `json:"message"`
	CreatedAt  time.Time     `json:"createdAt"`
}
