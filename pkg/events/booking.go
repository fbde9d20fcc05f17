// Package events holds the topic names and payloads exchanged over Kafka.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics.
const (
	TopicBookingEvents   = "booking.events"
	TopicFrontDeskEvents = "frontdesk.events"
)

// Event types published by the booking service.
const (
	BookingConfirmed     = "booking.confirmed"
	BookingStatusChanged = "booking.status_changed"
)

// Event types published by the front desk.
const (
	FrontDeskGuestCheckedIn   = "frontdesk.guest_checked_in"
	FrontDeskBookingCancelled = "frontdesk.booking_cancelled"
)

// BookingConfirmedEvent is emitted after a record is appended to the ledger.
type BookingConfirmedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	UserEmail     string    `json:"user_email"`
	RoomID        int       `json:"room_id"`
	RoomName      string    `json:"room_name"`
	CheckIn       string    `json:"check_in"`
	CheckOut      string    `json:"check_out"`
	Nights        int       `json:"nights"`
	RoomCount     int       `json:"room_count"`
	TotalCents    int64     `json:"total_cents"`
	Currency      string    `json:"currency"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingStatusChangedEvent is emitted after a ledger status transition.
type BookingStatusChangedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	UserEmail     string    `json:"user_email"`
	FromStatus    string    `json:"from_status"`
	ToStatus      string    `json:"to_status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// FrontDeskEvent asks the ledger to move a booking through its lifecycle.
type FrontDeskEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	Desk       string    `json:"desk,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
