package booking

import (
	"fmt"

	"github.com/tecchohotel/service-booking/pkg/domain"
)

// BookingStatus represents the current state of a ledger record.
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "Confirmed"
	StatusUpcoming  BookingStatus = "Upcoming"
	StatusCheckedIn BookingStatus = "Checked-in"
	StatusCompleted BookingStatus = "Completed"
	StatusCancelled BookingStatus = "Cancelled"
)

// Action is a lifecycle command applied to a record.
type Action string

const (
	ActionCheckIn Action = "check_in"
	ActionCancel  Action = "cancel"
)

// lifecycle is the state machine: status × action → next status.
// Upcoming and Completed are recognised but no action leads into them.
var lifecycle = map[BookingStatus]map[Action]BookingStatus{
	StatusConfirmed: {ActionCancel: StatusCancelled},
	StatusUpcoming:  {ActionCheckIn: StatusCheckedIn, ActionCancel: StatusCancelled},
	StatusCheckedIn: {},
	StatusCompleted: {},
	StatusCancelled: {},
}

// AllStatuses lists every recognised status in display order.
func AllStatuses() []BookingStatus {
	return []BookingStatus{StatusConfirmed, StatusUpcoming, StatusCheckedIn, StatusCompleted, StatusCancelled}
}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, exists := lifecycle[s]
	return exists
}

// Apply returns the status reached by applying action, or an
// InvalidStateError when the table has no such edge.
func (s BookingStatus) Apply(action Action) (BookingStatus, error) {
	next, ok := lifecycle[s][action]
	if !ok {
		return "", domain.NewInvalidStateError(string(s), string(action.target()))
	}
	return next, nil
}

// ActionTo returns the action that moves s to target.
func (s BookingStatus) ActionTo(target BookingStatus) (Action, error) {
	for action, next := range lifecycle[s] {
		if next == target {
			return action, nil
		}
	}
	return "", domain.NewInvalidStateError(string(s), string(target))
}

// CanTransitionTo returns true if some action moves s to target.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	_, err := s.ActionTo(target)
	return err == nil
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s BookingStatus) IsTerminal() bool {
	return len(lifecycle[s]) == 0
}

// CanBeCancelled returns true if the record can be cancelled from this status.
func (s BookingStatus) CanBeCancelled() bool {
	_, ok := lifecycle[s][ActionCancel]
	return ok
}

// CountsAsStay reports whether the status represents a stay that happened.
func (s BookingStatus) CountsAsStay() bool {
	return s == StatusCompleted || s == StatusCheckedIn
}

// String returns the string representation of the status.
func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus converts a string to a BookingStatus.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", domain.NewValidationError(fmt.Sprintf("invalid booking status: %s", s))
	}
	return status, nil
}

// ParseAction converts a string to an Action.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionCheckIn, ActionCancel:
		return Action(s), nil
	}
	return "", domain.NewValidationError(fmt.Sprintf("invalid booking action: %s", s))
}

func (a Action) target() BookingStatus {
	switch a {
	case ActionCheckIn:
		return StatusCheckedIn
	case ActionCancel:
		return StatusCancelled
	}
	return BookingStatus(a)
}
