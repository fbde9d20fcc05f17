package booking

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tecchohotel/service-booking/pkg/domain"
)

// Record is the aggregate root of the ledger: a confirmed booking. Apart
// from its status it is never modified after confirmation.
type Record struct {
	id            uuid.UUID
	bookingNumber string
	userEmail     string
	userName      string
	status        BookingStatus
	draft         Draft
	nights        int
	contact       GuestContact
	payment       PaymentSummary
	bookingDate   Date

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// ConfirmParams holds everything stamped onto a draft at confirmation.
type ConfirmParams struct {
	ID            uuid.UUID
	BookingNumber string
	UserEmail     string
	UserName      string
	Draft         Draft
	GuestName     string
	TotalCents    int64
	Contact       GuestContact
	Payment       PaymentSummary
	Now           time.Time
}

// NewRecord creates a Confirmed record from a validated draft. The draft's
// total is replaced by params.TotalCents, the price computed at confirmation,
// and the guest name by the checkout name when one was given.
func NewRecord(params ConfirmParams) (*Record, error) {
	if params.ID == uuid.Nil {
		return nil, domain.NewValidationError("booking ID is required")
	}
	if params.BookingNumber == "" {
		return nil, domain.NewValidationError("booking number is required")
	}
	if strings.TrimSpace(params.UserEmail) == "" {
		return nil, domain.NewNotAuthenticatedError("a signed-in user is required")
	}
	if params.TotalCents < 0 {
		return nil, domain.NewValidationError("total cannot be negative")
	}

	draft := params.Draft
	draft.TotalCents = params.TotalCents
	if name := strings.TrimSpace(params.GuestName); name != "" {
		draft.GuestName = name
	}

	nights := draft.Nights()
	if nights < 1 {
		nights = 1
	}

	now := params.Now.UTC()
	return &Record{
		id:            params.ID,
		bookingNumber: params.BookingNumber,
		userEmail:     params.UserEmail,
		userName:      params.UserName,
		status:        StatusConfirmed,
		draft:         draft,
		nights:        nights,
		contact:       params.Contact,
		payment:       params.Payment,
		bookingDate:   NewDate(params.Now),
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructRecord rebuilds a Record from persistence data (no validation).
func ReconstructRecord(
	id uuid.UUID,
	bookingNumber string,
	userEmail string,
	userName string,
	status BookingStatus,
	draft Draft,
	nights int,
	contact GuestContact,
	payment PaymentSummary,
	bookingDate Date,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Record {
	return &Record{
		id:            id,
		bookingNumber: bookingNumber,
		userEmail:     userEmail,
		userName:      userName,
		status:        status,
		draft:         draft,
		nights:        nights,
		contact:       contact,
		payment:       payment,
		bookingDate:   bookingDate,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// --- Getters ---

// ID returns the record's unique identifier.
func (r *Record) ID() uuid.UUID { return r.id }

// BookingNumber returns the human-facing booking number.
func (r *Record) BookingNumber() string { return r.bookingNumber }

// UserEmail returns the owner's email.
func (r *Record) UserEmail() string { return r.userEmail }

// UserName returns the owner's display name at confirmation time.
func (r *Record) UserName() string { return r.userName }

// Status returns the current lifecycle status.
func (r *Record) Status() BookingStatus { return r.status }

// Draft returns the confirmed draft fields, including the stored total.
func (r *Record) Draft() Draft { return r.draft }

// TotalCents returns the total computed at confirmation.
func (r *Record) TotalCents() int64 { return r.draft.TotalCents }

// Nights returns the number of nights shown to the guest.
func (r *Record) Nights() int { return r.nights }

// Contact returns the guest contact details.
func (r *Record) Contact() GuestContact { return r.contact }

// Payment returns the payment summary.
func (r *Record) Payment() PaymentSummary { return r.payment }

// BookingDate returns the day the booking was confirmed.
func (r *Record) BookingDate() Date { return r.bookingDate }

// Version returns the entity version for optimistic locking.
func (r *Record) Version() int64 { return r.version }

// CreatedAt returns the confirmation timestamp.
func (r *Record) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns the last status-change timestamp.
func (r *Record) UpdatedAt() time.Time { return r.updatedAt }

// IsOwnedBy reports whether email owns the record.
func (r *Record) IsOwnedBy(email string) bool {
	return email != "" && strings.EqualFold(r.userEmail, email)
}

// --- Behavior ---

// Apply moves the record through the lifecycle table.
func (r *Record) Apply(action Action) error {
	next, err := r.status.Apply(action)
	if err != nil {
		return err
	}
	r.status = next
	r.updatedAt = time.Now().UTC()
	return nil
}

// TransitionTo moves the record to target if some action leads there.
func (r *Record) TransitionTo(target BookingStatus) error {
	if !target.IsValid() {
		return domain.NewValidationError("invalid booking status: " + string(target))
	}
	action, err := r.status.ActionTo(target)
	if err != nil {
		return err
	}
	return r.Apply(action)
}

// CheckIn transitions an Upcoming record to Checked-in.
func (r *Record) CheckIn() error { return r.Apply(ActionCheckIn) }

// Cancel transitions a Confirmed or Upcoming record to Cancelled.
func (r *Record) Cancel() error { return r.Apply(ActionCancel) }

// IncrementVersion bumps the version for optimistic locking.
func (r *Record) IncrementVersion() {
	r.version++
	r.updatedAt = time.Now().UTC()
}
