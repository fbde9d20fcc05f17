package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tecchohotel/service-booking/pkg/domain"
)

func newTestRecord(t *testing.T) *Record {
	t.Helper()
	rec, err := NewRecord(ConfirmParams{
		ID:            uuid.New(),
		BookingNumber: "BOOK-12345678",
		UserEmail:     "ana@example.com",
		UserName:      "ana",
		Draft:         completeDraft(),
		GuestName:     "Ana M. Lima",
		TotalCents:    44700,
		Contact:       validCheckout().Contact(),
		Payment:       validCheckout().Payment(),
		Now:           time.Date(2024, 5, 20, 23, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return rec
}

func TestNewRecord(t *testing.T) {
	rec := newTestRecord(t)

	assert.Equal(t, StatusConfirmed, rec.Status())
	assert.Equal(t, "2024-05-20", rec.BookingDate().String())
	assert.Equal(t, int64(44700), rec.TotalCents())
	assert.Equal(t, int64(44700), rec.Draft().TotalCents)
	assert.Equal(t, 3, rec.Nights())
	assert.Equal(t, "Ana M. Lima", rec.Draft().GuestName)
	assert.Equal(t, int64(1), rec.Version())
	assert.True(t, rec.IsOwnedBy("ANA@example.com"))
	assert.False(t, rec.IsOwnedBy(""))
}

func TestNewRecord_RequiresUser(t *testing.T) {
	_, err := NewRecord(ConfirmParams{ID: uuid.New(), BookingNumber: "BOOK-1", Draft: completeDraft()})
	assert.True(t, domain.IsNotAuthenticated(err))
}

func TestRecord_TransitionTo(t *testing.T) {
	rec := newTestRecord(t)

	err := rec.TransitionTo(StatusCheckedIn)
	assert.True(t, domain.IsInvalidState(err))
	assert.Equal(t, StatusConfirmed, rec.Status())

	err = rec.TransitionTo(BookingStatus("Lost"))
	assert.True(t, domain.IsValidation(err))

	require.NoError(t, rec.TransitionTo(StatusCancelled))
	assert.Equal(t, StatusCancelled, rec.Status())

	assert.True(t, domain.IsInvalidState(rec.Cancel()))
}

func TestRecord_CheckInFromUpcoming(t *testing.T) {
	rec := ReconstructRecord(uuid.New(), "BOOK-1", "a@b.c", "a", StatusUpcoming,
		completeDraft(), 3, GuestContact{}, PaymentSummary{}, MustParseDate("2024-05-01"),
		1, time.Now(), time.Now())

	require.NoError(t, rec.CheckIn())
	assert.Equal(t, StatusCheckedIn, rec.Status())
}
