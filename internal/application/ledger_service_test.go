package application

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	bookingDomain "github.com/tecchohotel/service-booking/internal/domain/booking"
	"github.com/tecchohotel/service-booking/pkg/domain"
	"github.com/tecchohotel/service-booking/pkg/events"
)

func TestLedgerService_Confirm(t *testing.T) {
	f := newFixture(t)
	f.ledger.now = func() time.Time { return time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC) }

	b := confirm(t, f, ana)

	assert.Equal(t, "497.00", b.Total)
	assert.Equal(t, int64(49700), b.TotalCents)
	assert.Equal(t, "Confirmed", b.Status)
	assert.Equal(t, "BOOK-00000001", b.BookingNumber)
	assert.Equal(t, "ana@example.com", b.UserEmail)
	assert.Equal(t, "ana", b.UserName)
	assert.Equal(t, "2024-05-20", b.BookingDate.String())
	assert.Equal(t, 3, b.Nights)
	assert.Equal(t, "Credit Card", b.PaymentMethod)
	assert.Equal(t, "1234", b.PaymentLastFour)
	assert.Equal(t, "Ana Lima", b.GuestName)
	assert.NotEqual(t, uuid.Nil, b.ID)

	list, err := f.ledger.ListForUser(context.Background(), "ana@example.com")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	assert.Equal(t, []string{events.BookingConfirmed}, f.publisher.types())
	assert.Equal(t, events.TopicBookingEvents, f.publisher.topics[0])

	var evt events.BookingConfirmedEvent
	require.NoError(t, f.publisher.events[0].ParseData(&evt))
	assert.Equal(t, b.ID, evt.BookingID)
	assert.Equal(t, int64(49700), evt.TotalCents)
	assert.Equal(t, "2024-06-01", evt.CheckIn)
}

func TestLedgerService_ConfirmStoresTotalComputedAtConfirmation(t *testing.T) {
	f := newFixture(t)
	d := standardRoomDraft()
	d.TotalCents = 1

	b, err := f.ledger.Confirm(context.Background(), ana, d, checkoutDetails())
	require.NoError(t, err)
	assert.Equal(t, int64(49700), b.TotalCents)
}

func TestLedgerService_ConfirmRequiresUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledger.Confirm(context.Background(), nil, standardRoomDraft(), checkoutDetails())
	assert.True(t, domain.IsNotAuthenticated(err))

	list, err := f.ledger.ListAll(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Zero(t, list.Total)
}

func TestLedgerService_ConfirmRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)

	d := standardRoomDraft()
	d.CheckOut = bookingDomain.Date{}
	_, err := f.ledger.Confirm(context.Background(), ana, d, checkoutDetails())
	assert.True(t, domain.IsValidation(err))

	details := checkoutDetails()
	details.CardNumber = "1234"
	_, err = f.ledger.Confirm(context.Background(), ana, standardRoomDraft(), details)
	assert.True(t, domain.IsValidation(err))

	assert.Empty(t, f.publisher.types())
}

func TestLedgerService_ConfirmRetriesOnNumberCollision(t *testing.T) {
	f := newFixture(t)
	f.numbers.script = []string{"BOOK-00000042", "BOOK-00000042", "BOOK-00000043"}

	first := confirm(t, f, ana)
	second := confirm(t, f, ana)

	assert.Equal(t, "BOOK-00000042", first.BookingNumber)
	assert.Equal(t, "BOOK-00000043", second.BookingNumber)
}

func TestLedgerService_ConfirmGivesUpAfterRepeatedCollisions(t *testing.T) {
	f := newFixture(t)
	f.numbers.script = []string{"BOOK-1", "BOOK-1", "BOOK-1", "BOOK-1"}

	confirm(t, f, ana)
	_, err := f.ledger.Confirm(context.Background(), ana, standardRoomDraft(), checkoutDetails())
	assert.Equal(t, domain.CodeConflict, domain.CodeOf(err))
}

func TestLedgerService_ConfirmSurvivesPublishFailure(t *testing.T) {
	f := newFixture(t)
	f.ledger.publisher = failingPublisher{}

	b := confirm(t, f, ana)
	assert.Equal(t, "Confirmed", b.Status)
}

func TestLedgerService_ListForUser(t *testing.T) {
	f := newFixture(t)
	bob := &SessionUser{Email: "bob@example.com", Name: "bob"}

	day := 0
	f.ledger.now = func() time.Time {
		day++
		return time.Date(2024, 5, day, 9, 0, 0, 0, time.UTC)
	}
	first := confirm(t, f, ana)
	confirm(t, f, bob)
	second := confirm(t, f, ana)

	list, err := f.ledger.ListForUser(context.Background(), "ana@example.com")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)

	recent, err := f.ledger.ListUserBookings(context.Background(), "ana@example.com", ListOptions{SortRecent: true, Page: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), recent.Total)
	require.Len(t, recent.Items, 1)
	assert.Equal(t, second.ID, recent.Items[0].ID)

	for _, email := range []string{"", "nobody@example.com"} {
		none, err := f.ledger.ListForUser(context.Background(), email)
		require.NoError(t, err)
		assert.Empty(t, none)
	}
}

func TestLedgerService_SetStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed can be cancelled", func(t *testing.T) {
		f := newFixture(t)
		b := confirm(t, f, ana)

		got, err := f.ledger.SetStatus(ctx, b.ID, "Cancelled")
		require.NoError(t, err)
		assert.Equal(t, "Cancelled", got.Status)
		assert.Equal(t, b.TotalCents, got.TotalCents)
		assert.Equal(t, []string{events.BookingConfirmed, events.BookingStatusChanged}, f.publisher.types())
	})

	t.Run("confirmed cannot be checked in", func(t *testing.T) {
		f := newFixture(t)
		b := confirm(t, f, ana)

		_, err := f.ledger.SetStatus(ctx, b.ID, "Checked-in")
		assert.True(t, domain.IsInvalidState(err))

		list, _ := f.ledger.ListForUser(ctx, ana.Email)
		assert.Equal(t, "Confirmed", list[0].Status)
	})

	t.Run("upcoming can be checked in", func(t *testing.T) {
		f := newFixture(t)
		b := confirm(t, f, ana)
		forceStatus(t, f, b.ID, bookingDomain.StatusUpcoming)

		got, err := f.ledger.SetStatus(ctx, b.ID, "Checked-in")
		require.NoError(t, err)
		assert.Equal(t, "Checked-in", got.Status)
	})

	t.Run("cancelled is final", func(t *testing.T) {
		f := newFixture(t)
		b := confirm(t, f, ana)
		_, err := f.ledger.SetStatus(ctx, b.ID, "Cancelled")
		require.NoError(t, err)

		_, err = f.ledger.SetStatus(ctx, b.ID, "Cancelled")
		assert.True(t, domain.IsInvalidState(err))
	})

	t.Run("unknown id", func(t *testing.T) {
		f := newFixture(t)
		confirm(t, f, ana)

		_, err := f.ledger.SetStatus(ctx, uuid.New(), "Cancelled")
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("unknown status", func(t *testing.T) {
		f := newFixture(t)
		b := confirm(t, f, ana)

		_, err := f.ledger.SetStatus(ctx, b.ID, "Lost")
		assert.True(t, domain.IsValidation(err))
	})
}

func TestLedgerService_OwnerActions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := confirm(t, f, ana)
	mallory := &SessionUser{Email: "mallory@example.com"}

	_, err := f.ledger.GetBooking(ctx, mallory, b.ID)
	assert.Equal(t, domain.CodeForbidden, domain.CodeOf(err))

	_, err = f.ledger.Cancel(ctx, mallory, b.ID)
	assert.Equal(t, domain.CodeForbidden, domain.CodeOf(err))

	_, err = f.ledger.CheckIn(ctx, ana, b.ID)
	assert.True(t, domain.IsInvalidState(err))

	got, err := f.ledger.Cancel(ctx, ana, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cancelled", got.Status)

	admin := &SessionUser{Email: "ops@example.com", IsAdmin: true}
	seen, err := f.ledger.GetBooking(ctx, admin, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cancelled", seen.Status)
}

func TestLedgerService_SummaryAndStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a := confirm(t, f, ana)
	b := confirm(t, f, ana)
	c := confirm(t, f, ana)
	confirm(t, f, ana)
	forceStatus(t, f, a.ID, bookingDomain.StatusCompleted)
	forceStatus(t, f, b.ID, bookingDomain.StatusUpcoming)
	_, err := f.ledger.Cancel(ctx, ana, c.ID)
	require.NoError(t, err)

	summary, err := f.ledger.Summary(ctx, ana.Email)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.TotalBookings)
	assert.Equal(t, 1, summary.CompletedStays)
	assert.Equal(t, 1, summary.UpcomingStays)
	assert.Equal(t, "1988.00", summary.TotalSpent)

	stats, err := f.ledger.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(1), stats.ByStatus["Completed"])
	assert.Equal(t, int64(1), stats.ByStatus["Upcoming"])
	assert.Equal(t, int64(1), stats.ByStatus["Cancelled"])
	assert.Equal(t, int64(1), stats.ByStatus["Confirmed"])
	assert.Equal(t, int64(0), stats.ByStatus["Checked-in"])
}

func TestLedgerService_ExportForUser(t *testing.T) {
	f := newFixture(t)
	b := confirm(t, f, ana)

	raw, err := f.ledger.ExportForUser(context.Background(), ana.Email)
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()

	rows, err := wb.GetRows(ExportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Booking Number", rows[0][0])
	assert.Equal(t, b.BookingNumber, rows[1][0])
	assert.Equal(t, "Confirmed", rows[1][1])
	assert.Equal(t, "Standard Room", rows[1][3])
	assert.Equal(t, "497", rows[1][14])
}

func TestBookingDTO_JSONShape(t *testing.T) {
	f := newFixture(t)
	f.ledger = NewLedgerService(f.repo, bookingDomain.NewStandardPricingStrategy(), bookingDomain.UUIDGenerator{}, f.numbers, nil, zap.NewNop())
	b := confirm(t, f, ana)

	raw, err := json.Marshal(b)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "497.00", m["total"])
	assert.Equal(t, "2024-06-01", m["check_in"])
	assert.Equal(t, "Confirmed", m["status"])
	assert.NotContains(t, m, "card_number")
	assert.NotContains(t, m, "cvv")
}
