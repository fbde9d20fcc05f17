package application

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/tecchohotel/service-booking/internal/domain/booking"
	"github.com/tecchohotel/service-booking/pkg/domain"
	"github.com/tecchohotel/service-booking/pkg/events"
)

// maxNumberAttempts bounds how often Confirm retries with a fresh booking
// number after a collision.
const maxNumberAttempts = 3

// SessionUser is the signed-in user a use case acts for.
type SessionUser struct {
	ID      uuid.UUID
	Email   string
	Name    string
	IsAdmin bool
}

// ListOptions controls how a user's bookings are returned.
type ListOptions struct {
	// SortRecent orders by booking date, newest first, instead of insertion order.
	SortRecent bool
	Page       int
	Limit      int
}

// LedgerService is the application service orchestrating ledger use cases.
type LedgerService struct {
	repo      bookingDomain.BookingRepository
	pricing   bookingDomain.PricingStrategy
	ids       bookingDomain.IDGenerator
	numbers   bookingDomain.BookingNumberGenerator
	publisher EventPublisher
	now       func() time.Time
	logger    *zap.Logger
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(
	repo bookingDomain.BookingRepository,
	pricing bookingDomain.PricingStrategy,
	ids bookingDomain.IDGenerator,
	numbers bookingDomain.BookingNumberGenerator,
	publisher EventPublisher,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		repo:      repo,
		pricing:   pricing,
		ids:       ids,
		numbers:   numbers,
		publisher: publisher,
		now:       time.Now,
		logger:    logger,
	}
}

// Confirm turns a draft into a Confirmed ledger record owned by user.
func (s *LedgerService) Confirm(ctx context.Context, user *SessionUser, draft bookingDomain.Draft, details bookingDomain.CheckoutDetails) (*BookingDTO, error) {
	if user == nil || user.Email == "" {
		return nil, domain.NewNotAuthenticatedError("sign in to confirm a booking")
	}
	if err := validateForSubmission(draft, &details); err != nil {
		return nil, err
	}

	total, err := s.pricing.Calculate(draft.PricingParams())
	if err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("pricing error: %v", err))
	}

	var rec *bookingDomain.Record
	for attempt := 1; ; attempt++ {
		rec, err = bookingDomain.NewRecord(bookingDomain.ConfirmParams{
			ID:            s.ids.NewID(),
			BookingNumber: s.numbers.Next(),
			UserEmail:     user.Email,
			UserName:      user.Name,
			Draft:         draft,
			GuestName:     details.Name,
			TotalCents:    total,
			Contact:       details.Contact(),
			Payment:       details.Payment(),
			Now:           s.now(),
		})
		if err != nil {
			return nil, err
		}

		err = s.repo.Save(ctx, rec)
		if err == nil {
			break
		}
		if domain.CodeOf(err) != domain.CodeConflict || attempt >= maxNumberAttempts {
			return nil, fmt.Errorf("failed to save booking: %w", err)
		}
		s.logger.Warn("booking number collision, retrying",
			zap.String("booking_number", rec.BookingNumber()),
			zap.Int("attempt", attempt),
		)
	}

	s.logger.Info("booking confirmed",
		zap.String("booking_id", rec.ID().String()),
		zap.String("booking_number", rec.BookingNumber()),
		zap.Int64("total_cents", rec.TotalCents()),
	)
	s.publishConfirmed(ctx, rec)

	result := toBookingDTO(rec)
	return &result, nil
}

// ListForUser returns the records owned by email in insertion order. An
// empty or unknown email yields an empty list.
func (s *LedgerService) ListForUser(ctx context.Context, email string) ([]BookingDTO, error) {
	records, err := s.repo.FindByUserEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return toBookingDTOs(records), nil
}

// ListUserBookings returns one page of the user's bookings.
func (s *LedgerService) ListUserBookings(ctx context.Context, email string, opts ListOptions) (*domain.PaginatedResult[BookingDTO], error) {
	dtos, err := s.ListForUser(ctx, email)
	if err != nil {
		return nil, err
	}
	if opts.SortRecent {
		sort.SliceStable(dtos, func(i, j int) bool {
			return dtos[j].BookingDate.Before(dtos[i].BookingDate)
		})
	}
	result := domain.NewPaginatedResult(domain.Paginate(dtos, opts.Page, opts.Limit), int64(len(dtos)), opts.Page, opts.Limit)
	return &result, nil
}

// GetBooking returns one record. Only its owner or an admin may see it.
func (s *LedgerService) GetBooking(ctx context.Context, user *SessionUser, id uuid.UUID) (*BookingDTO, error) {
	rec, err := s.findAuthorized(ctx, user, id)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(rec)
	return &result, nil
}

// SetStatus moves a record to status through the lifecycle table.
func (s *LedgerService) SetStatus(ctx context.Context, id uuid.UUID, status string) (*BookingDTO, error) {
	target, err := bookingDomain.ParseBookingStatus(status)
	if err != nil {
		return nil, err
	}
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.changeStatus(ctx, rec, func() error { return rec.TransitionTo(target) })
}

// ApplyAction applies a lifecycle action (check_in, cancel) to a record.
func (s *LedgerService) ApplyAction(ctx context.Context, id uuid.UUID, action bookingDomain.Action) (*BookingDTO, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.changeStatus(ctx, rec, func() error { return rec.Apply(action) })
}

// CheckIn checks the user's Upcoming booking in.
func (s *LedgerService) CheckIn(ctx context.Context, user *SessionUser, id uuid.UUID) (*BookingDTO, error) {
	rec, err := s.findAuthorized(ctx, user, id)
	if err != nil {
		return nil, err
	}
	return s.changeStatus(ctx, rec, rec.CheckIn)
}

// Cancel cancels the user's Confirmed or Upcoming booking.
func (s *LedgerService) Cancel(ctx context.Context, user *SessionUser, id uuid.UUID) (*BookingDTO, error) {
	rec, err := s.findAuthorized(ctx, user, id)
	if err != nil {
		return nil, err
	}
	return s.changeStatus(ctx, rec, rec.Cancel)
}

// Summary returns the headline numbers of the user's booking history.
func (s *LedgerService) Summary(ctx context.Context, email string) (*BookingSummaryDTO, error) {
	records, err := s.repo.FindByUserEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	summary := BookingSummaryDTO{TotalBookings: len(records), Currency: domain.CurrencyUSD}
	for _, rec := range records {
		if rec.Status().CountsAsStay() {
			summary.CompletedStays++
		}
		if rec.Status() == bookingDomain.StatusUpcoming {
			summary.UpcomingStays++
		}
		summary.TotalSpentCents += rec.TotalCents()
	}
	summary.TotalSpent = domain.FormatCents(summary.TotalSpentCents)
	return &summary, nil
}

// --- Admin methods ---

// ListAll returns one page of every record, newest first.
func (s *LedgerService) ListAll(ctx context.Context, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	records, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toBookingDTOs(records), total, page, limit)
	return &result, nil
}

// Stats returns record counts by status.
func (s *LedgerService) Stats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	stats := BookingStatsDTO{ByStatus: make(map[string]int64)}
	for _, status := range bookingDomain.AllStatuses() {
		stats.ByStatus[string(status)] = counts[string(status)]
		stats.Total += counts[string(status)]
	}
	return &stats, nil
}

func (s *LedgerService) findAuthorized(ctx context.Context, user *SessionUser, id uuid.UUID) (*bookingDomain.Record, error) {
	if user == nil || user.Email == "" {
		return nil, domain.NewNotAuthenticatedError("sign in to manage bookings")
	}
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin && !rec.IsOwnedBy(user.Email) {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}
	return rec, nil
}

func (s *LedgerService) changeStatus(ctx context.Context, rec *bookingDomain.Record, transition func() error) (*BookingDTO, error) {
	from := rec.Status()
	if err := transition(); err != nil {
		return nil, err
	}

	rec.IncrementVersion()
	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Info("booking status changed",
		zap.String("booking_id", rec.ID().String()),
		zap.String("from", string(from)),
		zap.String("to", string(rec.Status())),
	)
	evt := events.BookingStatusChangedEvent{
		BookingID:     rec.ID(),
		BookingNumber: rec.BookingNumber(),
		UserEmail:     rec.UserEmail(),
		FromStatus:    string(from),
		ToStatus:      string(rec.Status()),
		OccurredAt:    time.Now().UTC(),
	}
	publishEvent(ctx, s.publisher, s.logger, events.TopicBookingEvents, events.BookingStatusChanged, rec.ID().String(), evt)

	result := toBookingDTO(rec)
	return &result, nil
}

func (s *LedgerService) publishConfirmed(ctx context.Context, rec *bookingDomain.Record) {
	d := rec.Draft()
	evt := events.BookingConfirmedEvent{
		BookingID:     rec.ID(),
		BookingNumber: rec.BookingNumber(),
		UserEmail:     rec.UserEmail(),
		RoomID:        d.Room.ID,
		RoomName:      d.Room.Name,
		CheckIn:       d.CheckIn.String(),
		CheckOut:      d.CheckOut.String(),
		Nights:        rec.Nights(),
		RoomCount:     d.RoomCount,
		TotalCents:    rec.TotalCents(),
		Currency:      domain.CurrencyUSD,
		OccurredAt:    time.Now().UTC(),
	}
	publishEvent(ctx, s.publisher, s.logger, events.TopicBookingEvents, events.BookingConfirmed, rec.ID().String(), evt)
}
