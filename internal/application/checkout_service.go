package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	bookingDomain "github.com/tecchohotel/service-booking/internal/domain/booking"
	"github.com/tecchohotel/service-booking/pkg/domain"
)

// CheckoutService confirms a session's draft after a simulated payment.
type CheckoutService struct {
	drafts       bookingDomain.DraftRepository
	ledger       *LedgerService
	paymentDelay time.Duration
	logger       *zap.Logger
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(
	drafts bookingDomain.DraftRepository,
	ledger *LedgerService,
	paymentDelay time.Duration,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		drafts:       drafts,
		ledger:       ledger,
		paymentDelay: paymentDelay,
		logger:       logger,
	}
}

// Checkout validates the draft and details, waits out the payment delay,
// confirms the booking and discards the draft. If ctx ends during the wait
// nothing is written.
func (s *CheckoutService) Checkout(ctx context.Context, session string, user *SessionUser, details bookingDomain.CheckoutDetails) (*BookingDTO, error) {
	if user == nil || user.Email == "" {
		return nil, domain.NewNotAuthenticatedError("sign in to complete checkout")
	}
	if err := requireSession(session); err != nil {
		return nil, err
	}

	draft, err := s.drafts.Find(ctx, session)
	if err != nil {
		return nil, err
	}
	if err := validateForSubmission(draft, &details); err != nil {
		return nil, err
	}

	if err := s.waitForPayment(ctx); err != nil {
		s.logger.Info("checkout abandoned during payment", zap.String("session", session))
		return nil, err
	}

	result, err := s.ledger.Confirm(ctx, user, draft, details)
	if err != nil {
		return nil, err
	}

	if err := s.drafts.Delete(ctx, session); err != nil {
		s.logger.Warn("failed to discard confirmed draft",
			zap.String("session", session),
			zap.Error(err),
		)
	}
	return result, nil
}

func (s *CheckoutService) waitForPayment(ctx context.Context) error {
	if s.paymentDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.paymentDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
