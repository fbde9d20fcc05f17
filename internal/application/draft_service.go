package application

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	bookingDomain "github.com/tecchohotel/service-booking/internal/domain/booking"
	roomDomain "github.com/tecchohotel/service-booking/internal/domain/room"
	"github.com/tecchohotel/service-booking/pkg/domain"
)

// StartDraftRequest selects the room a new draft is for.
type StartDraftRequest struct {
	RoomID int `json:"room_id" binding:"required"`
}

// DraftService manages the single unconfirmed draft of each browsing session.
type DraftService struct {
	drafts  bookingDomain.DraftRepository
	catalog roomDomain.Catalog
	pricing bookingDomain.PricingStrategy
	logger  *zap.Logger
}

// NewDraftService creates a new DraftService.
func NewDraftService(
	drafts bookingDomain.DraftRepository,
	catalog roomDomain.Catalog,
	pricing bookingDomain.PricingStrategy,
	logger *zap.Logger,
) *DraftService {
	return &DraftService{
		drafts:  drafts,
		catalog: catalog,
		pricing: pricing,
		logger:  logger,
	}
}

// StartDraft begins a draft for roomID with default values, replacing any
// draft the session already had.
func (s *DraftService) StartDraft(ctx context.Context, session string, roomID int) (*DraftDTO, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	room, err := s.catalog.Find(roomID)
	if err != nil {
		return nil, err
	}

	d := bookingDomain.NewDraft(room.Snapshot())
	if err := s.computeTotal(&d); err != nil {
		return nil, err
	}
	if err := s.drafts.Save(ctx, session, d); err != nil {
		return nil, err
	}

	s.logger.Debug("draft started", zap.String("session", session), zap.Int("room_id", roomID))
	result := toDraftDTO(d)
	return &result, nil
}

// GetDraft returns the session's draft.
func (s *DraftService) GetDraft(ctx context.Context, session string) (*DraftDTO, error) {
	d, err := s.load(ctx, session)
	if err != nil {
		return nil, err
	}
	result := toDraftDTO(d)
	return &result, nil
}

// UpdateFields sets one or more draft attributes. Values are type-checked
// only; if any value is rejected the draft is left unchanged. The total is
// recomputed after the update.
func (s *DraftService) UpdateFields(ctx context.Context, session string, fields map[string]interface{}) (*DraftDTO, error) {
	if len(fields) == 0 {
		return nil, domain.NewValidationError("no fields to update")
	}
	d, err := s.load(ctx, session)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := d.SetField(bookingDomain.DraftField(name), fields[name]); err != nil {
			return nil, err
		}
	}

	if err := s.computeTotal(&d); err != nil {
		return nil, err
	}
	if err := s.drafts.Save(ctx, session, d); err != nil {
		return nil, err
	}
	result := toDraftDTO(d)
	return &result, nil
}

// ValidateDraft checks the draft for submission. When payment is non-nil the
// checkout details are validated too.
func (s *DraftService) ValidateDraft(ctx context.Context, session string, payment *bookingDomain.CheckoutDetails) error {
	d, err := s.load(ctx, session)
	if err != nil {
		return err
	}
	return validateForSubmission(d, payment)
}

// ComputeTotal prices the draft and stores the total on it.
func (s *DraftService) ComputeTotal(ctx context.Context, session string) (*DraftDTO, error) {
	d, err := s.load(ctx, session)
	if err != nil {
		return nil, err
	}
	if err := s.computeTotal(&d); err != nil {
		return nil, err
	}
	if err := s.drafts.Save(ctx, session, d); err != nil {
		return nil, err
	}
	result := toDraftDTO(d)
	return &result, nil
}

// DiscardDraft removes the session's draft.
func (s *DraftService) DiscardDraft(ctx context.Context, session string) error {
	if err := requireSession(session); err != nil {
		return err
	}
	return s.drafts.Delete(ctx, session)
}

func (s *DraftService) load(ctx context.Context, session string) (bookingDomain.Draft, error) {
	if err := requireSession(session); err != nil {
		return bookingDomain.Draft{}, err
	}
	return s.drafts.Find(ctx, session)
}

func (s *DraftService) computeTotal(d *bookingDomain.Draft) error {
	total, err := s.pricing.Calculate(d.PricingParams())
	if err != nil {
		return domain.NewValidationError(fmt.Sprintf("pricing error: %v", err))
	}
	d.TotalCents = total
	return nil
}

func validateForSubmission(d bookingDomain.Draft, payment *bookingDomain.CheckoutDetails) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if payment != nil {
		return payment.Validate()
	}
	return nil
}

func requireSession(session string) error {
	if strings.TrimSpace(session) == "" {
		return domain.NewValidationError("a browsing session id is required")
	}
	return nil
}
