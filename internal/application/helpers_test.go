package application

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	bookingDomain "github.com/tecchohotel/service-booking/internal/domain/booking"
	roomDomain "github.com/tecchohotel/service-booking/internal/domain/room"
	"github.com/tecchohotel/service-booking/internal/repository"
	"github.com/tecchohotel/service-booking/internal/storage"
	"github.com/tecchohotel/service-booking/pkg/kafka"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []kafka.CloudEvent
	topics []string
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	p.topics = append(p.topics, topic)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type failingPublisher struct{}

func (failingPublisher) PublishEvent(context.Context, string, kafka.CloudEvent) error {
	return fmt.Errorf("broker unavailable")
}

// scriptedNumbers hands out the given numbers in order, then sequential ones.
type scriptedNumbers struct {
	mu      sync.Mutex
	script  []string
	counter int
}

func (g *scriptedNumbers) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.script) > 0 {
		n := g.script[0]
		g.script = g.script[1:]
		return n
	}
	g.counter++
	return fmt.Sprintf("BOOK-%08d", g.counter)
}

type fixture struct {
	store     *storage.MemoryStore
	repo      *repository.KVBookingRepository
	drafts    *repository.KVDraftRepository
	publisher *recordingPublisher
	numbers   *scriptedNumbers
	ledger    *LedgerService
	draftSvc  *DraftService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := storage.NewMemoryStore()
	f := &fixture{
		store:     store,
		repo:      repository.NewKVBookingRepository(store),
		drafts:    repository.NewKVDraftRepository(store),
		publisher: &recordingPublisher{},
		numbers:   &scriptedNumbers{},
	}
	pricing := bookingDomain.NewStandardPricingStrategy()
	f.ledger = NewLedgerService(f.repo, pricing, bookingDomain.UUIDGenerator{}, f.numbers, f.publisher, zap.NewNop())
	f.draftSvc = NewDraftService(f.drafts, roomDomain.DefaultCatalog(), pricing, zap.NewNop())
	return f
}

var ana = &SessionUser{ID: uuid.New(), Email: "ana@example.com", Name: "ana"}

func standardRoomDraft() bookingDomain.Draft {
	d := bookingDomain.NewDraft(bookingDomain.RoomSnapshot{ID: 2, Name: "Standard Room", PriceCents: 14900})
	d.CheckIn = bookingDomain.MustParseDate("2024-06-01")
	d.CheckOut = bookingDomain.MustParseDate("2024-06-04")
	d.FoodService = true
	d.GuestName = "Ana Lima"
	d.GuestAge = 34
	return d
}

func checkoutDetails() bookingDomain.CheckoutDetails {
	return bookingDomain.CheckoutDetails{
		Name:       "Ana Lima",
		Email:      "ana@example.com",
		Phone:      "+1 555 0100",
		CardNumber: "4111 1111 1111 1234",
		Expiry:     "12/28",
		CVV:        "123",
	}
}

func confirm(t *testing.T, f *fixture, user *SessionUser) *BookingDTO {
	t.Helper()
	b, err := f.ledger.Confirm(context.Background(), user, standardRoomDraft(), checkoutDetails())
	require.NoError(t, err)
	return b
}

// forceStatus rewrites a stored record's status, for states no action reaches.
func forceStatus(t *testing.T, f *fixture, id uuid.UUID, status bookingDomain.BookingStatus) {
	t.Helper()
	ctx := context.Background()
	rec, err := f.repo.FindByID(ctx, id)
	require.NoError(t, err)
	forced := bookingDomain.ReconstructRecord(rec.ID(), rec.BookingNumber(), rec.UserEmail(), rec.UserName(),
		status, rec.Draft(), rec.Nights(), rec.Contact(), rec.Payment(), rec.BookingDate(),
		rec.Version()+1, rec.CreatedAt(), time.Now().UTC())
	require.NoError(t, f.repo.Update(ctx, forced))
}
