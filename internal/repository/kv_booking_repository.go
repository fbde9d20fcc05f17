package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	bookingDomain "github.com/tecchohotel/service-booking/internal/domain/booking"
	"github.com/tecchohotel/service-booking/internal/storage"
	"github.com/tecchohotel/service-booking/pkg/domain"
)

// ledgerDocument is one element of the JSON array stored under the ledger key.
type ledgerDocument struct {
	ID            uuid.UUID          `json:"id"`
	BookingNumber string             `json:"booking_number"`
	UserEmail     string             `json:"user_email"`
	UserName      string             `json:"user_name"`
	Status        string             `json:"status"`
	BookingDate   bookingDomain.Date `json:"booking_date"`
	Nights        int                `json:"nights"`
	bookingDomain.Draft
	bookingDomain.GuestContact
	bookingDomain.PaymentSummary
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// KVBookingRepository keeps the whole ledger as one ordered JSON array in a
// key-value store.
type KVBookingRepository struct {
	store storage.Store
}

// NewKVBookingRepository creates a new KVBookingRepository.
func NewKVBookingRepository(store storage.Store) *KVBookingRepository {
	return &KVBookingRepository{store: store}
}

func (r *KVBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Record, error) {
	docs, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		if docs[i].ID == id {
			return toRecordFromDocument(&docs[i])
		}
	}
	return nil, domain.NewNotFoundError("Booking", id.String())
}

func (r *KVBookingRepository) FindByNumber(ctx context.Context, number string) (*bookingDomain.Record, error) {
	docs, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		if docs[i].BookingNumber == number {
			return toRecordFromDocument(&docs[i])
		}
	}
	return nil, domain.NewNotFoundError("Booking", number)
}

func (r *KVBookingRepository) FindByUserEmail(ctx context.Context, email string) ([]*bookingDomain.Record, error) {
	records := []*bookingDomain.Record{}
	if email == "" {
		return records, nil
	}
	docs, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		if !strings.EqualFold(docs[i].UserEmail, email) {
			continue
		}
		rec, err := toRecordFromDocument(&docs[i])
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *KVBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Record, int64, error) {
	docs, err := r.load(ctx)
	if err != nil {
		return nil, 0, err
	}

	newestFirst := make([]ledgerDocument, len(docs))
	for i := range docs {
		newestFirst[len(docs)-1-i] = docs[i]
	}
	window := domain.Paginate(newestFirst, page, limit)

	records := make([]*bookingDomain.Record, len(window))
	for i := range window {
		rec, err := toRecordFromDocument(&window[i])
		if err != nil {
			return nil, 0, err
		}
		records[i] = rec
	}
	return records, int64(len(docs)), nil
}

func (r *KVBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	docs, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64)
	for i := range docs {
		counts[docs[i].Status]++
	}
	return counts, nil
}

func (r *KVBookingRepository) Save(ctx context.Context, rec *bookingDomain.Record) error {
	doc := toLedgerDocument(rec)
	return r.store.Update(ctx, storage.LedgerKey, func(current []byte) ([]byte, error) {
		docs, err := decodeLedger(current)
		if err != nil {
			return nil, err
		}
		for i := range docs {
			if docs[i].ID == doc.ID || docs[i].BookingNumber == doc.BookingNumber {
				return nil, domain.NewConflictError(fmt.Sprintf("booking %s already exists", doc.BookingNumber))
			}
		}
		return json.Marshal(append(docs, doc))
	})
}

func (r *KVBookingRepository) Update(ctx context.Context, rec *bookingDomain.Record) error {
	expectedVersion := rec.Version() - 1
	return r.store.Update(ctx, storage.LedgerKey, func(current []byte) ([]byte, error) {
		docs, err := decodeLedger(current)
		if err != nil {
			return nil, err
		}
		for i := range docs {
			if docs[i].ID != rec.ID() {
				continue
			}
			if docs[i].Version != expectedVersion {
				return nil, domain.NewConflictError("booking was modified by another transaction")
			}
			docs[i].Status = string(rec.Status())
			docs[i].Version = rec.Version()
			docs[i].UpdatedAt = rec.UpdatedAt()
			return json.Marshal(docs)
		}
		return nil, domain.NewConflictError("booking was modified by another transaction")
	})
}

func (r *KVBookingRepository) load(ctx context.Context) ([]ledgerDocument, error) {
	raw, err := r.store.Get(ctx, storage.LedgerKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	return decodeLedger(raw)
}

func decodeLedger(raw []byte) ([]ledgerDocument, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var docs []ledgerDocument
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode ledger: %w", err)
	}
	return docs, nil
}

func toLedgerDocument(rec *bookingDomain.Record) ledgerDocument {
	return ledgerDocument{
		ID:             rec.ID(),
		BookingNumber:  rec.BookingNumber(),
		UserEmail:      rec.UserEmail(),
		UserName:       rec.UserName(),
		Status:         string(rec.Status()),
		BookingDate:    rec.BookingDate(),
		Nights:         rec.Nights(),
		Draft:          rec.Draft(),
		GuestContact:   rec.Contact(),
		PaymentSummary: rec.Payment(),
		Version:        rec.Version(),
		CreatedAt:      rec.CreatedAt(),
		UpdatedAt:      rec.UpdatedAt(),
	}
}

func toRecordFromDocument(doc *ledgerDocument) (*bookingDomain.Record, error) {
	status, err := bookingDomain.ParseBookingStatus(doc.Status)
	if err != nil {
		return nil, err
	}
	return bookingDomain.ReconstructRecord(
		doc.ID,
		doc.BookingNumber,
		doc.UserEmail,
		doc.UserName,
		status,
		doc.Draft,
		doc.Nights,
		doc.GuestContact,
		doc.PaymentSummary,
		doc.BookingDate,
		doc.Version,
		doc.CreatedAt,
		doc.UpdatedAt,
	), nil
}
