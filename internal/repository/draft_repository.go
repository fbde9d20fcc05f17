package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	bookingDomain "github.com/tecchohotel/service-booking/internal/domain/booking"
	"github.com/tecchohotel/service-booking/internal/storage"
	"github.com/tecchohotel/service-booking/pkg/domain"
)

// KVDraftRepository implements DraftRepository on a key-value store.
type KVDraftRepository struct {
	store storage.Store
}

// NewKVDraftRepository creates a new KVDraftRepository.
func NewKVDraftRepository(store storage.Store) *KVDraftRepository {
	return &KVDraftRepository{store: store}
}

func (r *KVDraftRepository) Find(ctx context.Context, session string) (bookingDomain.Draft, error) {
	raw, err := r.store.Get(ctx, storage.DraftKey(session))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return bookingDomain.Draft{}, domain.NewNotFoundError("Draft", session)
		}
		return bookingDomain.Draft{}, fmt.Errorf("failed to find draft: %w", err)
	}

	var d bookingDomain.Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return bookingDomain.Draft{}, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return d, nil
}

func (r *KVDraftRepository) Save(ctx context.Context, session string, d bookingDomain.Draft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	return r.store.Put(ctx, storage.DraftKey(session), raw)
}

func (r *KVDraftRepository) Delete(ctx context.Context, session string) error {
	return r.store.Delete(ctx, storage.DraftKey(session))
}
