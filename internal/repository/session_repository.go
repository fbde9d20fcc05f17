package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	identityDomain "github.com/tecchohotel/service-booking/internal/domain/identity"
	"github.com/tecchohotel/service-booking/internal/storage"
	"github.com/tecchohotel/service-booking/pkg/domain"
)

// sessionDocument is the stored form of a login session.
type sessionDocument struct {
	ID        uuid.UUID    `json:"id"`
	User      userDocument `json:"user"`
	Token     string       `json:"token"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

type userDocument struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	JoinDate time.Time `json:"join_date"`
}

// KVSessionRepository implements SessionRepository on a key-value store.
type KVSessionRepository struct {
	store storage.Store
}

// NewKVSessionRepository creates a new KVSessionRepository.
func NewKVSessionRepository(store storage.Store) *KVSessionRepository {
	return &KVSessionRepository{store: store}
}

func (r *KVSessionRepository) Save(ctx context.Context, s *identityDomain.Session) error {
	u := s.User()
	raw, err := json.Marshal(sessionDocument{
		ID: s.ID(),
		User: userDocument{
			ID:       u.ID(),
			Email:    u.Email(),
			Name:     u.Name(),
			Role:     u.Role(),
			JoinDate: u.JoinDate(),
		},
		Token:     s.Token(),
		CreatedAt: s.CreatedAt(),
		ExpiresAt: s.ExpiresAt(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return r.store.Put(ctx, storage.SessionKey(s.ID().String()), raw)
}

func (r *KVSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*identityDomain.Session, error) {
	raw, err := r.store.Get(ctx, storage.SessionKey(id.String()))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, domain.NewNotFoundError("Session", id.String())
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	var doc sessionDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	user := identityDomain.ReconstructUser(doc.User.ID, doc.User.Email, doc.User.Name, doc.User.Role, doc.User.JoinDate)
	return identityDomain.ReconstructSession(doc.ID, user, doc.Token, doc.CreatedAt, doc.ExpiresAt), nil
}

func (r *KVSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Delete(ctx, storage.SessionKey(id.String()))
}
