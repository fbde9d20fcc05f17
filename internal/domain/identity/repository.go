package identity

import (
	"context"

	"github.com/google/uuid"
)

// SessionRepository defines persistence operations for login sessions.
type SessionRepository interface {
	Save(ctx context.Context, session *Session) error
	FindByID(ctx context.Context, id uuid.UUID) (*Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
