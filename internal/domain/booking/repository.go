package booking

import (
	"context"

	"github.com/google/uuid"
)

// BookingRepository defines the persistence contract for the ledger.
type BookingRepository interface {
	// FindByID retrieves a record by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Record, error)

	// FindByNumber retrieves a record by its booking number.
	FindByNumber(ctx context.Context, number string) (*Record, error)

	// FindByUserEmail retrieves every record owned by email in insertion order.
	FindByUserEmail(ctx context.Context, email string) ([]*Record, error)

	// ListAll retrieves all records with pagination, newest first (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Record, int64, error)

	// CountByStatus returns record counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Save appends a new record. A duplicate id or booking number is a
	// ConflictError.
	Save(ctx context.Context, record *Record) error

	// Update persists a status change with optimistic locking.
	Update(ctx context.Context, record *Record) error
}

// DraftRepository stores one unconfirmed draft per browsing session.
type DraftRepository interface {
	// Find returns the session's draft or a NotFoundError.
	Find(ctx context.Context, session string) (Draft, error)
	Save(ctx context.Context, session string, draft Draft) error
	Delete(ctx context.Context, session string) error
}
