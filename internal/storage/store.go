// Package storage provides the key-value store behind sessions, drafts and
// the document ledger.
package storage

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("key not found")

// Entry is one stored key with its JSON value.
type Entry struct {
	Key   string
	Value []byte
}

// UpdateFunc receives the current value (nil when absent) and returns the
// value to store.
type UpdateFunc func(current []byte) ([]byte, error)

// Store is a string-keyed store of JSON documents.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// List returns every entry whose key starts with prefix, ordered by key.
	List(ctx context.Context, prefix string) ([]Entry, error)
	// Update atomically replaces the value at key with fn(current).
	Update(ctx context.Context, key string, fn UpdateFunc) error
}

// Key layout.
const (
	SessionPrefix = "session:"
	DraftPrefix   = "draft:"
	LedgerKey     = "bookings"
)

// SessionKey returns the key of a login session.
func SessionKey(id string) string { return SessionPrefix + id }

// DraftKey returns the key of a browsing session's draft.
func DraftKey(session string) string { return DraftPrefix + session }

func hasPrefix(key, prefix string) bool {
	return prefix == "" || strings.HasPrefix(key, prefix)
}
