package identity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session binds a signed-in user to the token issued at login.
type Session struct {
	id        uuid.UUID
	user      *User
	token     string
	createdAt time.Time
	expiresAt time.Time
}

// NewSession creates a session for user valid for ttl.
func NewSession(id uuid.UUID, user *User, token string, now time.Time, ttl time.Duration) (*Session, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("session ID is required")
	}
	if user == nil {
		return nil, fmt.Errorf("session user is required")
	}
	if token == "" {
		return nil, fmt.Errorf("session token is required")
	}
	now = now.UTC()
	return &Session{
		id:        id,
		user:      user,
		token:     token,
		createdAt: now,
		expiresAt: now.Add(ttl),
	}, nil
}

// ReconstructSession rebuilds a Session from persistence.
func ReconstructSession(id uuid.UUID, user *User, token string, createdAt, expiresAt time.Time) *Session {
	return &Session{id: id, user: user, token: token, createdAt: createdAt, expiresAt: expiresAt}
}

func (s *Session) ID() uuid.UUID        { return s.id }
func (s *Session) User() *User          { return s.user }
func (s *Session) Token() string        { return s.token }
func (s *Session) CreatedAt() time.Time { return s.createdAt }
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }

// IsExpired reports whether the session has outlived its token.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.expiresAt)
}
