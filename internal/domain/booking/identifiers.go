package booking

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// BookingNumberPrefix starts every booking number.
const BookingNumberPrefix = "BOOK-"

// IDGenerator issues record identifiers.
type IDGenerator interface {
	NewID() uuid.UUID
}

// UUIDGenerator issues random UUIDs.
type UUIDGenerator struct{}

// NewID returns a random (v4) UUID.
func (UUIDGenerator) NewID() uuid.UUID { return uuid.New() }

// BookingNumberGenerator issues human-facing booking numbers.
type BookingNumberGenerator interface {
	Next() string
}

// TimestampNumberGenerator issues "BOOK-" + the last 8 digits of a
// millisecond timestamp. The timestamp never repeats within a process: a
// call in the same or an earlier millisecond than the previous one uses
// previous+1.
type TimestampNumberGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewTimestampNumberGenerator creates a generator; now defaults to time.Now.
func NewTimestampNumberGenerator(now func() time.Time) *TimestampNumberGenerator {
	if now == nil {
		now = time.Now
	}
	return &TimestampNumberGenerator{now: now}
}

// Next returns the next booking number.
func (g *TimestampNumberGenerator) Next() string {
	g.mu.Lock()
	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	g.mu.Unlock()

	digits := strconv.FormatInt(ms, 10)
	if len(digits) > 8 {
		digits = digits[len(digits)-8:]
	}
	return BookingNumberPrefix + digits
}
