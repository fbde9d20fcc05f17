package booking

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var bookingNumberPattern = regexp.MustCompile(`^BOOK-\d{8}$`)

func TestTimestampNumberGenerator_Format(t *testing.T) {
	fixed := time.UnixMilli(1717200000123)
	g := NewTimestampNumberGenerator(func() time.Time { return fixed })

	n := g.Next()
	assert.Regexp(t, bookingNumberPattern, n)
	assert.Equal(t, "BOOK-00000123", n)
}

func TestTimestampNumberGenerator_UniqueWithinSameMillisecond(t *testing.T) {
	fixed := time.UnixMilli(1717212345678)
	g := NewTimestampNumberGenerator(func() time.Time { return fixed })

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		n := g.Next()
		assert.Regexp(t, bookingNumberPattern, n)
		assert.False(t, seen[n], "duplicate %s", n)
		seen[n] = true
	}
}
