package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloudEvent_ParseRoundTrip(t *testing.T) {
	type payload struct {
		BookingNumber string `json:"booking_number"`
	}

	ce, err := NewCloudEvent("service-booking", "booking.confirmed", payload{BookingNumber: "BOOK-12345678"})
	require.NoError(t, err)
	assert.Equal(t, "1.0", ce.SpecVersion)
	assert.NotEmpty(t, ce.ID)

	raw := []byte(`{"specversion":"1.0","id":"1","source":"s","type":"booking.confirmed","data":{"booking_number":"BOOK-1"}}`)
	parsed, err := ParseCloudEvent(raw)
	require.NoError(t, err)

	var got payload
	require.NoError(t, parsed.ParseData(&got))
	assert.Equal(t, "BOOK-1", got.BookingNumber)
}

func TestParseCloudEvent_RejectsMissingType(t *testing.T) {
	_, err := ParseCloudEvent([]byte(`{"id":"1"}`))
	assert.Error(t, err)

	_, err = ParseCloudEvent([]byte(`not json`))
	assert.Error(t, err)
}
