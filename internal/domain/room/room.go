package room

import (
	"fmt"

	"github.com/tecchohotel/service-booking/internal/domain/booking"
)

// Room is a bookable room type in the hotel catalog.
type Room struct {
	id          int
	name        string
	priceCents  int64
	image       string
	description string
	amenities   []string
}

// NewRoom creates a catalog room.
func NewRoom(id int, name string, priceCents int64, image, description string, amenities ...string) (*Room, error) {
	if id <= 0 {
		return nil, fmt.Errorf("room ID must be positive")
	}
	if name == "" {
		return nil, fmt.Errorf("room name is required")
	}
	if priceCents < 0 {
		return nil, fmt.Errorf("room price cannot be negative")
	}
	return &Room{
		id:          id,
		name:        name,
		priceCents:  priceCents,
		image:       image,
		description: description,
		amenities:   append([]string(nil), amenities...),
	}, nil
}

// Getters.
func (r *Room) ID() int               { return r.id }
func (r *Room) Name() string          { return r.name }
func (r *Room) PriceCents() int64     { return r.priceCents }
func (r *Room) Image() string         { return r.image }
func (r *Room) Description() string   { return r.description }
func (r *Room) Amenities() []string   { return append([]string(nil), r.amenities...) }

// Snapshot returns the copy of the room carried by a draft.
func (r *Room) Snapshot() booking.RoomSnapshot {
	return booking.RoomSnapshot{
		ID:          r.id,
		Name:        r.name,
		PriceCents:  r.priceCents,
		Image:       r.image,
		Description: r.description,
	}
}
