package room

import (
	"strconv"

	"github.com/tecchohotel/service-booking/pkg/domain"
)

// Catalog is the read-only list of rooms guests can book.
type Catalog interface {
	List() []*Room
	Find(id int) (*Room, error)
}

// StaticCatalog is a Catalog fixed at construction time.
type StaticCatalog struct {
	rooms []*Room
	byID  map[int]*Room
}

// NewStaticCatalog builds a catalog over rooms, keeping their order.
func NewStaticCatalog(rooms ...*Room) *StaticCatalog {
	c := &StaticCatalog{byID: make(map[int]*Room, len(rooms))}
	for _, r := range rooms {
		if _, dup := c.byID[r.ID()]; dup {
			continue
		}
		c.rooms = append(c.rooms, r)
		c.byID[r.ID()] = r
	}
	return c
}

// DefaultCatalog returns the hotel's three room types.
func DefaultCatalog() *StaticCatalog {
	return NewStaticCatalog(
		mustRoom(1, "Deluxe Suite", 29900,
			"https://images.unsplash.com/photo-1611892440504-42a792e24d32?w=400",
			"Luxurious suite with ocean view",
			"WiFi", "TV", "AC", "Breakfast"),
		mustRoom(2, "Standard Room", 14900,
			"https://images.unsplash.com/photo-1566073771259-6a8506099945?w=400",
			"Comfortable room for business travelers",
			"WiFi", "TV", "Work Desk"),
		mustRoom(3, "Family Room", 39900,
			"https://images.unsplash.com/photo-1590490360182-c33d57733427?w=400",
			"Spacious room for families",
			"WiFi", "TV", "Kitchen", "2 Beds"),
	)
}

// List returns every room in catalog order.
func (c *StaticCatalog) List() []*Room {
	return append([]*Room(nil), c.rooms...)
}

// Find returns the room with the given id.
func (c *StaticCatalog) Find(id int) (*Room, error) {
	r, ok := c.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("room", strconv.Itoa(id))
	}
	return r, nil
}

func mustRoom(id int, name string, priceCents int64, image, description string, amenities ...string) *Room {
	r, err := NewRoom(id, name, priceCents, image, description, amenities...)
	if err != nil {
		panic(err)
	}
	return r
}
