package application

import (
	roomDomain "github.com/tecchohotel/service-booking/internal/domain/room"
)

// RoomService exposes the read-only room catalog.
type RoomService struct {
	catalog roomDomain.Catalog
}

// NewRoomService creates a new RoomService.
func NewRoomService(catalog roomDomain.Catalog) *RoomService {
	return &RoomService{catalog: catalog}
}

// ListRooms returns every room in catalog order.
func (s *RoomService) ListRooms() []RoomDTO {
	rooms := s.catalog.List()
	dtos := make([]RoomDTO, len(rooms))
	for i, r := range rooms {
		dtos[i] = toRoomDTO(r)
	}
	return dtos
}

// GetRoom returns a single room.
func (s *RoomService) GetRoom(id int) (*RoomDTO, error) {
	r, err := s.catalog.Find(id)
	if err != nil {
		return nil, err
	}
	result := toRoomDTO(r)
	return &result, nil
}
