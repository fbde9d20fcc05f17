package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tecchohotel/service-booking/internal/application"
	"github.com/tecchohotel/service-booking/pkg/response"
)

// RoomHandler serves the room catalog.
type RoomHandler struct {
	service *application.RoomService
}

// NewRoomHandler creates a new RoomHandler.
func NewRoomHandler(service *application.RoomService) *RoomHandler {
	return &RoomHandler{service: service}
}

// RegisterRoutes registers the public catalog routes.
func (h *RoomHandler) RegisterRoutes(r *gin.RouterGroup) {
	rooms := r.Group("/api/v1/rooms")
	{
		rooms.GET("", h.ListRooms)
		rooms.GET("/:id", h.GetRoom)
	}
}

// ListRooms handles GET /api/v1/rooms.
func (h *RoomHandler) ListRooms(c *gin.Context) {
	response.Success(c, h.service.ListRooms())
}

// GetRoom handles GET /api/v1/rooms/:id.
func (h *RoomHandler) GetRoom(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid room ID")
		return
	}

	room, err := h.service.GetRoom(id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, room)
}
