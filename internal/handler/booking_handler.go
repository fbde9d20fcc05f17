package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tecchohotel/service-booking/internal/application"
	"github.com/tecchohotel/service-booking/pkg/auth"
	"github.com/tecchohotel/service-booking/pkg/middleware"
	"github.com/tecchohotel/service-booking/pkg/response"
)

// BookingHandler handles HTTP requests for a signed-in user's bookings.
type BookingHandler struct {
	service *application.LedgerService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.LedgerService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager, sessions middleware.SessionValidator) {
	authMW := middleware.AuthMiddleware(jwtManager, sessions)

	bookings := r.Group("/api/v1/bookings")
	bookings.Use(authMW)
	{
		bookings.GET("", h.ListBookings)
		bookings.GET("/summary", h.Summary)
		bookings.GET("/export", h.Export)
		bookings.GET("/:id", h.GetBooking)
		bookings.POST("/:id/cancel", h.CancelBooking)
		bookings.POST("/:id/check-in", h.CheckIn)
	}
}

// ListBookings handles GET /api/v1/bookings.
// sort=recent orders by booking date, newest first.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	user := sessionUser(c)
	if user == nil {
		response.Unauthorized(c, "authentication required")
		return
	}

	page, limit := parsePagination(c)
	result, err := h.service.ListUserBookings(c.Request.Context(), user.Email, application.ListOptions{
		SortRecent: c.Query("sort") == "recent",
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// Summary handles GET /api/v1/bookings/summary.
func (h *BookingHandler) Summary(c *gin.Context) {
	user := sessionUser(c)
	if user == nil {
		response.Unauthorized(c, "authentication required")
		return
	}

	result, err := h.service.Summary(c.Request.Context(), user.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Export handles GET /api/v1/bookings/export and returns an xlsx workbook.
func (h *BookingHandler) Export(c *gin.Context) {
	user := sessionUser(c)
	if user == nil {
		response.Unauthorized(c, "authentication required")
		return
	}

	data, err := h.service.ExportForUser(c.Request.Context(), user.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, "bookings.xlsx"))
	c.Data(http.StatusOK, application.XLSXContentType, data)
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), sessionUser(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.service.Cancel(c.Request.Context(), sessionUser(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CheckIn handles POST /api/v1/bookings/:id/check-in.
func (h *BookingHandler) CheckIn(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.service.CheckIn(c.Request.Context(), sessionUser(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
