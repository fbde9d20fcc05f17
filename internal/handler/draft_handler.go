package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tecchohotel/service-booking/internal/application"
	bookingDomain "github.com/tecchohotel/service-booking/internal/domain/booking"
	"github.com/tecchohotel/service-booking/pkg/response"
)

// ValidateDraftRequest optionally carries checkout details to validate
// alongside the draft.
type ValidateDraftRequest struct {
	Payment *bookingDomain.CheckoutDetails `json:"payment"`
}

// DraftHandler handles HTTP requests for the browsing session's draft.
// Every route requires the X-Session-ID header.
type DraftHandler struct {
	service *application.DraftService
}

// NewDraftHandler creates a new DraftHandler.
func NewDraftHandler(service *application.DraftService) *DraftHandler {
	return &DraftHandler{service: service}
}

// RegisterRoutes registers the draft routes.
func (h *DraftHandler) RegisterRoutes(r *gin.RouterGroup) {
	draft := r.Group("/api/v1/draft")
	{
		draft.PUT("", h.StartDraft)
		draft.GET("", h.GetDraft)
		draft.PATCH("", h.UpdateDraft)
		draft.POST("/validate", h.ValidateDraft)
		draft.DELETE("", h.DiscardDraft)
	}
}

// StartDraft handles PUT /api/v1/draft.
func (h *DraftHandler) StartDraft(c *gin.Context) {
	var req application.StartDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.StartDraft(c.Request.Context(), browsingSession(c), req.RoomID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetDraft handles GET /api/v1/draft.
func (h *DraftHandler) GetDraft(c *gin.Context) {
	result, err := h.service.GetDraft(c.Request.Context(), browsingSession(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateDraft handles PATCH /api/v1/draft with a {field: value} object.
func (h *DraftHandler) UpdateDraft(c *gin.Context) {
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateFields(c.Request.Context(), browsingSession(c), fields)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ValidateDraft handles POST /api/v1/draft/validate.
func (h *DraftHandler) ValidateDraft(c *gin.Context) {
	var req ValidateDraftRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}

	if err := h.service.ValidateDraft(c.Request.Context(), browsingSession(c), req.Payment); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"valid": true})
}

// DiscardDraft handles DELETE /api/v1/draft.
func (h *DraftHandler) DiscardDraft(c *gin.Context) {
	if err := h.service.DiscardDraft(c.Request.Context(), browsingSession(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
