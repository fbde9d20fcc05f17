package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tecchohotel/service-booking/internal/application"
	bookingDomain "github.com/tecchohotel/service-booking/internal/domain/booking"
	"github.com/tecchohotel/service-booking/pkg/auth"
	"github.com/tecchohotel/service-booking/pkg/middleware"
	"github.com/tecchohotel/service-booking/pkg/response"
)

// CheckoutHandler confirms the browsing session's draft.
type CheckoutHandler struct {
	service *application.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(service *application.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

// RegisterRoutes registers the checkout route.
func (h *CheckoutHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager, sessions middleware.SessionValidator) {
	r.POST("/api/v1/checkout", middleware.AuthMiddleware(jwtManager, sessions), h.Checkout)
}

// Checkout handles POST /api/v1/checkout.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var details bookingDomain.CheckoutDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Checkout(c.Request.Context(), browsingSession(c), sessionUser(c), details)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}
