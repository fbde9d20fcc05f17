package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tecchohotel/service-booking/internal/application"
	"github.com/tecchohotel/service-booking/pkg/auth"
	"github.com/tecchohotel/service-booking/pkg/middleware"
	"github.com/tecchohotel/service-booking/pkg/response"
)

// AuthHandler handles HTTP requests for sign-in and sign-out.
type AuthHandler struct {
	service *application.IdentityService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service *application.IdentityService) *AuthHandler {
	return &AuthHandler{service: service}
}

// RegisterRoutes registers the auth routes.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager, h.service)

	group := r.Group("/api/v1/auth")
	{
		group.POST("/login", h.Login)
		group.POST("/logout", authMW, h.Logout)
		group.GET("/me", authMW, h.Me)
	}
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req application.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Logout handles POST /api/v1/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID, _ := middleware.GetSessionID(c)
	if err := h.service.Logout(c.Request.Context(), sessionID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "signed out"})
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	sessionID, _ := middleware.GetSessionID(c)
	user, err := h.service.CurrentUser(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, user)
}
