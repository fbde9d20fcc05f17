package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tecchohotel/service-booking/internal/application"
	"github.com/tecchohotel/service-booking/pkg/auth"
	"github.com/tecchohotel/service-booking/pkg/middleware"
)

// SessionHeader carries the browsing-session key a draft is stored under.
const SessionHeader = "X-Session-ID"

func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}

// sessionUser returns the authenticated caller, or nil.
func sessionUser(c *gin.Context) *application.SessionUser {
	email, ok := middleware.GetUserEmail(c)
	if !ok || email == "" {
		return nil
	}
	id, _ := middleware.GetUserID(c)
	name, _ := middleware.GetUserName(c)
	role, _ := middleware.GetUserRole(c)
	return &application.SessionUser{
		ID:      id,
		Email:   email,
		Name:    name,
		IsAdmin: role == auth.RoleAdmin,
	}
}

func browsingSession(c *gin.Context) string {
	return c.GetHeader(SessionHeader)
}
