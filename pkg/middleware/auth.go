package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tecchohotel/service-booking/pkg/auth"
	"github.com/tecchohotel/service-booking/pkg/response"
)

const (
	ctxUserID    = "auth.user_id"
	ctxUserEmail = "auth.user_email"
	ctxUserName  = "auth.user_name"
	ctxUserRole  = "auth.user_role"
	ctxSessionID = "auth.session_id"
)

// SessionValidator reports whether a session is still active. Tokens whose
// session was logged out are rejected even before they expire.
type SessionValidator interface {
	IsActive(ctx context.Context, sessionID string) (bool, error)
}

// AuthMiddleware requires a valid bearer token. sessions may be nil.
func AuthMiddleware(jwtManager *auth.JWTManager, sessions SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			response.Unauthorized(c, "authorization required")
			return
		}

		claims, err := jwtManager.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			return
		}

		if sessions != nil {
			active, err := sessions.IsActive(c.Request.Context(), claims.SessionID())
			if err != nil {
				response.Error(c, err)
				return
			}
			if !active {
				response.Unauthorized(c, "session has ended")
				return
			}
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserEmail, claims.Email)
		c.Set(ctxUserName, claims.Name)
		c.Set(ctxUserRole, claims.Role)
		c.Set(ctxSessionID, claims.SessionID())
		c.Next()
	}
}

// RequireRole rejects callers whose role is not among roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetUserRole(c)
		if !ok {
			response.Unauthorized(c, "authorization required")
			return
		}
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		response.Forbidden(c, "insufficient permissions")
	}
}

// GetUserID returns the authenticated user's id.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// GetUserEmail returns the authenticated user's email.
func GetUserEmail(c *gin.Context) (string, bool) { return getString(c, ctxUserEmail) }

// GetUserName returns the authenticated user's display name.
func GetUserName(c *gin.Context) (string, bool) { return getString(c, ctxUserName) }

// GetUserRole returns the authenticated user's role.
func GetUserRole(c *gin.Context) (string, bool) { return getString(c, ctxUserRole) }

// GetSessionID returns the session the request's token belongs to.
func GetSessionID(c *gin.Context) (string, bool) { return getString(c, ctxSessionID) }

func getString(c *gin.Context, key string) (string, bool) {
	v, ok := c.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
