package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	identityDomain "github.com/tecchohotel/service-booking/internal/domain/identity"
	"github.com/tecchohotel/service-booking/pkg/auth"
	"github.com/tecchohotel/service-booking/pkg/domain"
)

// LoginRequest holds the credentials submitted at login. They are not
// verified against any user store.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Success   bool      `json:"success"`
	User      UserDTO   `json:"user"`
	Token     string    `json:"token"`
	SessionID uuid.UUID `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IdentityService issues and ends mock sessions.
type IdentityService struct {
	sessions    identityDomain.SessionRepository
	jwtManager  *auth.JWTManager
	adminEmails map[string]bool
	now         func() time.Time
	logger      *zap.Logger
}

// NewIdentityService creates a new IdentityService. Emails in adminEmails
// sign in with the admin role.
func NewIdentityService(
	sessions identityDomain.SessionRepository,
	jwtManager *auth.JWTManager,
	adminEmails []string,
	logger *zap.Logger,
) *IdentityService {
	admins := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		admins[strings.ToLower(strings.TrimSpace(e))] = true
	}
	return &IdentityService{
		sessions:    sessions,
		jwtManager:  jwtManager,
		adminEmails: admins,
		now:         time.Now,
		logger:      logger,
	}
}

// Login derives a user from the email and opens a session. Any non-empty
// password is accepted.
func (s *IdentityService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if req.Password == "" {
		return nil, domain.NewValidationError("password is required")
	}

	role := auth.RoleGuest
	if s.adminEmails[strings.ToLower(strings.TrimSpace(req.Email))] {
		role = auth.RoleAdmin
	}

	now := s.now()
	user, err := identityDomain.NewUserFromEmail(req.Email, role, now)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.New()
	token, err := s.jwtManager.GenerateAccessToken(user.ID(), user.Email(), user.Name(), user.Role(), sessionID.String())
	if err != nil {
		return nil, err
	}

	session, err := identityDomain.NewSession(sessionID, user, token, now, s.jwtManager.AccessTTL())
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("user signed in",
		zap.String("user_id", user.ID().String()),
		zap.String("role", user.Role()),
		zap.String("session_id", sessionID.String()),
	)

	return &LoginResult{
		Success:   true,
		User:      toUserDTO(user),
		Token:     token,
		SessionID: sessionID,
		ExpiresAt: session.ExpiresAt(),
	}, nil
}

// Logout ends the session. Ending an unknown session is not an error.
func (s *IdentityService) Logout(ctx context.Context, sessionID string) error {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return domain.NewNotAuthenticatedError("no active session")
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user signed out", zap.String("session_id", sessionID))
	return nil
}

// CurrentUser returns the user of an active session.
func (s *IdentityService) CurrentUser(ctx context.Context, sessionID string) (*UserDTO, error) {
	session, err := s.activeSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	result := toUserDTO(session.User())
	return &result, nil
}

// IsActive reports whether sessionID names a live session.
func (s *IdentityService) IsActive(ctx context.Context, sessionID string) (bool, error) {
	_, err := s.activeSession(ctx, sessionID)
	if err != nil {
		if domain.IsNotAuthenticated(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *IdentityService) activeSession(ctx context.Context, sessionID string) (*identityDomain.Session, error) {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, domain.NewNotAuthenticatedError("no active session")
	}
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewNotAuthenticatedError("no active session")
		}
		return nil, err
	}
	if session.IsExpired(s.now()) {
		if err := s.sessions.Delete(ctx, id); err != nil {
			s.logger.Warn("failed to delete expired session",
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
		}
		return nil, domain.NewNotAuthenticatedError("session has expired")
	}
	return session, nil
}
