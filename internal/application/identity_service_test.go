package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tecchohotel/service-booking/internal/repository"
	"github.com/tecchohotel/service-booking/internal/storage"
	"github.com/tecchohotel/service-booking/pkg/auth"
	"github.com/tecchohotel/service-booking/pkg/domain"
)

func newIdentityService(t *testing.T) (*IdentityService, *auth.JWTManager) {
	t.Helper()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	sessions := repository.NewKVSessionRepository(storage.NewMemoryStore())
	return NewIdentityService(sessions, jwtManager, []string{"Ops@Example.com"}, zap.NewNop()), jwtManager
}

func TestIdentityService_Login(t *testing.T) {
	svc, jwtManager := newIdentityService(t)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

	res, err := svc.Login(context.Background(), LoginRequest{Email: "ana.lima@example.com", Password: "anything"})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "ana.lima", res.User.Name)
	assert.Equal(t, "ana.lima@example.com", res.User.Email)
	assert.Equal(t, auth.RoleGuest, res.User.Role)
	assert.Equal(t, "2024-06-01", res.User.JoinDate.String())

	claims, err := jwtManager.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, res.SessionID.String(), claims.SessionID())
}

func TestIdentityService_LoginIsDeterministicPerEmail(t *testing.T) {
	svc, _ := newIdentityService(t)

	a, err := svc.Login(context.Background(), LoginRequest{Email: "ana@example.com", Password: "x"})
	require.NoError(t, err)
	b, err := svc.Login(context.Background(), LoginRequest{Email: "ana@example.com", Password: "y"})
	require.NoError(t, err)

	assert.Equal(t, a.User.ID, b.User.ID)
	assert.NotEqual(t, a.SessionID, b.SessionID)
}

func TestIdentityService_AdminRole(t *testing.T) {
	svc, _ := newIdentityService(t)

	res, err := svc.Login(context.Background(), LoginRequest{Email: "ops@example.com", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, res.User.Role)
}

func TestIdentityService_LoginValidation(t *testing.T) {
	svc, _ := newIdentityService(t)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ana@example.com"})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.Login(context.Background(), LoginRequest{Email: "ana", Password: "x"})
	assert.True(t, domain.IsValidation(err))
}

func TestIdentityService_LogoutEndsSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newIdentityService(t)

	res, err := svc.Login(ctx, LoginRequest{Email: "ana@example.com", Password: "x"})
	require.NoError(t, err)
	sid := res.SessionID.String()

	active, err := svc.IsActive(ctx, sid)
	require.NoError(t, err)
	assert.True(t, active)

	me, err := svc.CurrentUser(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, "ana", me.Name)

	require.NoError(t, svc.Logout(ctx, sid))

	active, err = svc.IsActive(ctx, sid)
	require.NoError(t, err)
	assert.False(t, active)

	_, err = svc.CurrentUser(ctx, sid)
	assert.True(t, domain.IsNotAuthenticated(err))
}

func TestIdentityService_ExpiredSessionIsInactive(t *testing.T) {
	ctx := context.Background()
	svc, _ := newIdentityService(t)
	start := time.Now()
	svc.now = func() time.Time { return start }

	res, err := svc.Login(ctx, LoginRequest{Email: "ana@example.com", Password: "x"})
	require.NoError(t, err)

	svc.now = func() time.Time { return start.Add(2 * time.Hour) }
	active, err := svc.IsActive(ctx, res.SessionID.String())
	require.NoError(t, err)
	assert.False(t, active)
}

func TestIdentityService_ExpiredSessionIsDeleted(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	sessions := repository.NewKVSessionRepository(store)
	svc := NewIdentityService(sessions, auth.NewJWTManager("test-secret", time.Hour), nil, zap.NewNop())
	start := time.Now()
	svc.now = func() time.Time { return start }

	res, err := svc.Login(ctx, LoginRequest{Email: "ana@example.com", Password: "x"})
	require.NoError(t, err)
	keys, err := store.List(ctx, "session:")
	require.NoError(t, err)
	require.Len(t, keys, 1)

	svc.now = func() time.Time { return start.Add(2 * time.Hour) }
	_, err = svc.CurrentUser(ctx, res.SessionID.String())
	assert.True(t, domain.IsNotAuthenticated(err))

	_, err = sessions.FindByID(ctx, res.SessionID)
	assert.True(t, domain.IsNotFound(err))
	keys, err = store.List(ctx, "session:")
	require.NoError(t, err)
	assert.Empty(t, keys)
}
