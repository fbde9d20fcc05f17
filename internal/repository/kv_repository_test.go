package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingDomain "github.com/tecchohotel/service-booking/internal/domain/booking"
	identityDomain "github.com/tecchohotel/service-booking/internal/domain/identity"
	"github.com/tecchohotel/service-booking/internal/storage"
	"github.com/tecchohotel/service-booking/pkg/auth"
	"github.com/tecchohotel/service-booking/pkg/domain"
)

func TestKVSessionRepository(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	repo := NewKVSessionRepository(store)

	user, err := identityDomain.NewUserFromEmail("ana@example.com", auth.RoleAdmin, time.Now())
	require.NoError(t, err)
	s, err := identityDomain.NewSession(uuid.New(), user, "signed.jwt.token", time.Now(), time.Hour)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, s))

	entries, err := store.List(ctx, storage.SessionPrefix)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "session:"+s.ID().String(), entries[0].Key)

	got, err := repo.FindByID(ctx, s.ID())
	require.NoError(t, err)
	assert.Equal(t, "signed.jwt.token", got.Token())
	assert.Equal(t, user.ID(), got.User().ID())
	assert.Equal(t, "ana", got.User().Name())
	assert.True(t, got.User().IsAdmin())

	require.NoError(t, repo.Delete(ctx, s.ID()))
	_, err = repo.FindByID(ctx, s.ID())
	assert.True(t, domain.IsNotFound(err))
}

func TestKVDraftRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewKVDraftRepository(storage.NewMemoryStore())

	_, err := repo.Find(ctx, "browser-1")
	assert.True(t, domain.IsNotFound(err))

	d := bookingDomain.NewDraft(bookingDomain.RoomSnapshot{ID: 1, Name: "Deluxe Suite", PriceCents: 29900})
	d.CheckIn = bookingDomain.MustParseDate("2024-06-01")
	require.NoError(t, repo.Save(ctx, "browser-1", d))

	got, err := repo.Find(ctx, "browser-1")
	require.NoError(t, err)
	assert.Equal(t, d, got)

	_, err = repo.Find(ctx, "browser-2")
	assert.True(t, domain.IsNotFound(err))

	require.NoError(t, repo.Delete(ctx, "browser-1"))
	_, err = repo.Find(ctx, "browser-1")
	assert.True(t, domain.IsNotFound(err))
}
