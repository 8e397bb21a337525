package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/chess-portal/models"
)

func testPlayer() *models.Player {
	return &models.Player{
		Account: models.Account{UserID: 7, Email: "ana@example.com", Kind: models.KindPlayer, Active: true},
		ID:      3,
		Name:    "Ana",
		Surname: "Lopez",
	}
}

func TestStore_SetGetClear(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemoryKV(), "sid-1", nil)

	assert.False(t, s.IsAuthenticated(ctx))
	assert.Equal(t, models.Session{}, s.Get(ctx))

	require.NoError(t, s.Set(ctx, testPlayer(), "tok"))
	assert.True(t, s.IsAuthenticated(ctx))

	got := s.Get(ctx)
	assert.Equal(t, "tok", got.Token)
	player, ok := got.Identity.(*models.Player)
	require.True(t, ok, "identity should decode as a player")
	assert.Equal(t, 3, player.ID)
	assert.Equal(t, "Ana Lopez", player.DisplayName())

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))
	assert.False(t, s.IsAuthenticated(ctx))
	assert.Nil(t, s.Get(ctx).Identity)
}

func TestStore_SetRejectsPartialSessions(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemoryKV(), "sid", nil)

	assert.ErrorIs(t, s.Set(ctx, testPlayer(), ""), ErrEmptyToken)
	assert.ErrorIs(t, s.Set(ctx, nil, "tok"), ErrNoIdentity)
	assert.False(t, s.IsAuthenticated(ctx))
}

func TestStore_NamespacesAreIndependent(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	a := NewStore(kv, "a", nil)
	b := NewStore(kv, "b", nil)

	require.NoError(t, a.Set(ctx, testPlayer(), "tok-a"))
	assert.False(t, b.IsAuthenticated(ctx))

	require.NoError(t, b.Clear(ctx))
	assert.True(t, a.IsAuthenticated(ctx))
}

func TestStore_ReplaceIdentityKeepsToken(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemoryKV(), "sid", nil)

	assert.ErrorIs(t, s.ReplaceIdentity(ctx, testPlayer()), ErrNotAuthenticated)

	original := testPlayer()
	require.NoError(t, s.Set(ctx, original, "tok"))

	photo := "https://cdn.example.com/p.png"
	require.NoError(t, s.ReplaceIdentity(ctx, models.WithPhoto(original, &photo)))

	got := s.Get(ctx)
	assert.Equal(t, "tok", got.Token)
	require.NotNil(t, got.Identity.Base().PhotoURL)
	assert.Equal(t, photo, *got.Identity.Base().PhotoURL)
	assert.Nil(t, original.PhotoURL, "the previous identity value must not be mutated")
}

type failingKV struct{}

func (failingKV) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("boom")
}
func (failingKV) Put(context.Context, string, []byte) error { return errors.New("boom") }
func (failingKV) Delete(context.Context, string) error      { return errors.New("boom") }

func TestStore_GetNeverFails(t *testing.T) {
	ctx := context.Background()
	s := NewStore(failingKV{}, "sid", nil)

	assert.Equal(t, models.Session{}, s.Get(ctx))
	assert.False(t, s.IsAuthenticated(ctx))
	assert.Error(t, s.Set(ctx, testPlayer(), "tok"))
}

func TestStore_OrganizerRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemoryKV(), "sid", nil)
	org := &models.Organizer{
		Account: models.Account{UserID: 9, Kind: models.KindOrganizer},
		ID:      4,
		OrgName: "Club Alfil",
	}

	require.NoError(t, s.Set(ctx, org, "tok"))
	got, ok := s.Get(ctx).Identity.(*models.Organizer)
	require.True(t, ok)
	assert.Equal(t, "Club Alfil", got.OrgName)
	assert.Equal(t, 4, got.RoleID())
}
