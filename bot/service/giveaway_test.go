package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTurnOnRefusedWithSentinelPrize(t *testing.T) {
	ctx := context.Background()
	svc := NewGiveaway(newFakeSettingsRepo(), newFakeUsersRepo())

	err := svc.TurnOn(ctx)
	require.ErrorIs(t, err, ErrNoPrize)

	st, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.False(t, st.GiveawayActive)
}

func TestTurnOnAfterPrizeSet(t *testing.T) {
	ctx := context.Background()
	svc := NewGiveaway(newFakeSettingsRepo(), newFakeUsersRepo())

	require.NoError(t, svc.SetPrize(ctx, "⭐ Telegram Stars"))
	require.NoError(t, svc.TurnOn(ctx))

	st, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.True(t, st.GiveawayActive)
	assert.Equal(t, "⭐ Telegram Stars", st.GiveawayPrize)
}

func TestTurnOffAlwaysAllowed(t *testing.T) {
	ctx := context.Background()
	svc := NewGiveaway(newFakeSettingsRepo(), newFakeUsersRepo())

	require.NoError(t, svc.TurnOff(ctx))
	st, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.False(t, st.GiveawayActive)
}

func TestWinnerRefusedWhileOff(t *testing.T) {
	ctx := context.Background()
	svc := NewGiveaway(newFakeSettingsRepo(), newFakeUsersRepo())

	_, _, err := svc.Winner(ctx)
	require.ErrorIs(t, err, ErrGiveawayOff)
}

func TestWinnerPicksTopNonBanned(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsersRepo()
	usersSvc := NewUsers(users)
	_, err := usersSvc.Register(ctx, 1, "a", "A", 0)
	require.NoError(t, err)
	_, err = usersSvc.Register(ctx, 2, "b", "B", 0)
	require.NoError(t, err)
	_, err = usersSvc.Register(ctx, 3, "c", "C", 0)
	require.NoError(t, err)
	require.NoError(t, usersSvc.AddPoints(ctx, 2, 10))
	require.NoError(t, usersSvc.AddPoints(ctx, 3, 50))
	require.NoError(t, usersSvc.Ban(ctx, 3))

	svc := NewGiveaway(newFakeSettingsRepo(), users)
	require.NoError(t, svc.SetPrize(ctx, "🎁 Telegram Gift"))
	require.NoError(t, svc.TurnOn(ctx))

	winner, st, err := svc.Winner(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), winner.ID, "banned top scorer must be skipped")
	assert.Equal(t, "🎁 Telegram Gift", st.GiveawayPrize)
}

func TestWinnerTieBreaksByLowerID(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsersRepo()
	usersSvc := NewUsers(users)
	_, err := usersSvc.Register(ctx, 5, "a", "A", 0)
	require.NoError(t, err)
	_, err = usersSvc.Register(ctx, 2, "b", "B", 0)
	require.NoError(t, err)
	require.NoError(t, usersSvc.AddPoints(ctx, 5, 7))
	require.NoError(t, usersSvc.AddPoints(ctx, 2, 7))

	svc := NewGiveaway(newFakeSettingsRepo(), users)
	require.NoError(t, svc.SetPrize(ctx, "🖼 NFT"))
	require.NoError(t, svc.TurnOn(ctx))

	winner, _, err := svc.Winner(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), winner.ID)
}

func TestWinnerNoParticipants(t *testing.T) {
	ctx := context.Background()
	svc := NewGiveaway(newFakeSettingsRepo(), newFakeUsersRepo())
	require.NoError(t, svc.SetPrize(ctx, "prize"))
	require.NoError(t, svc.TurnOn(ctx))

	_, _, err := svc.Winner(ctx)
	require.ErrorIs(t, err, ErrNoParticipants)
}
