package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterCreditsReferrer(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUsersRepo()
	svc := NewUsers(repo)

	created, err := svc.Register(ctx, 100, "referrer", "Ref", 0)
	require.NoError(t, err)
	require.True(t, created)

	created, err = svc.Register(ctx, 200, "newbie", "New", 100)
	require.NoError(t, err)
	require.True(t, created)

	ref, err := svc.Info(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ref.Points)

	u, err := svc.Info(ctx, 200)
	require.NoError(t, err)
	require.True(t, u.InvitedBy.Valid)
	assert.Equal(t, int64(100), u.InvitedBy.Int64)
}

func TestRegisterSelfReferralNeverCredits(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUsersRepo()
	svc := NewUsers(repo)

	created, err := svc.Register(ctx, 100, "u", "U", 100)
	require.NoError(t, err)
	require.True(t, created)

	u, err := svc.Info(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(0), u.Points)
	assert.False(t, u.InvitedBy.Valid)
}

func TestRegisterTwiceIsNoOp(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUsersRepo()
	svc := NewUsers(repo)

	_, err := svc.Register(ctx, 100, "ref", "Ref", 0)
	require.NoError(t, err)
	_, err = svc.Register(ctx, 200, "u", "U", 100)
	require.NoError(t, err)

	created, err := svc.Register(ctx, 200, "u", "U", 100)
	require.NoError(t, err)
	assert.False(t, created)

	ref, err := svc.Info(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ref.Points, "repeat registration must not double-credit")
}

func TestPointsSumProperty(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUsersRepo()
	svc := NewUsers(repo)

	_, err := svc.Register(ctx, 1, "u", "U", 0)
	require.NoError(t, err)

	deltas := []struct {
		add   bool
		delta int64
	}{
		{true, 5}, {false, 2}, {true, 10}, {false, 20}, {true, 1},
	}
	var want int64
	for _, d := range deltas {
		if d.add {
			require.NoError(t, svc.AddPoints(ctx, 1, d.delta))
			want += d.delta
		} else {
			require.NoError(t, svc.RemovePoints(ctx, 1, d.delta))
			want -= d.delta
		}
	}

	u, err := svc.Info(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, want, u.Points, "no floor or ceiling is applied")
	assert.Negative(t, u.Points)
}

func TestBanUnban(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUsersRepo()
	svc := NewUsers(repo)

	_, err := svc.Register(ctx, 1, "u", "U", 0)
	require.NoError(t, err)

	require.NoError(t, svc.Ban(ctx, 1))
	banned, err := svc.IsBanned(ctx, 1)
	require.NoError(t, err)
	assert.True(t, banned)

	require.NoError(t, svc.Unban(ctx, 1))
	banned, err = svc.IsBanned(ctx, 1)
	require.NoError(t, err)
	assert.False(t, banned)
}

func TestInfoUnknownUser(t *testing.T) {
	svc := NewUsers(newFakeUsersRepo())
	_, err := svc.Info(context.Background(), 404)
	require.ErrorIs(t, err, ErrUserNotFound)
}
