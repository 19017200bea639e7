package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastTalliesFailures(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsersRepo()
	usersSvc := NewUsers(users)
	for id := int64(1); id <= 5; id++ {
		_, err := usersSvc.Register(ctx, id, "", "", 0)
		require.NoError(t, err)
	}
	require.NoError(t, usersSvc.Ban(ctx, 5))

	blocked := errors.New("bot was blocked by the user")
	var delivered []int64
	sent, failed, err := NewBroadcast(users).Run(ctx, "hello", func(id int64, text string) error {
		if id == 3 {
			return blocked
		}
		delivered = append(delivered, id)
		assert.Equal(t, "hello", text)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, sent)
	assert.Equal(t, 1, failed)
	assert.Equal(t, []int64{1, 2, 4}, delivered, "banned users are excluded, failures do not abort")
}

func TestBroadcastStopsOnCancel(t *testing.T) {
	baseCtx := context.Background()
	users := newFakeUsersRepo()
	usersSvc := NewUsers(users)
	for id := int64(1); id <= 10; id++ {
		_, err := usersSvc.Register(baseCtx, id, "", "", 0)
		require.NoError(t, err)
	}

	ctx, cancel := context.WithCancel(baseCtx)
	sent, _, err := NewBroadcast(users).Run(ctx, "x", func(id int64, _ string) error {
		if id == 3 {
			cancel()
		}
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, sent)
}

func TestBroadcastEmptyAudience(t *testing.T) {
	sent, failed, err := NewBroadcast(newFakeUsersRepo()).Run(context.Background(), "x",
		func(int64, string) error { return nil })
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Zero(t, failed)
}
