package subs

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckerCachesPositiveResult(t *testing.T) {
	calls := 0
	c := NewChecker(func(int64) (bool, error) {
		calls++
		return true, nil
	}, time.Minute)

	ok, err := c.IsSubscribed(1)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = c.IsSubscribed(1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, calls, "second check must hit the cache")
}

func TestCheckerDoesNotCacheNegative(t *testing.T) {
	calls := 0
	c := NewChecker(func(int64) (bool, error) {
		calls++
		return false, nil
	}, time.Minute)

	for i := 0; i < 3; i++ {
		ok, err := c.IsSubscribed(1)
		require.NoError(t, err)
		require.False(t, ok)
	}
	assert.Equal(t, 3, calls)
}

func TestCheckerEntryExpires(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	calls := 0
	c := NewChecker(func(int64) (bool, error) {
		calls++
		return true, nil
	}, time.Minute)
	c.now = func() time.Time { return now }

	_, err := c.IsSubscribed(1)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = c.IsSubscribed(1)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "expired entry must trigger a fresh lookup")
}

func TestCheckerLookupErrorPropagates(t *testing.T) {
	boom := errors.New("telegram down")
	c := NewChecker(func(int64) (bool, error) { return false, boom }, time.Minute)

	_, err := c.IsSubscribed(1)
	require.ErrorIs(t, err, boom)
}
