// Package subs gates bot access on channel membership, caching positive
// results so repeated /start taps do not hammer the Telegram API.
package subs

import (
	"sync"
	"time"
)

// MembershipFunc performs the actual chat-member lookup against Telegram.
type MembershipFunc func(userID int64) (bool, error)

// Checker caches confirmed memberships with a TTL. Only positive results
// are cached; a non-member is re-checked on every attempt. Expired and
// stale entries are swept opportunistically.
type Checker struct {
	check MembershipFunc
	ttl   time.Duration

	mu        sync.Mutex
	confirmed map[int64]time.Time
	lastSweep time.Time
	now       func() time.Time
}

const sweepEvery = 10 * time.Minute

// NewChecker returns a checker with the given lookup and cache TTL.
func NewChecker(check MembershipFunc, ttl time.Duration) *Checker {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Checker{
		check:     check,
		ttl:       ttl,
		confirmed: make(map[int64]time.Time),
		now:       time.Now,
	}
}

// IsSubscribed reports whether the user is a channel member, serving from
// the cache while the previous confirmation is fresh.
func (c *Checker) IsSubscribed(userID int64) (bool, error) {
	now := c.now()

	c.mu.Lock()
	if ts, ok := c.confirmed[userID]; ok && now.Sub(ts) < c.ttl {
		c.mu.Unlock()
		return true, nil
	}
	c.mu.Unlock()

	member, err := c.check(userID)
	if err != nil {
		return false, err
	}
	if member {
		c.mu.Lock()
		c.confirmed[userID] = now
		c.sweepLocked(now)
		c.mu.Unlock()
	}
	return member, nil
}

func (c *Checker) sweepLocked(now time.Time) {
	if now.Sub(c.lastSweep) < sweepEvery {
		return
	}
	c.lastSweep = now
	for id, ts := range c.confirmed {
		if now.Sub(ts) >= c.ttl {
			delete(c.confirmed, id)
		}
	}
}
