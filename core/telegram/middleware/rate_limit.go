package middleware

import (
	"sync"
	"time"

	"github.com/AsilbekWeb09/Reklama-bot/core/logger"
	"github.com/AsilbekWeb09/Reklama-bot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// RateLimitOptions configures the per-user flood gate.
type RateLimitOptions struct {
	// Interval is the minimal spacing between accepted updates per user.
	Interval time.Duration
	// ExcludeCallbacks lets inline-button taps through without throttling.
	ExcludeCallbacks bool
	// OnLimited, when set, is invoked for dropped updates (e.g. to notify).
	OnLimited func(c tele.Context)
}

// floodLimiter tracks the last accepted update per user. The timestamp only
// advances when an update is accepted, so a burst does not extend the window.
type floodLimiter struct {
	mu        sync.Mutex
	interval  time.Duration
	lastSeen  map[int64]time.Time
	lastSweep time.Time
	now       func() time.Time
}

const floodSweepEvery = 5 * time.Minute

func newFloodLimiter(interval time.Duration) *floodLimiter {
	return &floodLimiter{
		interval: interval,
		lastSeen: make(map[int64]time.Time),
		now:      time.Now,
	}
}

// Allow reports whether an update from userID is accepted right now and
// records the acceptance timestamp if so.
func (l *floodLimiter) Allow(userID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if last, ok := l.lastSeen[userID]; ok && now.Sub(last) < l.interval {
		return false
	}
	l.lastSeen[userID] = now
	l.sweepLocked(now)
	return true
}

// sweepLocked drops stale entries opportunistically so the map does not grow
// with one entry per user forever.
func (l *floodLimiter) sweepLocked(now time.Time) {
	if now.Sub(l.lastSweep) < floodSweepEvery {
		return
	}
	l.lastSweep = now
	cutoff := now.Add(-10 * l.interval)
	for id, seen := range l.lastSeen {
		if seen.Before(cutoff) {
			delete(l.lastSeen, id)
		}
	}
}

// RateLimitMiddleware silently drops updates arriving faster than the
// configured interval per user.
func RateLimitMiddleware(opts RateLimitOptions) tele.MiddlewareFunc {
	if opts.Interval <= 0 {
		return func(next tele.HandlerFunc) tele.HandlerFunc { return next }
	}
	limiter := newFloodLimiter(opts.Interval)

	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return next(c)
			}
			if opts.ExcludeCallbacks && c.Callback() != nil {
				return next(c)
			}
			if !limiter.Allow(sender.ID) {
				ctx := helpers.BuildContext(c)
				logger.Debug(ctx, "tg", "flood.dropped")
				if opts.OnLimited != nil {
					opts.OnLimited(c)
				}
				return nil
			}
			return next(c)
		}
	}
}
