package middleware

import (
	"testing"
	"time"
)

func TestFloodLimiterWindow(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := newFloodLimiter(1200 * time.Millisecond)
	l.now = func() time.Time { return now }

	if !l.Allow(42) {
		t.Fatal("first update must pass")
	}

	now = now.Add(500 * time.Millisecond)
	if l.Allow(42) {
		t.Fatal("update inside window must be dropped")
	}

	// Drops must not extend the window: 1.3s after the accepted update.
	now = now.Add(800 * time.Millisecond)
	if !l.Allow(42) {
		t.Fatal("update after window must pass")
	}
}

func TestFloodLimiterPerUser(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := newFloodLimiter(1200 * time.Millisecond)
	l.now = func() time.Time { return now }

	if !l.Allow(1) {
		t.Fatal("first user must pass")
	}
	if !l.Allow(2) {
		t.Fatal("second user must not share the window")
	}
	if l.Allow(1) {
		t.Fatal("repeat within window must be dropped")
	}
}

func TestFloodLimiterSweep(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := newFloodLimiter(time.Second)
	l.now = func() time.Time { return now }

	for id := int64(1); id <= 50; id++ {
		l.Allow(id)
	}

	now = now.Add(6 * time.Minute)
	l.Allow(999)

	l.mu.Lock()
	size := len(l.lastSeen)
	l.mu.Unlock()
	if size != 1 {
		t.Fatalf("stale entries not swept, got %d", size)
	}
}
