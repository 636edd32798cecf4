// Package ratelimit gates how often a single actor may trigger paste
// creation. State is in-memory only and lost on restart.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter allows one trigger per actor per window. An actor's entry expires
// once the window has elapsed since their last allowed trigger.
type Limiter struct {
	mu     sync.Mutex
	window time.Duration
	last   map[int64]time.Time
	now    func() time.Time
}

// NewLimiter creates a limiter with the given window.
func NewLimiter(window time.Duration) *Limiter {
	return &Limiter{
		window: window,
		last:   make(map[int64]time.Time),
		now:    time.Now,
	}
}

// NewLimiterWithClock is NewLimiter with an injectable clock for tests.
func NewLimiterWithClock(window time.Duration, now func() time.Time) *Limiter {
	l := NewLimiter(window)
	l.now = now
	return l
}

// TryAcquire reports whether the actor may trigger a paste now. Stale
// entries are purged first; if the actor still has a live entry the call is
// denied without touching its timestamp, otherwise the trigger is recorded
// and allowed. The purge-check-insert sequence is a single critical section.
func (l *Limiter) TryAcquire(actorID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for id, ts := range l.last {
		if now.Sub(ts) > l.window {
			delete(l.last, id)
		}
	}

	if _, limited := l.last[actorID]; limited {
		return false
	}

	l.last[actorID] = now
	return true
}
