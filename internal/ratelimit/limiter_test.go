package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTryAcquireOnePerWindow(t *testing.T) {
	now := time.Unix(1000, 0)
	l := NewLimiterWithClock(60*time.Second, func() time.Time { return now })

	assert.True(t, l.TryAcquire(42), "first trigger in an empty window")
	assert.False(t, l.TryAcquire(42), "immediate second trigger")

	now = now.Add(10 * time.Second)
	assert.False(t, l.TryAcquire(42), "second trigger within the window")

	now = now.Add(51 * time.Second)
	assert.True(t, l.TryAcquire(42), "trigger after the window elapsed")
}

func TestTryAcquireDeniedCallKeepsTimestamp(t *testing.T) {
	now := time.Unix(0, 0)
	l := NewLimiterWithClock(60*time.Second, func() time.Time { return now })

	assert.True(t, l.TryAcquire(1))

	// Denied calls must not refresh the entry, otherwise a spamming actor
	// would lock themselves out forever.
	now = now.Add(59 * time.Second)
	assert.False(t, l.TryAcquire(1))
	now = now.Add(2 * time.Second) // 61s after the allowed trigger
	assert.True(t, l.TryAcquire(1))
}

func TestTryAcquireWindowBoundary(t *testing.T) {
	now := time.Unix(0, 0)
	l := NewLimiterWithClock(60*time.Second, func() time.Time { return now })

	assert.True(t, l.TryAcquire(7))

	// An entry is stale only once strictly more than the window has passed.
	now = now.Add(60 * time.Second)
	assert.False(t, l.TryAcquire(7))
	now = now.Add(time.Nanosecond)
	assert.True(t, l.TryAcquire(7))
}

func TestTryAcquireActorsAreIndependent(t *testing.T) {
	now := time.Unix(0, 0)
	l := NewLimiterWithClock(60*time.Second, func() time.Time { return now })

	assert.True(t, l.TryAcquire(1))
	assert.True(t, l.TryAcquire(2))
	assert.False(t, l.TryAcquire(1))
	assert.False(t, l.TryAcquire(2))
}

func TestTryAcquirePurgesOnlyStaleEntries(t *testing.T) {
	now := time.Unix(0, 0)
	l := NewLimiterWithClock(60*time.Second, func() time.Time { return now })

	assert.True(t, l.TryAcquire(1))
	now = now.Add(40 * time.Second)
	assert.True(t, l.TryAcquire(2))

	// 61s: actor 1 expired, actor 2 (20s old) must survive the purge.
	now = now.Add(21 * time.Second)
	assert.True(t, l.TryAcquire(1))
	assert.False(t, l.TryAcquire(2))
}

func TestTryAcquireConcurrent(t *testing.T) {
	l := NewLimiter(time.Minute)

	const goroutines = 16
	allowed := make(chan bool, goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			allowed <- l.TryAcquire(99)
		}()
	}

	granted := 0
	for i := 0; i < goroutines; i++ {
		if <-allowed {
			granted++
		}
	}
	assert.Equal(t, 1, granted, "exactly one concurrent trigger may win")
}
