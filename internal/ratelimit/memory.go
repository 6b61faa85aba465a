package ratelimit

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	window time.Duration
	hits   []time.Time
}

// expired reports whether no hit of b can count against its own window anymore.
func (b *bucket) expired(now time.Time) bool {
	return len(b.hits) == 0 || !b.hits[len(b.hits)-1].After(now.Add(-b.window))
}

// MemoryLimiter keeps per-key attempt timestamps in process. It is used when
// no redis is configured, so limits are per instance.
type MemoryLimiter struct {
	mu          sync.Mutex
	attempts    map[string]*bucket
	lastCleanup time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{attempts: map[string]*bucket{}}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration, now time.Time) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastCleanup) >= window {
		for k, b := range l.attempts {
			if b.expired(now) {
				delete(l.attempts, k)
			}
		}
		l.lastCleanup = now
	}

	b, ok := l.attempts[key]
	if !ok {
		b = &bucket{}
		l.attempts[key] = b
	}
	b.window = window

	cutoff := now.Add(-window)
	i := 0
	for i < len(b.hits) && !b.hits[i].After(cutoff) {
		i++
	}
	b.hits = b.hits[i:]

	if len(b.hits) >= limit {
		retryAfter := b.hits[0].Add(window).Sub(now)
		if retryAfter < 0 {
			retryAfter = 0
		}
		return false, retryAfter, nil
	}

	b.hits = append(b.hits, now)
	return true, 0, nil
}
