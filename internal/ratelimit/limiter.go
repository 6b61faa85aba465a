// Package ratelimit implements rolling-window operation limits keyed by user and operation.
package ratelimit

import (
	"context"
	"time"
)

type Limiter interface {
	// Allow records an attempt at now and reports whether it fits in the window.
	// When it does not, the duration is how long until the oldest attempt expires.
	Allow(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (bool, time.Duration, error)
}

func Key(userID, operation string) string {
	return operation + ":" + userID
}
