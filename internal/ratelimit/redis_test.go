package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLimiter_RollingWindow(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	lim := NewRedisLimiter(client, "test:")
	ctx := context.Background()
	start := time.UnixMilli(1_700_000_000_000)

	for i := 0; i < 3; i++ {
		allowed, _, err := lim.Allow(ctx, "transfer:u1", 3, time.Minute, start.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
		assert.True(t, allowed, "attempt %d", i)
	}

	allowed, retry, err := lim.Allow(ctx, "transfer:u1", 3, time.Minute, start.Add(10*time.Second))
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 50*time.Second, retry)

	allowed, _, err = lim.Allow(ctx, "transfer:u2", 3, time.Minute, start.Add(10*time.Second))
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, _, err = lim.Allow(ctx, "transfer:u1", 3, time.Minute, start.Add(61*time.Second))
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisLimiter_InvalidWindow(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	_, _, err := NewRedisLimiter(client, "").Allow(context.Background(), "k", 1, 0, time.Now())
	assert.Error(t, err)
}

func TestRedisLimiter_ServerDown(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr(), MaxRetries: -1})
	defer client.Close()
	s.Close()

	_, _, err := NewRedisLimiter(client, "").Allow(context.Background(), "k", 1, time.Second, time.Now())
	assert.Error(t, err)
}
