package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenBucket_Allow(t *testing.T) {
	req := require.New(t)

	bucket := NewTokenBucket(2, 1, time.Hour)

	allowed, _ := bucket.Allow()
	req.True(allowed)
	allowed, _ = bucket.Allow()
	req.True(allowed)

	allowed, wait := bucket.Allow()
	req.False(allowed)
	req.Greater(wait, time.Duration(0))
}

func TestTokenBucket_Refill(t *testing.T) {
	req := require.New(t)

	bucket := NewTokenBucket(1, 1, 10*time.Millisecond)

	allowed, _ := bucket.Allow()
	req.True(allowed)
	allowed, _ = bucket.Allow()
	req.False(allowed)

	time.Sleep(20 * time.Millisecond)

	allowed, _ = bucket.Allow()
	req.True(allowed)
}

func TestRateLimiter_PerUserPerAction(t *testing.T) {
	req := require.New(t)

	limiter := NewRateLimiter()

	// Exhaust alice's send_message budget.
	for i := 0; i < 20; i++ {
		allowed, _ := limiter.Allow("alice", "send_message")
		req.True(allowed)
	}
	allowed, _ := limiter.Allow("alice", "send_message")
	req.False(allowed)

	// Other users and other actions are unaffected.
	allowed, _ = limiter.Allow("bob", "send_message")
	req.True(allowed)
	allowed, _ = limiter.Allow("alice", "create_chat")
	req.True(allowed)
}

func TestRateLimiter_Cleanup(t *testing.T) {
	req := require.New(t)

	limiter := NewRateLimiter()
	limiter.Allow("alice", "send_message")

	limiter.mutex.Lock()
	for _, bucket := range limiter.buckets {
		bucket.lastRefill = time.Now().Add(-2 * time.Hour)
	}
	limiter.mutex.Unlock()

	limiter.Cleanup()

	limiter.mutex.RLock()
	defer limiter.mutex.RUnlock()
	req.Empty(limiter.buckets)
}
