package web

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_PerIP(t *testing.T) {
	rl := newRateLimiter(60, 1)

	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.2"), "buckets are per client")
}

func TestRateLimiter_Evict(t *testing.T) {
	rl := newRateLimiter(60, 1)
	rl.allow("10.0.0.1")

	rl.evict(time.Now())
	assert.Len(t, rl.visitors, 1)

	rl.evict(time.Now().Add(visitorTTL + time.Second))
	assert.Empty(t, rl.visitors)
}

func TestRateLimiter_RetryAfter(t *testing.T) {
	assert.Equal(t, "2", newRateLimiter(60, 1).retryAfter())
	assert.Equal(t, "7", newRateLimiter(10, 1).retryAfter())
	assert.Equal(t, "60", newRateLimiter(0, 1).retryAfter())
}
