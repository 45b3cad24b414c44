package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowWithinBurst(t *testing.T) {
	limiter := NewInMemoryLimiter(1, time.Hour, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("client-a"), "request %d should pass", i+1)
	}
	assert.False(t, limiter.Allow("client-a"))
}

func TestClientsAreIsolated(t *testing.T) {
	limiter := NewInMemoryLimiter(1, time.Hour, 1)

	assert.True(t, limiter.Allow("client-a"))
	assert.False(t, limiter.Allow("client-a"))

	// A different client has its own bucket.
	assert.True(t, limiter.Allow("client-b"))
}

func TestTokensRefillOverTime(t *testing.T) {
	limiter := NewInMemoryLimiter(1, 10*time.Millisecond, 1)

	assert.True(t, limiter.Allow("client-a"))
	assert.False(t, limiter.Allow("client-a"))

	time.Sleep(20 * time.Millisecond)
	assert.True(t, limiter.Allow("client-a"))
}
