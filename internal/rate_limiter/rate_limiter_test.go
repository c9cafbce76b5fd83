package rate_limiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	assert.True(t, rl.IsAllowed("10.0.0.1"))
	assert.True(t, rl.IsAllowed("10.0.0.1"))
	assert.True(t, rl.IsAllowed("10.0.0.1"))
	assert.False(t, rl.IsAllowed("10.0.0.1"))

	// Other keys are unaffected.
	assert.True(t, rl.IsAllowed("10.0.0.2"))
}

func TestRateLimiterRemaining(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute)

	assert.Equal(t, 5, rl.GetRemainingRequests("k"))
	rl.IsAllowed("k")
	rl.IsAllowed("k")
	assert.Equal(t, 3, rl.GetRemainingRequests("k"))
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)

	assert.True(t, rl.IsAllowed("k"))
	assert.False(t, rl.IsAllowed("k"))

	time.Sleep(20 * time.Millisecond)
	assert.True(t, rl.IsAllowed("k"))
}
