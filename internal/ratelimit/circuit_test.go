package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCircuitBreaker(t *testing.T) {
	cb := newCircuitBreaker()

	for range 4 {
		assert.False(t, cb.recordFailure())
	}
	assert.True(t, cb.recordFailure(), "opens at the failure threshold")

	assert.False(t, cb.recordSuccess())
	assert.False(t, cb.recordSuccess())
	assert.True(t, cb.recordFailure(), "a failure keeps it open")

	assert.False(t, cb.recordSuccess())
	assert.False(t, cb.recordSuccess())
	assert.True(t, cb.recordSuccess(), "closes after consecutive successes")

	assert.False(t, cb.recordFailure(), "failure count restarts once closed")
}
