package ratelimit

import "sync"

// circuitBreaker tracks consecutive primary store errors. It opens after
// failureThreshold failures and closes again after successThreshold
// consecutive successes.
type circuitBreaker struct {
	mu               sync.Mutex
	open             bool
	failureCount     int
	successCount     int
	failureThreshold int
	successThreshold int
}

func newCircuitBreaker() *circuitBreaker {
	return &circuitBreaker{
		failureThreshold: 5,
		successThreshold: 3,
	}
}

// recordFailure reports whether the circuit is open afterwards.
func (c *circuitBreaker) recordFailure() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failureCount++
	c.successCount = 0
	if c.failureCount >= c.failureThreshold {
		c.open = true
	}
	return c.open
}

// recordSuccess reports whether the circuit is closed afterwards.
func (c *circuitBreaker) recordSuccess() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		c.failureCount = 0
		return true
	}
	c.successCount++
	if c.successCount >= c.successThreshold {
		c.open = false
		c.failureCount = 0
		c.successCount = 0
	}
	return !c.open
}
