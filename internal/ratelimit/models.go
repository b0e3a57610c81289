// Package ratelimit throttles favorites traffic per client with a sliding
// window. Redis backs the window when configured; an in-memory window takes
// over while Redis is failing.
package ratelimit

import (
	"strings"
	"time"
)

// Limit is the number of requests allowed per window.
type Limit struct {
	Requests int
	Window   time.Duration
}

// Enabled reports whether the limit throttles anything.
func (l Limit) Enabled() bool {
	return l.Requests > 0 && l.Window > 0
}

// Result is the outcome of one rate limit check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int
}

// sanitizeKeySegment escapes the key delimiter so a caller-controlled
// segment cannot spill into an adjacent one.
func sanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

func ipKey(ip string) string {
	return "ratelimit:ip:" + sanitizeKeySegment(ip)
}

func retryAfterSeconds(resetAt, now time.Time) int {
	secs := int(resetAt.Sub(now).Seconds())
	if secs < 1 {
		return 1
	}
	return secs
}
