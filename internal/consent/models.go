// Package consent records visitors' answers to the cookie consent modal.
package consent

import "time"

// Record is one owner's latest consent answer.
type Record struct {
	Owner      string    `json:"owner"`
	Accepted   bool      `json:"accepted"`
	AnsweredAt time.Time `json:"answered_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Active reports whether the record still applies at now.
func (r Record) Active(now time.Time) bool {
	return r.ExpiresAt.IsZero() || now.Before(r.ExpiresAt)
}
