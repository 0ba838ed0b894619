package models

import "time"

// RateLimitRule is the quota for one action or upstream path.
type RateLimitRule struct {
	MaxAttempts int
	Window      time.Duration
	Lock        time.Duration
}

// RateLimitRecord tracks attempts for one (action, requester) pair
// within a rolling window.
type RateLimitRecord struct {
	Count        int        `json:"count"`
	FirstAttempt time.Time  `json:"firstAttempt"`
	LockedUntil  *time.Time `json:"lockedUntil,omitempty"`
}

// Expired reports whether the rolling window anchored at FirstAttempt
// has elapsed. A locked record is never expired before the lock lifts.
func (r *RateLimitRecord) Expired(now time.Time, window time.Duration) bool {
	if r.LockedUntil != nil && now.Before(*r.LockedUntil) {
		return false
	}
	return now.Sub(r.FirstAttempt) > window
}
