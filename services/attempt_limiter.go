package services

import (
	"fmt"
	"sync"
	"time"

	"gift-shop/models"
)

// AttemptLimiter blocks obviously-repeated auth attempts before any
// network round trip, using the same rolling-window/lockout record as
// the proxy but scoped per logical action instead of per IP and path.
// It has no automatic success detection: callers must Clear the action
// after the upstream call succeeds.
type AttemptLimiter struct {
	mu      sync.Mutex
	rules   map[string]models.RateLimitRule
	records map[string]*models.RateLimitRecord
	now     func() time.Time
}

// DefaultAttemptRules covers the auth actions. Higher-risk actions
// (signup, password changes) get the tighter budgets.
func DefaultAttemptRules() map[string]models.RateLimitRule {
	return map[string]models.RateLimitRule{
		"login":           {MaxAttempts: 5, Window: 15 * time.Minute, Lock: 15 * time.Minute},
		"signup":          {MaxAttempts: 3, Window: 60 * time.Minute, Lock: 60 * time.Minute},
		"forgot-password": {MaxAttempts: 3, Window: 60 * time.Minute, Lock: 60 * time.Minute},
		"verify-code":     {MaxAttempts: 5, Window: 15 * time.Minute, Lock: 15 * time.Minute},
		"change-password": {MaxAttempts: 3, Window: 30 * time.Minute, Lock: 30 * time.Minute},
	}
}

func NewAttemptLimiter(rules map[string]models.RateLimitRule) *AttemptLimiter {
	if rules == nil {
		rules = DefaultAttemptRules()
	}
	return &AttemptLimiter{
		rules:   rules,
		records: make(map[string]*models.RateLimitRecord),
		now:     time.Now,
	}
}

// Check consumes one attempt for the action. It returns a user-facing
// error with the remaining wait when the action is locked or the
// attempt would exceed the quota; actions without a rule are unlimited.
func (l *AttemptLimiter) Check(action string) error {
	rule, ok := l.rules[action]
	if !ok {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	rec, exists := l.records[action]

	if exists && rec.LockedUntil != nil {
		if now.Before(*rec.LockedUntil) {
			return lockoutError(rec.LockedUntil.Sub(now))
		}
		exists = false
	}

	if !exists || now.Sub(rec.FirstAttempt) > rule.Window {
		l.records[action] = &models.RateLimitRecord{Count: 1, FirstAttempt: now}
		return nil
	}

	if rec.Count >= rule.MaxAttempts {
		lockedUntil := now.Add(rule.Lock)
		rec.LockedUntil = &lockedUntil
		return lockoutError(rule.Lock)
	}

	rec.Count++
	return nil
}

// Clear resets the record for an action after it succeeds, e.g. a
// successful login wipes its own counter.
func (l *AttemptLimiter) Clear(action string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.records, action)
}

func lockoutError(remaining time.Duration) error {
	mins := int((remaining + time.Minute - 1) / time.Minute)
	if mins < 1 {
		mins = 1
	}
	plural := "s"
	if mins == 1 {
		plural = ""
	}
	return fmt.Errorf("Too many attempts. Please try again in %d minute%s.", mins, plural)
}
