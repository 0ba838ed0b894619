package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"gift-shop/models"

	"github.com/redis/go-redis/v9"
)

// RateLimitResult is the outcome of one attempt. RetryAfter is only
// meaningful when Allowed is false.
type RateLimitResult struct {
	Allowed    bool
	RetryAfter time.Duration
}

// RateLimitStore records attempts per key. Attempt is a single atomic
// check-and-increment: it either admits the attempt or rejects it with
// the remaining wait, never both.
type RateLimitStore interface {
	Attempt(ctx context.Context, key string, rule models.RateLimitRule) (RateLimitResult, error)
	Reset(ctx context.Context, key string) error
}

// MemoryRateLimitStore is the in-process default. It is shared across
// concurrent request handlers, so every read-modify-write holds the
// mutex.
type MemoryRateLimitStore struct {
	mu      sync.Mutex
	records map[string]*models.RateLimitRecord
	now     func() time.Time
}

func NewMemoryRateLimitStore() *MemoryRateLimitStore {
	return &MemoryRateLimitStore{
		records: make(map[string]*models.RateLimitRecord),
		now:     time.Now,
	}
}

func (s *MemoryRateLimitStore) Attempt(_ context.Context, key string, rule models.RateLimitRule) (RateLimitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	rec, exists := s.records[key]

	if exists && rec.LockedUntil != nil {
		if now.Before(*rec.LockedUntil) {
			return RateLimitResult{Allowed: false, RetryAfter: rec.LockedUntil.Sub(now)}, nil
		}
		// Lock lifted: start a fresh window.
		exists = false
	}

	if !exists || now.Sub(rec.FirstAttempt) > rule.Window {
		s.records[key] = &models.RateLimitRecord{Count: 1, FirstAttempt: now}
		return RateLimitResult{Allowed: true}, nil
	}

	if rec.Count >= rule.MaxAttempts {
		lockedUntil := now.Add(rule.Lock)
		rec.LockedUntil = &lockedUntil
		return RateLimitResult{Allowed: false, RetryAfter: rule.Lock}, nil
	}

	rec.Count++
	return RateLimitResult{Allowed: true}, nil
}

func (s *MemoryRateLimitStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

// Prune drops records whose window has elapsed. Called best-effort on
// each incoming request; overcounting only causes extra rejections,
// never unsafe admission, so this does not have to be exact. Locked
// records are kept until the lock lifts.
func (s *MemoryRateLimitStore) Prune(maxWindow time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, rec := range s.records {
		if rec.Expired(now, maxWindow) {
			delete(s.records, key)
		}
	}
}

// RedisRateLimitStore keys counters in Redis with TTLs so horizontally
// scaled gateways share one view of attempt counts.
type RedisRateLimitStore struct {
	client *redis.Client
}

func NewRedisRateLimitStore(client *redis.Client) *RedisRateLimitStore {
	return &RedisRateLimitStore{client: client}
}

func (s *RedisRateLimitStore) Attempt(ctx context.Context, key string, rule models.RateLimitRule) (RateLimitResult, error) {
	lockKey := key + ":lock"

	locked, err := s.client.TTL(ctx, lockKey).Result()
	if err != nil {
		return RateLimitResult{}, err
	}
	if locked > 0 {
		return RateLimitResult{Allowed: false, RetryAfter: locked}, nil
	}

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return RateLimitResult{}, err
	}
	if count == 1 {
		if err := s.client.Expire(ctx, key, rule.Window).Err(); err != nil {
			return RateLimitResult{}, err
		}
	}

	if count > int64(rule.MaxAttempts) {
		pipe := s.client.TxPipeline()
		pipe.Set(ctx, lockKey, "1", rule.Lock)
		pipe.Del(ctx, key)
		if _, err := pipe.Exec(ctx); err != nil {
			return RateLimitResult{}, err
		}
		return RateLimitResult{Allowed: false, RetryAfter: rule.Lock}, nil
	}

	return RateLimitResult{Allowed: true}, nil
}

func (s *RedisRateLimitStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, key, key+":lock").Err()
}

// RateLimitService evaluates the per-path quotas for the proxy. Paths
// without a configured rule are unlimited.
type RateLimitService struct {
	store RateLimitStore
	rules map[string]models.RateLimitRule
}

// DefaultRateLimitRules quotes the upstream auth routes. Higher-risk
// actions get stricter budgets.
func DefaultRateLimitRules() map[string]models.RateLimitRule {
	return map[string]models.RateLimitRule{
		"/auth/login":           {MaxAttempts: 5, Window: 15 * time.Minute, Lock: 15 * time.Minute},
		"/auth/register":        {MaxAttempts: 3, Window: 60 * time.Minute, Lock: 60 * time.Minute},
		"/auth/forgot-password": {MaxAttempts: 3, Window: 60 * time.Minute, Lock: 60 * time.Minute},
		"/auth/verify-email":    {MaxAttempts: 5, Window: 15 * time.Minute, Lock: 15 * time.Minute},
		"/auth/change-password": {MaxAttempts: 3, Window: 30 * time.Minute, Lock: 30 * time.Minute},
		"/auth/profile":         {MaxAttempts: 20, Window: time.Minute, Lock: time.Minute},
	}
}

func NewRateLimitService(store RateLimitStore, rules map[string]models.RateLimitRule) *RateLimitService {
	if rules == nil {
		rules = DefaultRateLimitRules()
	}
	return &RateLimitService{store: store, rules: rules}
}

// Check evaluates one attempt against the rule for path, keyed by the
// caller identity. A store error fails open: deterrence is not worth a
// hard outage of the whole proxy.
func (s *RateLimitService) Check(ctx context.Context, identity, path string) RateLimitResult {
	rule, ok := s.rules[path]
	if !ok {
		return RateLimitResult{Allowed: true}
	}

	result, err := s.store.Attempt(ctx, s.key(identity, path), rule)
	if err != nil {
		log.Printf("rate limit store error: %v", err)
		return RateLimitResult{Allowed: true}
	}
	return result
}

// Reset clears the record for one identity and path, e.g. after a
// successful login.
func (s *RateLimitService) Reset(ctx context.Context, identity, path string) {
	if err := s.store.Reset(ctx, s.key(identity, path)); err != nil {
		log.Printf("rate limit reset error: %v", err)
	}
}

// Prune garbage-collects the in-process store. The Redis store expires
// keys by TTL and needs no pruning.
func (s *RateLimitService) Prune() {
	mem, ok := s.store.(*MemoryRateLimitStore)
	if !ok {
		return
	}
	var maxWindow time.Duration
	for _, rule := range s.rules {
		if rule.Window > maxWindow {
			maxWindow = rule.Window
		}
	}
	mem.Prune(maxWindow)
}

func (s *RateLimitService) key(identity, path string) string {
	return fmt.Sprintf("%s:%s", identity, path)
}
