package verification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrInvalidChallenge covers every lookup miss: wrong code or token, target
// mismatch, expiry, supersession or prior consumption. Callers surface one
// generic message so the cause is not leaked.
var ErrInvalidChallenge = errors.New("invalid or expired code")

const keyPrefix = "verification:v1:"

// Ledger persists outstanding challenges. At most one challenge is live per
// subject email; entries expire passively after the configured TTL.
type Ledger interface {
	DeleteAllForSubject(ctx context.Context, subject string) error
	Insert(ctx context.Context, ch Challenge) error
	FindExact(ctx context.Context, q Query) (Challenge, error)
	Delete(ctx context.Context, ch Challenge) error
}

// RedisLedger stores challenges in Redis keyed by subject email. Expiry is
// enforced by the store's own key TTL, never by an application-side check.
type RedisLedger struct {
	cache *redis.Client
	ttl   time.Duration
}

// NewRedisLedger builds a Redis-backed challenge ledger.
func NewRedisLedger(cache *redis.Client, ttl time.Duration) *RedisLedger {
	return &RedisLedger{cache: cache, ttl: ttl}
}

// DeleteAllForSubject removes any live challenge for the subject email.
func (l *RedisLedger) DeleteAllForSubject(ctx context.Context, subject string) error {
	if err := l.cache.Del(ctx, keyPrefix+subject).Err(); err != nil {
		return fmt.Errorf("delete challenges for subject: %w", err)
	}
	return nil
}

// Insert stores the challenge under its subject key with the ledger TTL.
func (l *RedisLedger) Insert(ctx context.Context, ch Challenge) error {
	payload, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("encode challenge: %w", err)
	}
	if err := l.cache.Set(ctx, keyPrefix+ch.Subject, payload, l.ttl).Err(); err != nil {
		return fmt.Errorf("insert challenge: %w", err)
	}
	return nil
}

// FindExact returns the live challenge matching the query, or
// ErrInvalidChallenge when none does.
func (l *RedisLedger) FindExact(ctx context.Context, q Query) (Challenge, error) {
	payload, err := l.cache.Get(ctx, keyPrefix+q.Subject()).Result()
	if err == redis.Nil {
		return Challenge{}, ErrInvalidChallenge
	}
	if err != nil {
		return Challenge{}, fmt.Errorf("lookup challenge: %w", err)
	}

	var ch Challenge
	if err := json.Unmarshal([]byte(payload), &ch); err != nil {
		return Challenge{}, fmt.Errorf("decode challenge: %w", err)
	}
	if !q.Matches(ch) {
		return Challenge{}, ErrInvalidChallenge
	}
	return ch, nil
}

// Delete removes the given challenge. A superseding challenge stored since
// under the same subject is left alone; the ID must match.
func (l *RedisLedger) Delete(ctx context.Context, ch Challenge) error {
	key := keyPrefix + ch.Subject

	payload, err := l.cache.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup challenge: %w", err)
	}

	var stored Challenge
	if err := json.Unmarshal([]byte(payload), &stored); err != nil {
		return fmt.Errorf("decode challenge: %w", err)
	}
	if stored.ID != ch.ID {
		return nil
	}

	if err := l.cache.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("delete challenge: %w", err)
	}
	return nil
}
