package verification

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupRedisLedger(t *testing.T) (*RedisLedger, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	return NewRedisLedger(cache, 600*time.Second), mr
}

func sampleChallenge(id, subject string) Challenge {
	return Challenge{
		ID:        id,
		Subject:   subject,
		Code:      "123456",
		Token:     "tok-" + id,
		CreatedAt: time.Now().UTC(),
	}
}

func TestRedisLedgerInsertAndFind(t *testing.T) {
	ledger, _ := setupRedisLedger(t)
	ctx := context.Background()

	ch := sampleChallenge("c1", "a@x.com")
	if err := ledger.Insert(ctx, ch); err != nil {
		t.Fatalf("insert: %v", err)
	}

	found, err := ledger.FindExact(ctx, Exact("a@x.com", "123456", "tok-c1"))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.ID != "c1" {
		t.Fatalf("expected challenge c1, got %s", found.ID)
	}

	if _, err := ledger.FindExact(ctx, Exact("a@x.com", "000000", "tok-c1")); err != ErrInvalidChallenge {
		t.Fatalf("expected ErrInvalidChallenge for wrong code, got %v", err)
	}
	if _, err := ledger.FindExact(ctx, Exact("a@x.com", "123456", "other")); err != ErrInvalidChallenge {
		t.Fatalf("expected ErrInvalidChallenge for wrong token, got %v", err)
	}
}

func TestRedisLedgerSupersession(t *testing.T) {
	ledger, _ := setupRedisLedger(t)
	ctx := context.Background()

	if err := ledger.Insert(ctx, sampleChallenge("c1", "a@x.com")); err != nil {
		t.Fatalf("insert first: %v", err)
	}
	if err := ledger.DeleteAllForSubject(ctx, "a@x.com"); err != nil {
		t.Fatalf("delete all: %v", err)
	}
	if err := ledger.Insert(ctx, sampleChallenge("c2", "a@x.com")); err != nil {
		t.Fatalf("insert second: %v", err)
	}

	if _, err := ledger.FindExact(ctx, Exact("a@x.com", "123456", "tok-c1")); err != ErrInvalidChallenge {
		t.Fatalf("superseded token should not match, got %v", err)
	}
	if _, err := ledger.FindExact(ctx, Exact("a@x.com", "123456", "tok-c2")); err != nil {
		t.Fatalf("latest challenge should match: %v", err)
	}
}

func TestRedisLedgerExpiry(t *testing.T) {
	ledger, mr := setupRedisLedger(t)
	ctx := context.Background()

	if err := ledger.Insert(ctx, sampleChallenge("c1", "a@x.com")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	mr.FastForward(599 * time.Second)
	if _, err := ledger.FindExact(ctx, Exact("a@x.com", "123456", "tok-c1")); err != nil {
		t.Fatalf("challenge should still be usable at TTL-1s: %v", err)
	}

	mr.FastForward(1 * time.Second)
	if _, err := ledger.FindExact(ctx, Exact("a@x.com", "123456", "tok-c1")); err != ErrInvalidChallenge {
		t.Fatalf("challenge should be expired at TTL, got %v", err)
	}
}

func TestRedisLedgerDeleteMatchesID(t *testing.T) {
	ledger, _ := setupRedisLedger(t)
	ctx := context.Background()

	first := sampleChallenge("c1", "a@x.com")
	second := sampleChallenge("c2", "a@x.com")
	if err := ledger.Insert(ctx, second); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// Deleting a stale handle must not remove the superseding challenge.
	if err := ledger.Delete(ctx, first); err != nil {
		t.Fatalf("delete stale: %v", err)
	}
	if _, err := ledger.FindExact(ctx, Exact("a@x.com", "123456", "tok-c2")); err != nil {
		t.Fatalf("live challenge removed by stale delete: %v", err)
	}

	if err := ledger.Delete(ctx, second); err != nil {
		t.Fatalf("delete live: %v", err)
	}
	if _, err := ledger.FindExact(ctx, Exact("a@x.com", "123456", "tok-c2")); err != ErrInvalidChallenge {
		t.Fatalf("expected ErrInvalidChallenge after delete, got %v", err)
	}
}

func TestRedisLedgerTargetBinding(t *testing.T) {
	ledger, _ := setupRedisLedger(t)
	ctx := context.Background()

	ch := sampleChallenge("c1", "a@x.com")
	ch.Target = "b@x.com"
	if err := ledger.Insert(ctx, ch); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if _, err := ledger.FindExact(ctx, ExactWithTarget("a@x.com", "123456", "tok-c1", "c@x.com")); err != ErrInvalidChallenge {
		t.Fatalf("mismatched target must fail, got %v", err)
	}
	if _, err := ledger.FindExact(ctx, ExactWithTarget("a@x.com", "123456", "tok-c1", "b@x.com")); err != nil {
		t.Fatalf("matching target should succeed: %v", err)
	}
	// An untargeted lookup ignores the stored target.
	if _, err := ledger.FindExact(ctx, Exact("a@x.com", "123456", "tok-c1")); err != nil {
		t.Fatalf("untargeted lookup should succeed: %v", err)
	}
}

func TestMemoryLedgerLazyExpiry(t *testing.T) {
	led := NewMemoryLedger(600 * time.Second).(*memoryLedger)
	ctx := context.Background()

	base := time.Now().UTC()
	ch := sampleChallenge("c1", "a@x.com")
	ch.CreatedAt = base
	if err := led.Insert(ctx, ch); err != nil {
		t.Fatalf("insert: %v", err)
	}

	led.now = func() time.Time { return base.Add(599 * time.Second) }
	if _, err := led.FindExact(ctx, Exact("a@x.com", "123456", "tok-c1")); err != nil {
		t.Fatalf("challenge should be usable at TTL-1s: %v", err)
	}

	led.now = func() time.Time { return base.Add(600 * time.Second) }
	if _, err := led.FindExact(ctx, Exact("a@x.com", "123456", "tok-c1")); err != ErrInvalidChallenge {
		t.Fatalf("challenge should expire at TTL, got %v", err)
	}
}
