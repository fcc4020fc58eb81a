package verification

import (
	"context"
	"sync"
	"time"
)

type memoryLedger struct {
	mu         sync.Mutex
	challenges map[string]Challenge
	ttl        time.Duration
	now        func() time.Time
}

// NewMemoryLedger builds an in-memory challenge ledger for development and
// tests. Lacking native key expiry, it deletes entries lazily on read once
// they are older than the TTL, preserving the unusable-after-TTL property.
func NewMemoryLedger(ttl time.Duration) Ledger {
	return &memoryLedger{
		challenges: make(map[string]Challenge),
		ttl:        ttl,
		now:        time.Now,
	}
}

func (l *memoryLedger) DeleteAllForSubject(_ context.Context, subject string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.challenges, subject)
	return nil
}

func (l *memoryLedger) Insert(_ context.Context, ch Challenge) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.challenges[ch.Subject] = ch
	return nil
}

func (l *memoryLedger) FindExact(_ context.Context, q Query) (Challenge, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.live(q.Subject())
	if !ok || !q.Matches(ch) {
		return Challenge{}, ErrInvalidChallenge
	}
	return ch, nil
}

func (l *memoryLedger) Delete(_ context.Context, ch Challenge) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	stored, ok := l.live(ch.Subject)
	if !ok || stored.ID != ch.ID {
		return nil
	}
	delete(l.challenges, ch.Subject)
	return nil
}

// live returns the unexpired challenge for the subject, reaping it when the
// TTL has elapsed. Callers must hold the mutex.
func (l *memoryLedger) live(subject string) (Challenge, bool) {
	ch, ok := l.challenges[subject]
	if !ok {
		return Challenge{}, false
	}
	if l.now().Sub(ch.CreatedAt) >= l.ttl {
		delete(l.challenges, subject)
		return Challenge{}, false
	}
	return ch, true
}
