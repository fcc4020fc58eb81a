package timer

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu     sync.RWMutex
	timers map[string]Timer
}

// NewMemoryRepository builds an in-memory timer store for testing and dev.
func NewMemoryRepository() Repository {
	return &memoryRepository{timers: make(map[string]Timer)}
}

func (r *memoryRepository) Create(_ context.Context, t Timer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timers[t.ID] = t
	return nil
}

func (r *memoryRepository) ListByUser(_ context.Context, userID string) ([]Timer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var timers []Timer
	for _, t := range r.timers {
		if t.UserID == userID {
			timers = append(timers, t)
		}
	}
	sort.Slice(timers, func(i, j int) bool {
		return timers[i].CreatedAt.After(timers[j].CreatedAt)
	})
	return timers, nil
}

func (r *memoryRepository) FindByUser(_ context.Context, id, userID string) (Timer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.timers[id]
	if !ok || t.UserID != userID {
		return Timer{}, ErrNotFound
	}
	return t, nil
}

func (r *memoryRepository) Update(_ context.Context, t Timer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.timers[t.ID]
	if !ok || existing.UserID != t.UserID {
		return ErrNotFound
	}
	r.timers[t.ID] = t
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.timers[id]
	if !ok || t.UserID != userID {
		return ErrNotFound
	}
	delete(r.timers, id)
	return nil
}
