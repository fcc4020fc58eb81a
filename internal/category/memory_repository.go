package category

import (
	"context"
	"sort"
	"strings"
	"sync"
)

type memoryRepository struct {
	mu         sync.RWMutex
	categories map[string]Category
}

// NewMemoryRepository builds an in-memory category store for testing and dev.
func NewMemoryRepository() Repository {
	return &memoryRepository{categories: make(map[string]Category)}
}

func (r *memoryRepository) Create(_ context.Context, c Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.categories {
		if existing.UserID == c.UserID && strings.EqualFold(existing.Name, c.Name) {
			return ErrDuplicateName
		}
	}
	r.categories[c.ID] = c
	return nil
}

func (r *memoryRepository) ListByUser(_ context.Context, userID string) ([]Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var categories []Category
	for _, c := range r.categories {
		if c.UserID == userID {
			categories = append(categories, c)
		}
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

func (r *memoryRepository) FindByName(_ context.Context, userID, name string) (Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.categories {
		if c.UserID == userID && strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return Category{}, ErrNotFound
}

func (r *memoryRepository) Delete(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok || c.UserID != userID {
		return ErrNotFound
	}
	delete(r.categories, id)
	return nil
}
