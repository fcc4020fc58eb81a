package category

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Service exposes ownership-scoped category operations.
type Service struct {
	repo Repository
}

// NewService builds a category service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput captures data required to create a category.
type CreateInput struct {
	UserID string
	Name   string
	Color  string
}

// Create adds a category, rejecting a case-insensitive duplicate name.
func (s *Service) Create(ctx context.Context, in CreateInput) (Category, error) {
	if in.Name == "" || in.Color == "" {
		return Category{}, errors.New("name and color are required")
	}

	if _, err := s.repo.FindByName(ctx, in.UserID, in.Name); err == nil {
		return Category{}, ErrDuplicateName
	} else if !errors.Is(err, ErrNotFound) {
		return Category{}, err
	}

	c := Category{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		Name:      in.Name,
		Color:     in.Color,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return Category{}, err
	}
	return c, nil
}

// List returns the user's categories ordered by name.
func (s *Service) List(ctx context.Context, userID string) ([]Category, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Delete removes a category owned by the user.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, id, userID)
}
