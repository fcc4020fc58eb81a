package timer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Service exposes ownership-scoped timer operations.
type Service struct {
	repo Repository
}

// NewService builds a timer service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput captures data required to create a timer.
type CreateInput struct {
	UserID      string
	ProjectName string
	Description string
	CategoryID  string
}

// Create provisions a paused timer with no accumulated time.
func (s *Service) Create(ctx context.Context, in CreateInput) (Timer, error) {
	if in.ProjectName == "" || in.Description == "" {
		return Timer{}, errors.New("project name and description are required")
	}
	now := time.Now().UTC()
	t := Timer{
		ID:          uuid.NewString(),
		UserID:      in.UserID,
		ProjectName: in.ProjectName,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		Status:      StatusPaused,
		Time:        0,
		StartedAt:   now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return Timer{}, err
	}
	return t, nil
}

// List returns the user's timers, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Timer, error) {
	return s.repo.ListByUser(ctx, userID)
}

// UpdateInput is a partial timer edit. Nil fields are left untouched. A status
// transition carries the client-reported accumulated time; moving to running
// restarts the session clock.
type UpdateInput struct {
	Status      *string
	Time        *int64
	ProjectName *string
	Description *string
	CategoryID  *string
}

// Update applies a partial edit to a timer owned by the user.
func (s *Service) Update(ctx context.Context, userID, id string, in UpdateInput) (Timer, error) {
	t, err := s.repo.FindByUser(ctx, id, userID)
	if err != nil {
		return Timer{}, err
	}

	if in.Status != nil {
		if !ValidStatus(*in.Status) {
			return Timer{}, ErrInvalidStatus
		}
		t.Status = *in.Status
		if in.Time != nil {
			t.Time = *in.Time
		}
		if t.Status == StatusRunning {
			t.StartedAt = time.Now().UTC()
		}
	}
	if in.ProjectName != nil && *in.ProjectName != "" {
		t.ProjectName = *in.ProjectName
	}
	if in.Description != nil && *in.Description != "" {
		t.Description = *in.Description
	}
	if in.CategoryID != nil {
		t.CategoryID = *in.CategoryID
	}
	t.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, t); err != nil {
		return Timer{}, err
	}
	return t, nil
}

// Delete removes a timer owned by the user.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, id, userID)
}
