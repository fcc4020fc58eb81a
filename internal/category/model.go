package category

import (
	"errors"
	"time"
)

var (
	// ErrNotFound covers both a missing category and one owned by another user.
	ErrNotFound = errors.New("category not found")

	// ErrDuplicateName rejects a second category with the same name for one
	// user; comparison is case-insensitive.
	ErrDuplicateName = errors.New("a category with this name already exists")
)

// Category labels a user's timers.
type Category struct {
	ID        string
	UserID    string
	Name      string
	Color     string
	CreatedAt time.Time
}
