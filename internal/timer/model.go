package timer

import (
	"errors"
	"time"
)

// Timer statuses. Elapsed time is client-reported on status transitions; the
// server stores what it is sent.
const (
	StatusRunning  = "running"
	StatusPaused   = "paused"
	StatusFinished = "finished"
)

var (
	// ErrNotFound covers both a missing timer and one owned by another user.
	ErrNotFound = errors.New("timer not found")

	// ErrInvalidStatus rejects a status outside running/paused/finished.
	ErrInvalidStatus = errors.New("invalid timer status")
)

// Timer represents one tracked work session.
type Timer struct {
	ID          string
	UserID      string
	ProjectName string
	Description string
	CategoryID  string
	Status      string
	Time        int64 // accumulated seconds
	StartedAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidStatus reports whether s is a known timer status.
func ValidStatus(s string) bool {
	switch s {
	case StatusRunning, StatusPaused, StatusFinished:
		return true
	default:
		return false
	}
}
