package identity

import (
	"errors"
	"time"
)

// User represents one registered account. PasswordHash is never serialized or
// returned across the HTTP boundary.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

var (
	// ErrDuplicateIdentity means the email is already registered, or owned by
	// another account during an email change.
	ErrDuplicateIdentity = errors.New("email already registered")

	// ErrNotFound means no account exists for the given email or id.
	ErrNotFound = errors.New("user not found")

	// ErrSamePassword rejects a password change to the current password.
	ErrSamePassword = errors.New("new password must be different from your current password")

	// ErrSameEmail rejects an email change request to the current address.
	ErrSameEmail = errors.New("new email must be different from your current email")

	// ErrInvalidCredentials covers both unknown-email and wrong-password so
	// login failures do not reveal which part was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
