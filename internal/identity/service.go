package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/stacked-time/stacked_time/internal/verification"
)

// hashCost is the bcrypt work factor applied to every stored password.
const hashCost = 12

// Service implements the account protocols: registration, authentication,
// password reset and email change. Verification codes gate every credential
// mutation; the challenge is discarded only after the mutation is durably
// applied, so a crash in between leaves a stale challenge that expires
// passively rather than a lost update.
type Service struct {
	repo     Repository
	verifier *verification.Service
}

// NewService creates a new identity service.
func NewService(repo Repository, verifier *verification.Service) *Service {
	return &Service{repo: repo, verifier: verifier}
}

// StartRegistration begins signup for a new account: it rejects an already
// registered email before any challenge is created, then issues a code to the
// address. The returned token must be echoed back on the following steps.
func (s *Service) StartRegistration(ctx context.Context, name, email string) (verification.Challenge, error) {
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return verification.Challenge{}, ErrDuplicateIdentity
	}
	if !errors.Is(err, ErrNotFound) {
		return verification.Challenge{}, err
	}
	return s.verifier.Issue(ctx, verification.IssueInput{Subject: email, Name: name})
}

// VerifyCode validates a challenge without consuming it, gating the client's
// transition to the next step of whichever flow issued the code.
func (s *Service) VerifyCode(ctx context.Context, q verification.Query) error {
	_, err := s.verifier.Consume(ctx, q)
	return err
}

// CompleteRegistration creates the account once the code has been verified.
// The store is re-checked for the email so a duplicate registration racing in
// during verification still fails with ErrDuplicateIdentity.
func (s *Service) CompleteRegistration(ctx context.Context, name, email, password string) (User, error) {
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return User{}, ErrDuplicateIdentity
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}

	// Best effort: a leftover challenge would expire on its own anyway.
	_ = s.verifier.DiscardSubject(ctx, email)

	return user, nil
}

// RequestPasswordReset issues a reset code without revealing whether the email
// is registered; unregistered addresses receive a code that can never complete
// the flow.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (verification.Challenge, error) {
	name := "there"
	if user, err := s.repo.FindByEmail(ctx, email); err == nil {
		name = user.Name
	}
	return s.verifier.Issue(ctx, verification.IssueInput{Subject: email, Name: name})
}

// ResetInput carries the final step of the password reset protocol.
type ResetInput struct {
	Email    string
	Code     string
	Token    string
	Password string
}

// ResetPassword re-validates the still-undeleted challenge, rejects a reset to
// the current password, persists the new hash, and only then discards the
// challenge.
func (s *Service) ResetPassword(ctx context.Context, in ResetInput) error {
	ch, err := s.verifier.Consume(ctx, verification.Exact(in.Email, in.Code, in.Token))
	if err != nil {
		return err
	}

	user, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(in.Password)) == nil {
		return ErrSamePassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), hashCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	return s.verifier.Discard(ctx, ch)
}

// RequestEmailChange issues a code to the caller's current mailbox binding the
// new address as the challenge target.
func (s *Service) RequestEmailChange(ctx context.Context, userID, newEmail string) (verification.Challenge, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return verification.Challenge{}, err
	}
	if newEmail == user.Email {
		return verification.Challenge{}, ErrSameEmail
	}
	return s.verifier.Issue(ctx, verification.IssueInput{Subject: user.Email, Target: newEmail, Name: user.Name})
}

// ChangeEmailInput carries the final step of the email change protocol.
type ChangeEmailInput struct {
	NewEmail string
	Code     string
	Token    string
}

// ChangeEmail re-validates the challenge including its target so a code issued
// for one destination cannot be replayed against another, checks the new
// address is not owned by a different account, applies the change, then
// discards the challenge.
func (s *Service) ChangeEmail(ctx context.Context, userID string, in ChangeEmailInput) (User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return User{}, err
	}

	ch, err := s.verifier.Consume(ctx, verification.ExactWithTarget(user.Email, in.Code, in.Token, in.NewEmail))
	if err != nil {
		return User{}, err
	}

	if owner, err := s.repo.FindByEmail(ctx, in.NewEmail); err == nil && owner.ID != user.ID {
		return User{}, ErrDuplicateIdentity
	} else if err != nil && !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	if err := s.repo.UpdateEmail(ctx, user.ID, in.NewEmail); err != nil {
		return User{}, err
	}
	if err := s.verifier.Discard(ctx, ch); err != nil {
		return User{}, err
	}

	user.Email = in.NewEmail
	return user, nil
}

// Authenticate verifies an email/password pair.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// Get returns the user for the given id.
func (s *Service) Get(ctx context.Context, userID string) (User, error) {
	return s.repo.FindByID(ctx, userID)
}

// UpdateName changes the caller's display name.
func (s *Service) UpdateName(ctx context.Context, userID, name string) (User, error) {
	if err := s.repo.UpdateName(ctx, userID, name); err != nil {
		return User{}, err
	}
	return s.repo.FindByID(ctx, userID)
}

// UpdatePassword changes the caller's password after checking the current one.
func (s *Service) UpdatePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	if current == next {
		return ErrSamePassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), hashCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, user.ID, hash)
}
