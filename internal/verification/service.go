package verification

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/stacked-time/stacked_time/internal/mail"
)

const (
	codeMin   = 100000
	codeSpan  = 900000
	tokenSize = 32
)

// Service manages the lifecycle of one-time verification codes independent of
// what they gate.
type Service struct {
	ledger Ledger
	mailer mail.Mailer
}

// NewService builds a verification service instance.
func NewService(ledger Ledger, mailer mail.Mailer) *Service {
	return &Service{ledger: ledger, mailer: mailer}
}

// IssueInput captures data required to issue a challenge. Target is set only
// for email change requests; Name is used in the email copy.
type IssueInput struct {
	Subject string
	Target  string
	Name    string
}

// Issue mints a fresh code and token for the subject email, superseding any
// prior challenge, and dispatches the code by email. Resends go through the
// same path: the previous token becomes invalid as soon as a new challenge is
// inserted, so callers must treat the most recent token as authoritative.
//
// Delete-then-insert is not atomic across concurrent issues for the same
// subject; the last insert wins, matching the supersession policy.
func (s *Service) Issue(ctx context.Context, in IssueInput) (Challenge, error) {
	code, err := generateCode()
	if err != nil {
		return Challenge{}, fmt.Errorf("generate code: %w", err)
	}
	token, err := generateToken()
	if err != nil {
		return Challenge{}, fmt.Errorf("generate token: %w", err)
	}

	if err := s.ledger.DeleteAllForSubject(ctx, in.Subject); err != nil {
		return Challenge{}, err
	}

	ch := Challenge{
		ID:        uuid.NewString(),
		Subject:   in.Subject,
		Target:    in.Target,
		Code:      code,
		Token:     token,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.ledger.Insert(ctx, ch); err != nil {
		return Challenge{}, err
	}

	// A dispatch failure leaves the inserted challenge behind; it is
	// superseded by the next issue or reaped by the TTL.
	subject := mail.SubjectSignup
	body := mail.VerificationBody(in.Name, code)
	if in.Target != "" {
		subject = mail.SubjectEmailChange
		body = mail.EmailChangeBody(in.Name, in.Target, code)
	}
	if err := s.mailer.Send(ctx, in.Subject, subject, body); err != nil {
		return Challenge{}, fmt.Errorf("dispatch verification code: %w", err)
	}

	return ch, nil
}

// Consume validates that a live challenge matches the query exactly. It never
// deletes the challenge: deletion belongs to the caller once the gated
// mutation has been durably applied, so a verify step followed by a separate
// apply step does not lose the code on a transient failure in between.
func (s *Service) Consume(ctx context.Context, q Query) (Challenge, error) {
	return s.ledger.FindExact(ctx, q)
}

// Discard removes a challenge after its gated mutation landed.
func (s *Service) Discard(ctx context.Context, ch Challenge) error {
	return s.ledger.Delete(ctx, ch)
}

// DiscardSubject removes whatever challenge is live for the subject email.
// Used by flows that finish without a challenge handle on hand.
func (s *Service) DiscardSubject(ctx context.Context, subject string) error {
	return s.ledger.DeleteAllForSubject(ctx, subject)
}

// generateCode draws a 6-digit code uniformly from [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+codeMin), nil
}

// generateToken returns a hex-encoded 32-byte correlation handle.
func generateToken() (string, error) {
	buf := make([]byte, tokenSize)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
