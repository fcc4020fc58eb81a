package verification

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacked-time/stacked_time/internal/mail"
)

type captureMailer struct {
	to      string
	subject string
	body    string
	sends   int
	err     error
}

func (m *captureMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	m.sends++
	if m.err != nil {
		return m.err
	}
	m.to = to
	m.subject = subject
	m.body = htmlBody
	return nil
}

func newTestService() (*Service, *captureMailer) {
	mailer := &captureMailer{}
	return NewService(NewMemoryLedger(600*time.Second), mailer), mailer
}

func TestIssueAndConsume(t *testing.T) {
	svc, mailer := newTestService()
	ctx := context.Background()

	ch, err := svc.Issue(ctx, IssueInput{Subject: "a@x.com", Name: "Alice"})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^[1-9]\d{5}$`), ch.Code)
	assert.Len(t, ch.Token, 64)
	assert.Equal(t, "a@x.com", mailer.to)
	assert.Equal(t, mail.SubjectSignup, mailer.subject)
	assert.Contains(t, mailer.body, ch.Code)

	found, err := svc.Consume(ctx, Exact("a@x.com", ch.Code, ch.Token))
	require.NoError(t, err)
	assert.Equal(t, ch.ID, found.ID)

	// Consume validates only; the same triple stays usable until discarded.
	_, err = svc.Consume(ctx, Exact("a@x.com", ch.Code, ch.Token))
	require.NoError(t, err)
}

func TestIssueSupersedesPriorChallenge(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Issue(ctx, IssueInput{Subject: "a@x.com", Name: "Alice"})
	require.NoError(t, err)
	second, err := svc.Issue(ctx, IssueInput{Subject: "a@x.com", Name: "Alice"})
	require.NoError(t, err)

	_, err = svc.Consume(ctx, Exact("a@x.com", first.Code, first.Token))
	assert.ErrorIs(t, err, ErrInvalidChallenge)

	_, err = svc.Consume(ctx, Exact("a@x.com", second.Code, second.Token))
	assert.NoError(t, err)
}

func TestIssueEmailChangeCopy(t *testing.T) {
	svc, mailer := newTestService()
	ctx := context.Background()

	ch, err := svc.Issue(ctx, IssueInput{Subject: "a@x.com", Target: "b@x.com", Name: "Alice"})
	require.NoError(t, err)

	// The code goes to the current mailbox, not the new one.
	assert.Equal(t, "a@x.com", mailer.to)
	assert.Equal(t, mail.SubjectEmailChange, mailer.subject)
	assert.Contains(t, mailer.body, "b@x.com")
	assert.Equal(t, "b@x.com", ch.Target)
}

func TestConsumeTargetCrossBinding(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	ch, err := svc.Issue(ctx, IssueInput{Subject: "a@x.com", Target: "b@x.com", Name: "Alice"})
	require.NoError(t, err)

	_, err = svc.Consume(ctx, ExactWithTarget("a@x.com", ch.Code, ch.Token, "c@x.com"))
	assert.ErrorIs(t, err, ErrInvalidChallenge)

	_, err = svc.Consume(ctx, ExactWithTarget("a@x.com", ch.Code, ch.Token, "b@x.com"))
	assert.NoError(t, err)
}

func TestDiscardEndsChallenge(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	ch, err := svc.Issue(ctx, IssueInput{Subject: "a@x.com", Name: "Alice"})
	require.NoError(t, err)

	require.NoError(t, svc.Discard(ctx, ch))

	_, err = svc.Consume(ctx, Exact("a@x.com", ch.Code, ch.Token))
	assert.ErrorIs(t, err, ErrInvalidChallenge)
}

func TestIssueDispatchFailure(t *testing.T) {
	mailer := &captureMailer{err: errors.New("smtp unavailable")}
	svc := NewService(NewMemoryLedger(600*time.Second), mailer)
	ctx := context.Background()

	_, err := svc.Issue(ctx, IssueInput{Subject: "a@x.com", Name: "Alice"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dispatch verification code")
}
