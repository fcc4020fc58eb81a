package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/stacked-time/stacked_time/internal/verification"
)

type nullMailer struct{}

func (nullMailer) Send(_ context.Context, _, _, _ string) error { return nil }

func newTestService() (*Service, Repository) {
	repo := NewMemoryRepository()
	verifier := verification.NewService(verification.NewMemoryLedger(600*time.Second), nullMailer{})
	return NewService(repo, verifier), repo
}

func register(t *testing.T, svc *Service, name, email, password string) User {
	t.Helper()
	ctx := context.Background()

	ch, err := svc.StartRegistration(ctx, name, email)
	require.NoError(t, err)
	require.NoError(t, svc.VerifyCode(ctx, verification.Exact(email, ch.Code, ch.Token)))

	user, err := svc.CompleteRegistration(ctx, name, email, password)
	require.NoError(t, err)
	return user
}

func TestRegistrationFlow(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user := register(t, svc, "Alice", "a@x.com", "Passw0rd!")
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "a@x.com", user.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword(user.PasswordHash, []byte("Passw0rd!")))

	// Once registered, a new signup for the same email fails before any
	// challenge is created.
	_, err := svc.StartRegistration(ctx, "Mallory", "a@x.com")
	assert.ErrorIs(t, err, ErrDuplicateIdentity)
}

func TestRegistrationDuplicateRace(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	ch, err := svc.StartRegistration(ctx, "Alice", "a@x.com")
	require.NoError(t, err)
	require.NoError(t, svc.VerifyCode(ctx, verification.Exact("a@x.com", ch.Code, ch.Token)))

	// Another registration lands between verification and completion.
	require.NoError(t, repo.Create(ctx, User{ID: "u-race", Name: "Racer", Email: "a@x.com", CreatedAt: time.Now()}))

	_, err = svc.CompleteRegistration(ctx, "Alice", "a@x.com", "Passw0rd!")
	assert.ErrorIs(t, err, ErrDuplicateIdentity)
}

func TestRegistrationResendInvalidatesPriorToken(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first, err := svc.StartRegistration(ctx, "Alice", "a@x.com")
	require.NoError(t, err)
	second, err := svc.StartRegistration(ctx, "Alice", "a@x.com")
	require.NoError(t, err)

	err = svc.VerifyCode(ctx, verification.Exact("a@x.com", first.Code, first.Token))
	assert.ErrorIs(t, err, verification.ErrInvalidChallenge)
	assert.NoError(t, svc.VerifyCode(ctx, verification.Exact("a@x.com", second.Code, second.Token)))
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	register(t, svc, "Alice", "a@x.com", "Passw0rd!")

	ch, err := svc.RequestPasswordReset(ctx, "a@x.com")
	require.NoError(t, err)

	// Resetting to the current password is rejected and must not consume the
	// challenge.
	err = svc.ResetPassword(ctx, ResetInput{Email: "a@x.com", Code: ch.Code, Token: ch.Token, Password: "Passw0rd!"})
	assert.ErrorIs(t, err, ErrSamePassword)
	assert.NoError(t, svc.VerifyCode(ctx, verification.Exact("a@x.com", ch.Code, ch.Token)))

	err = svc.ResetPassword(ctx, ResetInput{Email: "a@x.com", Code: ch.Code, Token: ch.Token, Password: "N3wPassw0rd!"})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "a@x.com", "N3wPassw0rd!")
	assert.NoError(t, err)
	_, err = svc.Authenticate(ctx, "a@x.com", "Passw0rd!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// The challenge is discarded after the mutation; the triple cannot be
	// replayed.
	err = svc.ResetPassword(ctx, ResetInput{Email: "a@x.com", Code: ch.Code, Token: ch.Token, Password: "An0therPass!"})
	assert.ErrorIs(t, err, verification.ErrInvalidChallenge)
}

func TestPasswordResetUnregisteredEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	// Issuance does not reveal whether the email is registered.
	ch, err := svc.RequestPasswordReset(ctx, "ghost@x.com")
	require.NoError(t, err)

	// The flow can never complete for an unknown account.
	err = svc.ResetPassword(ctx, ResetInput{Email: "ghost@x.com", Code: ch.Code, Token: ch.Token, Password: "Whatever1!"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEmailChangeFlow(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user := register(t, svc, "Alice", "a@x.com", "Passw0rd!")

	_, err := svc.RequestEmailChange(ctx, user.ID, "a@x.com")
	assert.ErrorIs(t, err, ErrSameEmail)

	ch, err := svc.RequestEmailChange(ctx, user.ID, "b@x.com")
	require.NoError(t, err)
	require.Equal(t, "b@x.com", ch.Target)

	// A code bound to b@x.com cannot be replayed against another target.
	err = svc.VerifyCode(ctx, verification.ExactWithTarget("a@x.com", ch.Code, ch.Token, "c@x.com"))
	assert.ErrorIs(t, err, verification.ErrInvalidChallenge)

	updated, err := svc.ChangeEmail(ctx, user.ID, ChangeEmailInput{NewEmail: "b@x.com", Code: ch.Code, Token: ch.Token})
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", updated.Email)

	// The account is reachable under the new address only.
	_, err = svc.Authenticate(ctx, "b@x.com", "Passw0rd!")
	assert.NoError(t, err)
	_, err = svc.Authenticate(ctx, "a@x.com", "Passw0rd!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Challenge gone after the mutation.
	_, err = svc.ChangeEmail(ctx, user.ID, ChangeEmailInput{NewEmail: "b@x.com", Code: ch.Code, Token: ch.Token})
	assert.ErrorIs(t, err, verification.ErrInvalidChallenge)
}

func TestEmailChangeCollision(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	alice := register(t, svc, "Alice", "a@x.com", "Passw0rd!")
	register(t, svc, "Bob", "b@x.com", "Passw0rd2!")

	ch, err := svc.RequestEmailChange(ctx, alice.ID, "b@x.com")
	require.NoError(t, err)

	_, err = svc.ChangeEmail(ctx, alice.ID, ChangeEmailInput{NewEmail: "b@x.com", Code: ch.Code, Token: ch.Token})
	assert.ErrorIs(t, err, ErrDuplicateIdentity)

	// The failed apply must not consume the challenge.
	assert.NoError(t, svc.VerifyCode(ctx, verification.ExactWithTarget("a@x.com", ch.Code, ch.Token, "b@x.com")))
}

func TestUpdatePassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user := register(t, svc, "Alice", "a@x.com", "Passw0rd!")

	err := svc.UpdatePassword(ctx, user.ID, "wrong", "N3wPassw0rd!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.UpdatePassword(ctx, user.ID, "Passw0rd!", "Passw0rd!")
	assert.ErrorIs(t, err, ErrSamePassword)

	require.NoError(t, svc.UpdatePassword(ctx, user.ID, "Passw0rd!", "N3wPassw0rd!"))
	_, err = svc.Authenticate(ctx, "a@x.com", "N3wPassw0rd!")
	assert.NoError(t, err)
}

func TestUpdateName(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user := register(t, svc, "Alice", "a@x.com", "Passw0rd!")

	updated, err := svc.UpdateName(ctx, user.ID, "Alice B")
	require.NoError(t, err)
	assert.Equal(t, "Alice B", updated.Name)
}
