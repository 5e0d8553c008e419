package service

import (
	"context"
	"errors"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sendmenow/sendmenow/internal/db"
	"github.com/sendmenow/sendmenow/internal/mail"
	"github.com/sendmenow/sendmenow/internal/model"
	"github.com/sendmenow/sendmenow/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport records outgoing messages instead of talking to SMTP.
type fakeTransport struct {
	sent []*mail.Message
	fail bool
}

func (t *fakeTransport) Send(_ context.Context, msg *mail.Message, _, _ string) (string, error) {
	if t.fail {
		return "", errors.New("smtp unavailable")
	}
	t.sent = append(t.sent, msg)
	return "fake-id", nil
}

func (t *fakeTransport) Configured() bool { return true }

func (t *fakeTransport) last() *mail.Message {
	if len(t.sent) == 0 {
		return nil
	}
	return t.sent[len(t.sent)-1]
}

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.Init("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))
	return database
}

type authEnv struct {
	service   *AuthService
	users     repository.UserRepository
	tokens    repository.ResetTokenRepository
	transport *fakeTransport
}

func newAuthEnv(t *testing.T) *authEnv {
	t.Helper()

	database := newTestDB(t)
	users := repository.NewUserRepository(database)
	tokens := repository.NewResetTokenRepository(database)
	transport := &fakeTransport{}
	mailer := mail.NewMailer(transport, false)

	return &authEnv{
		service: NewAuthService(
			users,
			tokens,
			mailer,
			"test-secret",
			time.Hour,
			time.Hour,
			"http://localhost:3000",
		),
		users:     users,
		tokens:    tokens,
		transport: transport,
	}
}

func TestRegisterCreatesUserAndSendsWelcome(t *testing.T) {
	env := newAuthEnv(t)

	user, err := env.service.Register(context.Background(), "alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)

	require.Len(t, env.transport.sent, 1)
	assert.Equal(t, "alice@example.com", env.transport.last().To)
	assert.Equal(t, "Welcome to SendMeNow!", env.transport.last().Subject)
}

func TestRegisterSucceedsWhenWelcomeEmailFails(t *testing.T) {
	env := newAuthEnv(t)
	env.transport.fail = true

	user, err := env.service.Register(context.Background(), "alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
}

func TestLogin(t *testing.T) {
	env := newAuthEnv(t)
	_, err := env.service.Register(context.Background(), "alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	user, token, err := env.service.Login("alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Name)
	require.NotEmpty(t, token)

	claims, err := env.service.VerifyJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims["name"])
	assert.Equal(t, "alice@example.com", claims["email"])
}

func TestLoginUniformErrorForBadCredentials(t *testing.T) {
	env := newAuthEnv(t)
	_, err := env.service.Register(context.Background(), "alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	_, _, err = env.service.Login("alice", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = env.service.Login("nobody", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyJWTRejectsTampering(t *testing.T) {
	env := newAuthEnv(t)
	token, err := env.service.GenerateJWT(&model.User{ID: 1, Name: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = env.service.VerifyJWT(token + "x")
	assert.Error(t, err)

	other := newAuthEnv(t)
	_, err = other.service.VerifyJWT(token)
	assert.NoError(t, err) // same secret in both envs

	wrongSecret := NewAuthService(env.users, env.tokens, mail.NewMailer(env.transport, false),
		"different-secret", time.Hour, time.Hour, "http://localhost:3000")
	_, err = wrongSecret.VerifyJWT(token)
	assert.Error(t, err)
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	env := newAuthEnv(t)

	err := env.service.ForgotPassword(context.Background(), "ghost@example.com")
	require.NoError(t, err)
	assert.Empty(t, env.transport.sent)

	count, err := env.tokens.LiveCountByEmail("ghost@example.com")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestForgotPasswordIssuesSingleLiveToken(t *testing.T) {
	env := newAuthEnv(t)
	_, err := env.service.Register(context.Background(), "alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	env.transport.sent = nil

	require.NoError(t, env.service.ForgotPassword(context.Background(), "alice@example.com"))
	require.NoError(t, env.service.ForgotPassword(context.Background(), "alice@example.com"))

	count, err := env.tokens.LiveCountByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.Len(t, env.transport.sent, 2)
	assert.Contains(t, env.transport.last().ButtonURL, "/reset-password?token=")
	assert.Contains(t, env.transport.last().ButtonURL, "email=alice%40example.com")
}

// resetTokenFromEmail pulls the token out of the reset link in the last
// email, the same way a user following the link would.
func resetTokenFromEmail(t *testing.T, transport *fakeTransport) string {
	t.Helper()

	msg := transport.last()
	require.NotNil(t, msg)

	link, err := url.Parse(msg.ButtonURL)
	require.NoError(t, err)
	token := link.Query().Get("token")
	require.NotEmpty(t, token)
	return token
}

func TestResetPasswordFlow(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	_, err := env.service.Register(ctx, "alice", "alice@example.com", "old-password")
	require.NoError(t, err)

	require.NoError(t, env.service.ForgotPassword(ctx, "alice@example.com"))
	token := resetTokenFromEmail(t, env.transport)

	require.NoError(t, env.service.ResetPassword(token, "alice@example.com", "new-password"))

	_, _, err = env.service.Login("alice", "old-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = env.service.Login("alice", "new-password")
	assert.NoError(t, err)

	// The token is consumed by the first use
	err = env.service.ResetPassword(token, "alice@example.com", "another-password")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestResetPasswordRejectsExpiredToken(t *testing.T) {
	env := newAuthEnv(t)
	_, err := env.service.Register(context.Background(), "alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, env.tokens.Create(&model.ResetToken{
		UserEmail: "alice@example.com",
		Token:     "tok-expired",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	err = env.service.ResetPassword("tok-expired", "alice@example.com", "new-password")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestResetPasswordForMissingUser(t *testing.T) {
	env := newAuthEnv(t)

	// Token exists but no user row matches the email
	require.NoError(t, env.tokens.Create(&model.ResetToken{
		UserEmail: "orphan@example.com",
		Token:     "tok-orphan",
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	err := env.service.ResetPassword("tok-orphan", "orphan@example.com", "new-password")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
