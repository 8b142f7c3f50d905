package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-accounts/pkg/account"
	"github.com/tendant/simple-accounts/pkg/errors"
	"github.com/tendant/simple-accounts/pkg/notification"
	"github.com/tendant/simple-accounts/pkg/password"
	"github.com/tendant/simple-accounts/pkg/token"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T, opts ...Option) (*Service, *account.InMemRepository) {
	t.Helper()
	repo := account.NewInMemRepository()
	codec := token.NewCodec(
		token.WithKind(token.AccessToken, "access-secret", time.Minute),
		token.WithKind(token.RefreshToken, "refresh-secret", time.Hour),
	)
	svc := NewService(repo, &password.BcryptHasher{Cost: bcrypt.MinCost}, codec, opts...)
	return svc, repo
}

func register(t *testing.T, svc *Service) account.Account {
	t.Helper()
	created, err := svc.Register(context.Background(), RegisterParams{
		Username: "alice",
		Email:    "alice@x.com",
		FullName: "Alice Smith",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return created
}

func registerVerified(t *testing.T, svc *Service, repo *account.InMemRepository) account.Account {
	t.Helper()
	created := register(t, svc)

	stored, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.VerificationToken)
	require.NoError(t, svc.VerifyEmail(context.Background(), *stored.VerificationToken))
	return created
}

func TestRegisterCreatesUnverifiedAccount(t *testing.T) {
	svc, repo := newTestService(t)

	created := register(t, svc)
	assert.False(t, created.IsVerified)
	assert.NotNil(t, created.VerificationToken)
	assert.NotEqual(t, "correct-horse", created.PasswordHash)
	assert.Equal(t, 1, repo.Count())
}

func TestRegisterDuplicateLeavesStoreUnchanged(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	register(t, svc)

	_, err := svc.Register(ctx, RegisterParams{
		Username: "alice", Email: "other@x.com", Password: "correct-horse",
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidParameter))

	_, err = svc.Register(ctx, RegisterParams{
		Username: "other", Email: "alice@x.com", Password: "correct-horse",
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidParameter))

	assert.Equal(t, 1, repo.Count())
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), RegisterParams{
		Username: "alice", Email: "alice@x.com", Password: "short",
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidParameter))
}

func TestVerifyEmailTokenIsSingleUse(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created := register(t, svc)
	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	verificationToken := *stored.VerificationToken

	require.NoError(t, svc.VerifyEmail(ctx, verificationToken))

	stored, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsVerified)
	assert.Nil(t, stored.VerificationToken)

	// the consumed token no longer works
	err = svc.VerifyEmail(ctx, verificationToken)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnauthorized))
}

func TestLoginRejectsUnverifiedAccount(t *testing.T) {
	svc, _ := newTestService(t)

	register(t, svc)

	_, err := svc.Login(context.Background(), "alice", "correct-horse")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnauthorized))
}

func TestLoginWrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	registerVerified(t, svc, repo)

	_, errWrongPass := svc.Login(ctx, "alice", "wrong-password")
	_, errUnknown := svc.Login(ctx, "nobody", "correct-horse")

	require.Error(t, errWrongPass)
	require.Error(t, errUnknown)
	assert.Equal(t, errors.GetCode(errWrongPass), errors.GetCode(errUnknown))
	assert.Equal(t, errWrongPass.Error(), errUnknown.Error())
}

func TestLoginIssuesTokenPairAndStoresRefresh(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created := registerVerified(t, svc, repo)

	pair, err := svc.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "bearer", pair.TokenType)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.ExpiresAt.After(time.Now()))

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.RefreshToken)
	assert.Equal(t, pair.RefreshToken, *stored.RefreshToken)
}

func TestRefreshRotatesAndRejectsSuperseded(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	registerVerified(t, svc, repo)

	first, err := svc.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)

	second, err := svc.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// the superseded token still verifies cryptographically but is rejected
	_, err = svc.Refresh(ctx, first.RefreshToken)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnauthorized))

	// the current one keeps working
	_, err = svc.Refresh(ctx, second.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnauthorized))
}

func TestLogoutInvalidatesRefreshToken(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created := registerVerified(t, svc, repo)
	pair, err := svc.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, created.ID))

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnauthorized))
}

func TestInitPasswordResetIsEnumerationSafe(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created := registerVerified(t, svc, repo)

	// unknown email reports success and stores nothing
	require.NoError(t, svc.InitPasswordReset(ctx, "nobody@x.com"))

	require.NoError(t, svc.InitPasswordReset(ctx, "alice@x.com"))
	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.PasswordResetToken)
}

func TestResetPasswordFlow(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created := registerVerified(t, svc, repo)
	pair, err := svc.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)

	require.NoError(t, svc.InitPasswordReset(ctx, "alice@x.com"))
	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	resetToken := *stored.PasswordResetToken

	require.NoError(t, svc.ResetPassword(ctx, resetToken, "brand-new-password"))

	// old password stops working, new one works
	_, err = svc.Login(ctx, "alice", "correct-horse")
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnauthorized))
	_, err = svc.Login(ctx, "alice", "brand-new-password")
	assert.NoError(t, err)

	// the session open before the reset is gone
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnauthorized))

	// the reset token is single use
	err = svc.ResetPassword(ctx, resetToken, "another-password")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnauthorized))
}

func TestResetPasswordRejectsUnknownToken(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.ResetPassword(context.Background(), "bogus-token", "brand-new-password")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnauthorized))
}

func TestChangePassword(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created := registerVerified(t, svc, repo)

	err := svc.ChangePassword(ctx, created.ID, "wrong-current", "brand-new-password")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnauthorized))

	require.NoError(t, svc.ChangePassword(ctx, created.ID, "correct-horse", "brand-new-password"))

	_, err = svc.Login(ctx, "alice", "brand-new-password")
	assert.NoError(t, err)
	_, err = svc.Login(ctx, "alice", "correct-horse")
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnauthorized))
}

func TestRegisterSendsVerificationEmail(t *testing.T) {
	mock := &notification.MockNotifier{}
	nm, err := notification.NewNotificationManager("http://localhost:4000",
		notification.WithNotifier(notification.EmailSystem, mock),
		notification.WithDefaultTemplates(),
	)
	require.NoError(t, err)

	svc, _ := newTestService(t, WithNotificationManager(nm))
	register(t, svc)

	// delivery is fire and forget
	assert.Eventually(t, func() bool {
		return len(mock.Sent()) == 1
	}, time.Second, 10*time.Millisecond)
	sent := mock.Sent()
	assert.Equal(t, "alice@x.com", sent[0].To)
	assert.Contains(t, sent[0].Data["VerificationLink"], "http://localhost:4000/auth/verify-email?token=")
}
