package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-accounts/pkg/account"
	"github.com/tendant/simple-accounts/pkg/errors"
	"github.com/tendant/simple-accounts/pkg/notification"
	"github.com/tendant/simple-accounts/pkg/password"
	"github.com/tendant/simple-accounts/pkg/token"
)

const minPasswordLength = 8

// RegisterParams holds the fields for a new registration
type RegisterParams struct {
	Username string
	Email    string
	FullName string
	Password string
}

// TokenPair is the result of a successful login or refresh
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresAt    time.Time
}

// Service implements the credential lifecycle: registration, email
// verification, login, refresh rotation, logout, and the password reset and
// change flows.
//
// At most one refresh token is live per account. Login and refresh both
// overwrite the stored token, so any previously issued refresh token stops
// working even before it expires.
type Service struct {
	repo     account.Repository
	hasher   password.Hasher
	codec    *token.Codec
	notifier *notification.NotificationManager
}

// Option is a function that configures a Service
type Option func(*Service)

// WithNotificationManager enables verification and reset emails. Without
// it the lifecycle still works but sends nothing.
func WithNotificationManager(nm *notification.NotificationManager) Option {
	return func(s *Service) {
		s.notifier = nm
	}
}

// NewService creates a new credential lifecycle service
func NewService(repo account.Repository, hasher password.Hasher, codec *token.Codec, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		hasher: hasher,
		codec:  codec,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a new unverified account and sends the verification
// email. The username and email pre-checks are advisory; the store's unique
// constraints are authoritative and a concurrent duplicate surfaces as the
// same conflict error.
func (s *Service) Register(ctx context.Context, params RegisterParams) (account.Account, error) {
	if params.Username == "" || params.Email == "" {
		return account.Account{}, errors.InvalidParameter("username and email are required", errors.LocationBody)
	}
	if err := validatePassword(params.Password); err != nil {
		return account.Account{}, err
	}

	if _, err := s.repo.GetByUsername(ctx, params.Username); err == nil {
		return account.Account{}, errors.InvalidParameter("there is already a user with that username", errors.LocationBody)
	} else if !errors.IsCode(err, errors.ErrCodeNotFound) {
		return account.Account{}, err
	}
	if _, err := s.repo.GetByEmail(ctx, params.Email); err == nil {
		return account.Account{}, errors.InvalidParameter("there is already a user with that email", errors.LocationBody)
	} else if !errors.IsCode(err, errors.ErrCodeNotFound) {
		return account.Account{}, err
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return account.Account{}, err
	}

	verificationToken, err := token.Opaque()
	if err != nil {
		return account.Account{}, errors.Unexpected(err)
	}

	created, err := s.repo.Create(ctx, account.Account{
		Username:          params.Username,
		Email:             params.Email,
		FullName:          params.FullName,
		PasswordHash:      hash,
		VerificationToken: &verificationToken,
	})
	if err != nil {
		// A concurrent duplicate slips past the advisory pre-checks and
		// hits the store's unique index; callers see the same parameter
		// error either way.
		if errors.IsCode(err, errors.ErrCodeConflict) {
			return account.Account{}, errors.InvalidParameter("username or email is already taken", errors.LocationBody)
		}
		return account.Account{}, err
	}

	slog.Info("Account registered", "account_id", created.ID, "username", created.Username)
	s.sendVerificationEmail(created, verificationToken)
	return created, nil
}

// VerifyEmail consumes a verification token and activates the account. The
// token is single use; a second call with the same token fails because the
// stored token was cleared by the first.
func (s *Service) VerifyEmail(ctx context.Context, verificationToken string) error {
	if verificationToken == "" {
		return errors.InvalidParameter("verification token is required", errors.LocationParams)
	}

	a, err := s.repo.GetByVerificationToken(ctx, verificationToken)
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeNotFound) {
			return errors.Unauthorized("invalid or expired verification token", errors.LocationParams)
		}
		return err
	}

	if err := s.repo.MarkVerified(ctx, a.ID); err != nil {
		return err
	}
	slog.Info("Account email verified", "account_id", a.ID)
	return nil
}

// Login checks the credentials and opens a session. The same error comes
// back for an unknown username and a wrong password so callers cannot probe
// which usernames exist.
func (s *Service) Login(ctx context.Context, username, pass string) (TokenPair, error) {
	a, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeNotFound) {
			return TokenPair{}, errors.Unauthorized("incorrect username or password", errors.LocationBody)
		}
		return TokenPair{}, err
	}

	if err := s.hasher.Verify(pass, a.PasswordHash); err != nil {
		slog.Warn("Login failed", "username", username)
		return TokenPair{}, err
	}

	if !a.IsVerified {
		return TokenPair{}, errors.Unauthorized("email address is not verified", errors.LocationBody)
	}

	pair, err := s.issueTokenPair(ctx, a)
	if err != nil {
		return TokenPair{}, err
	}
	slog.Info("Login succeeded", "account_id", a.ID)
	return pair, nil
}

// Refresh rotates the session. The presented token must both verify
// cryptographically and match the token currently stored on the account; a
// superseded token still verifies but no longer matches and is rejected.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.codec.Verify(refreshToken, token.RefreshToken)
	if err != nil {
		return TokenPair{}, err
	}

	id, err := uuid.Parse(claims.AccountID)
	if err != nil {
		return TokenPair{}, errors.Unauthorized("invalid token", errors.LocationHeaders)
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeNotFound) {
			return TokenPair{}, errors.Unauthorized("invalid token", errors.LocationHeaders)
		}
		return TokenPair{}, err
	}

	if a.RefreshToken == nil || *a.RefreshToken != refreshToken {
		slog.Warn("Refresh token mismatch", "account_id", a.ID)
		return TokenPair{}, errors.Unauthorized("invalid token", errors.LocationHeaders)
	}

	pair, err := s.issueTokenPair(ctx, a)
	if err != nil {
		return TokenPair{}, err
	}
	slog.Info("Session refreshed", "account_id", a.ID)
	return pair, nil
}

// Logout ends the session by clearing the stored refresh token. Issued
// access tokens remain valid until they expire.
func (s *Service) Logout(ctx context.Context, accountID uuid.UUID) error {
	if err := s.repo.SetRefreshToken(ctx, accountID, nil); err != nil {
		return err
	}
	slog.Info("Logged out", "account_id", accountID)
	return nil
}

// InitPasswordReset starts the reset flow for the given email. It reports
// success whether or not the email is registered, so callers cannot use it
// to enumerate accounts.
func (s *Service) InitPasswordReset(ctx context.Context, email string) error {
	if email == "" {
		return errors.InvalidParameter("email is required", errors.LocationBody)
	}

	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeNotFound) {
			slog.Info("Password reset requested for unknown email")
			return nil
		}
		return err
	}

	resetToken, err := token.Opaque()
	if err != nil {
		return errors.Unexpected(err)
	}
	if err := s.repo.SetPasswordResetToken(ctx, a.ID, &resetToken); err != nil {
		return err
	}

	slog.Info("Password reset initiated", "account_id", a.ID)
	s.sendPasswordResetEmail(a, resetToken)
	return nil
}

// ResetPassword consumes a reset token and installs a new password. The
// token is single use, and any open session is invalidated.
func (s *Service) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if resetToken == "" {
		return errors.InvalidParameter("reset token is required", errors.LocationBody)
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	a, err := s.repo.GetByPasswordResetToken(ctx, resetToken)
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeNotFound) {
			return errors.Unauthorized("invalid or expired reset token", errors.LocationBody)
		}
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, a.ID, hash); err != nil {
		return err
	}
	if err := s.repo.SetRefreshToken(ctx, a.ID, nil); err != nil {
		return err
	}

	slog.Info("Password reset completed", "account_id", a.ID)
	return nil
}

// ChangePassword replaces the password for an authenticated caller after
// re-checking the current one. The session stays open.
func (s *Service) ChangePassword(ctx context.Context, accountID uuid.UUID, currentPassword, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	a, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	if err := s.hasher.Verify(currentPassword, a.PasswordHash); err != nil {
		slog.Warn("Password change rejected, current password mismatch", "account_id", accountID)
		return errors.Unauthorized("current password is incorrect", errors.LocationBody)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, accountID, hash); err != nil {
		return err
	}

	slog.Info("Password changed", "account_id", accountID)
	return nil
}

func (s *Service) issueTokenPair(ctx context.Context, a account.Account) (TokenPair, error) {
	claims := token.Claims{
		AccountID: a.ID.String(),
		Username:  a.Username,
		Email:     a.Email,
		FullName:  a.FullName,
	}

	accessToken, expiresAt, err := s.codec.Issue(claims, token.AccessToken)
	if err != nil {
		return TokenPair{}, errors.Unexpected(err)
	}
	refreshToken, _, err := s.codec.Issue(claims, token.RefreshToken)
	if err != nil {
		return TokenPair{}, errors.Unexpected(err)
	}

	if err := s.repo.SetRefreshToken(ctx, a.ID, &refreshToken); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *Service) sendVerificationEmail(a account.Account, verificationToken string) {
	if s.notifier == nil {
		return
	}
	link := fmt.Sprintf("%s/auth/verify-email?token=%s", s.notifier.BaseUrl, verificationToken)
	go func() {
		err := s.notifier.Send(notification.EmailVerification, notification.NotificationData{
			To: a.Email,
			Data: map[string]string{
				"Name":             a.FullName,
				"VerificationLink": link,
			},
		})
		if err != nil {
			slog.Error("Failed to send verification email", "account_id", a.ID, "err", err)
		}
	}()
}

func (s *Service) sendPasswordResetEmail(a account.Account, resetToken string) {
	if s.notifier == nil {
		return
	}
	link := fmt.Sprintf("%s/auth/password-reset?token=%s", s.notifier.BaseUrl, resetToken)
	go func() {
		err := s.notifier.Send(notification.PasswordResetInit, notification.NotificationData{
			To: a.Email,
			Data: map[string]string{
				"Name": a.FullName,
				"Link": link,
			},
		})
		if err != nil {
			slog.Error("Failed to send password reset email", "account_id", a.ID, "err", err)
		}
	}()
}

func validatePassword(pass string) error {
	if len(pass) < minPasswordLength {
		return errors.InvalidParameter(
			fmt.Sprintf("password must be at least %d characters", minPasswordLength),
			errors.LocationBody)
	}
	return nil
}
