package account

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tendant/simple-accounts/pkg/errors"
)

// Service provides account profile operations. Ownership of the target
// account is enforced at the route layer; the service enforces the data
// rules (uniqueness, soft-delete visibility).
type Service struct {
	repo Repository
}

// NewService creates a new account service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetByID returns a non-deleted account
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (Account, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all non-deleted accounts
func (s *Service) List(ctx context.Context) ([]Account, error) {
	return s.repo.List(ctx)
}

// UpdateProfile merges the non-nil fields into the account. The uniqueness
// pre-checks are advisory; the store-level unique indexes are authoritative
// and a conflict there surfaces as the same parameter error.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, params ProfileParams) (Account, error) {
	if params.Username != nil {
		if err := s.checkUsernameAvailable(ctx, *params.Username, id); err != nil {
			return Account{}, err
		}
	}
	if params.Email != nil {
		if err := s.checkEmailAvailable(ctx, *params.Email, id); err != nil {
			return Account{}, err
		}
	}

	updated, err := s.repo.UpdateProfile(ctx, id, params)
	if err != nil {
		return Account{}, translateConflict(err)
	}
	slog.Info("Account profile updated", "account_id", id)
	return updated, nil
}

// ReplaceProfile overwrites username, email and full name
func (s *Service) ReplaceProfile(ctx context.Context, id uuid.UUID, username, email, fullName string) (Account, error) {
	if err := s.checkUsernameAvailable(ctx, username, id); err != nil {
		return Account{}, err
	}
	if err := s.checkEmailAvailable(ctx, email, id); err != nil {
		return Account{}, err
	}

	updated, err := s.repo.Replace(ctx, id, username, email, fullName)
	if err != nil {
		return Account{}, translateConflict(err)
	}
	slog.Info("Account profile replaced", "account_id", id)
	return updated, nil
}

// Disable soft-deletes the account and invalidates its session
func (s *Service) Disable(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Disable(ctx, id); err != nil {
		return err
	}
	slog.Info("Account disabled", "account_id", id)
	return nil
}

// Delete hard-removes the account
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("Account deleted", "account_id", id)
	return nil
}

func (s *Service) checkUsernameAvailable(ctx context.Context, username string, selfID uuid.UUID) error {
	existing, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return errors.InvalidParameter("there is already a user with that username", errors.LocationBody)
	}
	return nil
}

func (s *Service) checkEmailAvailable(ctx context.Context, email string, selfID uuid.UUID) error {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return errors.InvalidParameter("there is already a user with that email", errors.LocationBody)
	}
	return nil
}

// translateConflict maps a store-level unique violation to the parameter
// error callers see. The CONFLICT code stays internal to the store layer.
func translateConflict(err error) error {
	if errors.IsCode(err, errors.ErrCodeConflict) {
		return errors.InvalidParameter("username or email is already taken", errors.LocationBody)
	}
	return err
}
