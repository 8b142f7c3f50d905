package account

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for account persistence. Lookups exclude
// soft-deleted accounts. Every mutation is a single-document atomic update;
// the store-level unique constraints on username and email are
// authoritative, application pre-checks are advisory only.
type Repository interface {
	// Lookups
	GetByID(ctx context.Context, id uuid.UUID) (Account, error)
	GetByUsername(ctx context.Context, username string) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
	GetByVerificationToken(ctx context.Context, token string) (Account, error)
	GetByPasswordResetToken(ctx context.Context, token string) (Account, error)
	List(ctx context.Context) ([]Account, error)

	// Create inserts a new account. A unique violation on username or
	// email surfaces as a conflict error even when the pre-check passed.
	Create(ctx context.Context, account Account) (Account, error)

	// UpdateProfile merges the non-nil profile fields into the account
	UpdateProfile(ctx context.Context, id uuid.UUID, params ProfileParams) (Account, error)

	// Replace overwrites username, email and full name in one write
	Replace(ctx context.Context, id uuid.UUID, username, email, fullName string) (Account, error)

	// Session and lifecycle token operations
	SetRefreshToken(ctx context.Context, id uuid.UUID, token *string) error
	MarkVerified(ctx context.Context, id uuid.UUID) error
	SetPasswordResetToken(ctx context.Context, id uuid.UUID, token *string) error

	// UpdatePassword replaces the password hash and clears any pending
	// reset token in the same write.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	// Disable soft-deletes the account and clears its refresh token
	Disable(ctx context.Context, id uuid.UUID) error

	// Delete hard-removes the account
	Delete(ctx context.Context, id uuid.UUID) error
}
