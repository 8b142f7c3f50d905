package account

import (
	"time"

	"github.com/google/uuid"
)

// Account represents one registered principal.
//
// The token fields mirror the account lifecycle: VerificationToken is
// non-nil only while email verification is pending, PasswordResetToken only
// while a reset is pending, and RefreshToken only while a session is
// active. At most one refresh token is outstanding per account; a new login
// overwrites the previous one, invalidating it.
type Account struct {
	ID           uuid.UUID
	Username     string
	Email        string
	FullName     string
	PasswordHash string

	IsVerified         bool
	VerificationToken  *string
	RefreshToken       *string
	PasswordResetToken *string

	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfileParams represents a partial profile update. Nil fields are left
// unchanged.
type ProfileParams struct {
	Username *string
	Email    *string
	FullName *string
}
