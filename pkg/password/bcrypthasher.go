package password

import (
	stderrors "errors"

	"github.com/tendant/simple-accounts/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher implements Hasher using bcrypt. bcrypt generates a random
// salt per call, so hashing the same password twice yields different hashes.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher creates a BcryptHasher with the default cost
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{Cost: bcrypt.DefaultCost}
}

// Hash implements Hasher.Hash
func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.InvalidParameter("password cannot be empty", errors.LocationBody)
	}

	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", errors.Unexpected(err)
	}

	return string(hashedBytes), nil
}

// Verify implements Hasher.Verify. A mismatch surfaces as Unauthorized so
// callers can map it directly to an authentication failure.
func (h *BcryptHasher) Verify(password, hashedPassword string) error {
	if password == "" || hashedPassword == "" {
		return errors.Unauthorized("incorrect username or password", errors.LocationBody)
	}

	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if err != nil {
		if stderrors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return errors.Unauthorized("incorrect username or password", errors.LocationBody)
		}
		// A malformed stored hash is indistinguishable from a wrong
		// password as far as the caller is concerned.
		return errors.Unauthorized("incorrect username or password", errors.LocationBody)
	}

	return nil
}
