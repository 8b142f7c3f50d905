package account

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-accounts/pkg/errors"
)

// InMemRepository implements Repository with an in-memory map. It mirrors
// the PostgreSQL semantics, including the unique constraints among
// non-deleted accounts, and is used by service tests.
type InMemRepository struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]Account
}

// NewInMemRepository creates a new in-memory account repository
func NewInMemRepository() *InMemRepository {
	return &InMemRepository{
		accounts: make(map[uuid.UUID]Account),
	}
}

// Count returns the number of non-deleted accounts. Test helper.
func (r *InMemRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, a := range r.accounts {
		if !a.IsDeleted {
			n++
		}
	}
	return n
}

func (r *InMemRepository) GetByID(ctx context.Context, id uuid.UUID) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[id]
	if !ok || a.IsDeleted {
		return Account{}, errors.NotFound("account", id.String())
	}
	return a, nil
}

func (r *InMemRepository) GetByUsername(ctx context.Context, username string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.Username == username && !a.IsDeleted {
			return a, nil
		}
	}
	return Account{}, errors.NotFound("account", username)
}

func (r *InMemRepository) GetByEmail(ctx context.Context, email string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.Email == email && !a.IsDeleted {
			return a, nil
		}
	}
	return Account{}, errors.NotFound("account", email)
}

func (r *InMemRepository) GetByVerificationToken(ctx context.Context, token string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.VerificationToken != nil && *a.VerificationToken == token && !a.IsDeleted {
			return a, nil
		}
	}
	return Account{}, errors.NotFound("account", "verification token")
}

func (r *InMemRepository) GetByPasswordResetToken(ctx context.Context, token string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.PasswordResetToken != nil && *a.PasswordResetToken == token && !a.IsDeleted {
			return a, nil
		}
	}
	return Account{}, errors.NotFound("account", "password reset token")
}

func (r *InMemRepository) List(ctx context.Context) ([]Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var accounts []Account
	for _, a := range r.accounts {
		if !a.IsDeleted {
			accounts = append(accounts, a)
		}
	}
	return accounts, nil
}

func (r *InMemRepository) Create(ctx context.Context, account Account) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.accounts {
		if existing.IsDeleted {
			continue
		}
		if existing.Username == account.Username || existing.Email == account.Email {
			return Account{}, errors.Conflict("username or email is already taken")
		}
	}

	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	r.accounts[account.ID] = account
	return account, nil
}

func (r *InMemRepository) UpdateProfile(ctx context.Context, id uuid.UUID, params ProfileParams) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[id]
	if !ok || a.IsDeleted {
		return Account{}, errors.NotFound("account", id.String())
	}

	if params.Username != nil {
		a.Username = *params.Username
	}
	if params.Email != nil {
		a.Email = *params.Email
	}
	if params.FullName != nil {
		a.FullName = *params.FullName
	}
	a.UpdatedAt = time.Now().UTC()

	r.accounts[id] = a
	return a, nil
}

func (r *InMemRepository) Replace(ctx context.Context, id uuid.UUID, username, email, fullName string) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[id]
	if !ok || a.IsDeleted {
		return Account{}, errors.NotFound("account", id.String())
	}

	a.Username = username
	a.Email = email
	a.FullName = fullName
	a.UpdatedAt = time.Now().UTC()

	r.accounts[id] = a
	return a, nil
}

func (r *InMemRepository) SetRefreshToken(ctx context.Context, id uuid.UUID, token *string) error {
	return r.update(id, func(a *Account) {
		a.RefreshToken = token
	})
}

func (r *InMemRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	return r.update(id, func(a *Account) {
		a.IsVerified = true
		a.VerificationToken = nil
	})
}

func (r *InMemRepository) SetPasswordResetToken(ctx context.Context, id uuid.UUID, token *string) error {
	return r.update(id, func(a *Account) {
		a.PasswordResetToken = token
	})
}

func (r *InMemRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.update(id, func(a *Account) {
		a.PasswordHash = passwordHash
		a.PasswordResetToken = nil
	})
}

func (r *InMemRepository) Disable(ctx context.Context, id uuid.UUID) error {
	return r.update(id, func(a *Account) {
		a.IsDeleted = true
		a.RefreshToken = nil
	})
}

func (r *InMemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[id]; !ok {
		return errors.NotFound("account", id.String())
	}
	delete(r.accounts, id)
	return nil
}

func (r *InMemRepository) update(id uuid.UUID, fn func(*Account)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[id]
	if !ok || a.IsDeleted {
		return errors.NotFound("account", id.String())
	}

	fn(&a)
	a.UpdatedAt = time.Now().UTC()
	r.accounts[id] = a
	return nil
}
