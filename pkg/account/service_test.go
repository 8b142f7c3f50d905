package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-accounts/pkg/errors"
)

func seedService(t *testing.T) (*Service, *InMemRepository, Account) {
	t.Helper()
	repo := NewInMemRepository()
	svc := NewService(repo)

	created, err := repo.Create(context.Background(), newAccount("alice", "alice@x.com"))
	require.NoError(t, err)
	return svc, repo, created
}

func TestServiceUpdateProfileRejectsTakenUsername(t *testing.T) {
	svc, repo, alice := seedService(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, newAccount("bob", "bob@x.com"))
	require.NoError(t, err)

	taken := "bob"
	_, err = svc.UpdateProfile(ctx, alice.ID, ProfileParams{Username: &taken})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidParameter))

	// keeping your own username is not a conflict
	own := "alice"
	_, err = svc.UpdateProfile(ctx, alice.ID, ProfileParams{Username: &own})
	assert.NoError(t, err)
}

func TestServiceUpdateProfileRejectsTakenEmail(t *testing.T) {
	svc, repo, alice := seedService(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, newAccount("bob", "bob@x.com"))
	require.NoError(t, err)

	taken := "bob@x.com"
	_, err = svc.UpdateProfile(ctx, alice.ID, ProfileParams{Email: &taken})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidParameter))

	// keeping your own email is not a conflict
	own := "alice@x.com"
	_, err = svc.UpdateProfile(ctx, alice.ID, ProfileParams{Email: &own})
	assert.NoError(t, err)
}

func TestServiceReplaceProfile(t *testing.T) {
	svc, _, alice := seedService(t)
	ctx := context.Background()

	updated, err := svc.ReplaceProfile(ctx, alice.ID, "alice2", "alice2@x.com", "Alice Two")
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
	assert.Equal(t, "alice2@x.com", updated.Email)
	assert.Equal(t, "Alice Two", updated.FullName)
}

func TestServiceDisableThenGetFails(t *testing.T) {
	svc, _, alice := seedService(t)
	ctx := context.Background()

	require.NoError(t, svc.Disable(ctx, alice.ID))

	_, err := svc.GetByID(ctx, alice.ID)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))

	// disabling twice reports not found
	err = svc.Disable(ctx, alice.ID)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}

func TestServiceList(t *testing.T) {
	svc, repo, _ := seedService(t)
	ctx := context.Background()

	bob, err := repo.Create(ctx, newAccount("bob", "bob@x.com"))
	require.NoError(t, err)
	require.NoError(t, svc.Disable(ctx, bob.ID))

	accounts, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
	assert.Equal(t, "alice", accounts[0].Username)
}
