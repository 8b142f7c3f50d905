package token

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-accounts/pkg/errors"
)

func newTestCodec() *Codec {
	return NewCodec(
		WithKind(AccessToken, "access-secret", DefaultAccessTokenExpiry),
		WithKind(RefreshToken, "refresh-secret", DefaultRefreshTokenExpiry),
		WithIssuer("simple-accounts"),
		WithAudience("public"),
	)
}

func TestIssueAndVerify(t *testing.T) {
	codec := newTestCodec()

	claims := Claims{
		AccountID: "acc-1",
		Username:  "alice",
		Email:     "alice@x.com",
		FullName:  "Alice Smith",
	}

	tokenStr, expiry, err := codec.Issue(claims, AccessToken)
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)
	assert.WithinDuration(t, time.Now().UTC().Add(DefaultAccessTokenExpiry), expiry, time.Minute)

	got, err := codec.Verify(tokenStr, AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", got.AccountID)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "alice@x.com", got.Email)
	assert.Equal(t, "Alice Smith", got.FullName)
}

func TestIssueRequiresAccountID(t *testing.T) {
	codec := newTestCodec()

	_, _, err := codec.Issue(Claims{Username: "alice"}, AccessToken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "account id")
}

func TestIssueUnknownKind(t *testing.T) {
	codec := newTestCodec()

	_, _, err := codec.Issue(Claims{AccountID: "acc-1"}, Kind("temp_token"))
	require.Error(t, err)
}

func TestVerifyWrongKindSecret(t *testing.T) {
	codec := newTestCodec()

	// A valid access token must not verify as a refresh token: the kinds
	// sign with different secrets.
	tokenStr, _, err := codec.Issue(Claims{AccountID: "acc-1"}, AccessToken)
	require.NoError(t, err)

	_, err = codec.Verify(tokenStr, RefreshToken)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, ErrTokenInvalid))
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnauthorized))
}

func TestVerifyExpired(t *testing.T) {
	codec := NewCodec(
		WithKind(AccessToken, "access-secret", -time.Minute),
	)

	tokenStr, _, err := codec.Issue(Claims{AccountID: "acc-1"}, AccessToken)
	require.NoError(t, err)

	_, err = codec.Verify(tokenStr, AccessToken)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, ErrTokenExpired))
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnauthorized))
}

func TestVerifyGarbage(t *testing.T) {
	codec := newTestCodec()

	_, err := codec.Verify("not.a.token", AccessToken)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, ErrTokenInvalid))
}

func TestExpiredAndInvalidLookAlikeToCaller(t *testing.T) {
	expired := NewCodec(WithKind(AccessToken, "access-secret", -time.Minute))
	tokenStr, _, err := expired.Issue(Claims{AccountID: "acc-1"}, AccessToken)
	require.NoError(t, err)

	_, expiredErr := expired.Verify(tokenStr, AccessToken)
	_, invalidErr := expired.Verify("garbage", AccessToken)

	var e1, e2 *errors.Error
	require.True(t, stderrors.As(expiredErr, &e1))
	require.True(t, stderrors.As(invalidErr, &e2))
	assert.Equal(t, e1.Message, e2.Message, "caller must not learn why verification failed")
	assert.Equal(t, e1.Code, e2.Code)
}

func TestOpaque(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 32; i++ {
		tok, err := Opaque()
		require.NoError(t, err)
		assert.NotEmpty(t, tok)
		assert.False(t, seen[tok], "opaque tokens must be unguessable and unique")
		seen[tok] = true
	}
}
