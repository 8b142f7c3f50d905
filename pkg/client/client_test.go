package client

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-accounts/pkg/errors"
	"github.com/tendant/simple-accounts/pkg/token"
)

const testSecret = "test-access-secret"

func newCodec(expiry time.Duration) *token.Codec {
	return token.NewCodec(token.WithKind(token.AccessToken, testSecret, expiry))
}

func protectedRouter(captured *AuthUser) http.Handler {
	ja := NewAuthVerifier([]byte(testSecret))
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(ja))
		r.Use(jwtauth.Authenticator(ja))
		r.Use(AuthUserMiddleware)
		r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetAuthUser(r)
			if !ok {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			*captured = user
			w.WriteHeader(http.StatusOK)
		})
	})
	return r
}

func TestAuthUserMiddleware(t *testing.T) {
	accountID := uuid.New()
	codec := newCodec(time.Minute)

	tokenStr, _, err := codec.Issue(token.Claims{
		AccountID: accountID.String(),
		Username:  "alice",
		Email:     "alice@x.com",
		FullName:  "Alice Smith",
	}, token.AccessToken)
	require.NoError(t, err)

	var got AuthUser
	srv := protectedRouter(&got)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokenStr)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, accountID, got.ID)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "alice@x.com", got.Email)
}

func TestAuthUserMiddlewareRejectsMissingToken(t *testing.T) {
	var got AuthUser
	srv := protectedRouter(&got)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthUserMiddlewareRejectsExpiredToken(t *testing.T) {
	codec := newCodec(-time.Minute)
	tokenStr, _, err := codec.Issue(token.Claims{AccountID: uuid.NewString()}, token.AccessToken)
	require.NoError(t, err)

	var got AuthUser
	srv := protectedRouter(&got)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokenStr)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthUserFromClaimsRequiresAccountID(t *testing.T) {
	_, err := authUserFromClaims(map[string]interface{}{"username": "alice"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnauthorized))

	_, err = authUserFromClaims(map[string]interface{}{"id": "not-a-uuid"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnauthorized))
}

func TestRequireOwner(t *testing.T) {
	owner := uuid.New()
	user := AuthUser{AccountID: owner.String(), ID: owner}

	assert.NoError(t, RequireOwner(owner, user))

	err := RequireOwner(uuid.New(), user)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnauthorized))
}
