package client

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/tendant/simple-accounts/pkg/errors"
	"github.com/tendant/simple-accounts/pkg/response"
)

// AuthUser is the typed identity claim derived from a verified access
// token. It is owned by the request that decoded it and never persisted.
type AuthUser struct {
	AccountID string `json:"id"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	FullName  string `json:"full_name,omitempty"`

	// ID is AccountID parsed as a UUID, convenient for store lookups
	ID uuid.UUID `json:"-"`
}

func (u AuthUser) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("account_id", u.AccountID),
		slog.String("username", u.Username),
	)
}

// contextKey is a value for use with context.WithValue. It's used as
// a pointer so it fits in an interface{} without allocation.
type contextKey struct {
	name string
}

func (k *contextKey) String() string {
	return "client context value " + k.name
}

var AuthUserKey = &contextKey{"AuthUser"}

// NewAuthVerifier creates the jwtauth verifier for access tokens. The
// secret must be the access-token signing secret of the token codec.
func NewAuthVerifier(accessSecret []byte) *jwtauth.JWTAuth {
	return jwtauth.New("HS256", accessSecret, nil)
}

// AuthUserMiddleware converts verified JWT claims into an AuthUser and
// stores it on the request context. A claim without an account id is
// rejected even when the signature verified. Must run after
// jwtauth.Verifier and jwtauth.Authenticator.
func AuthUserMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			slog.Debug("Missing or invalid JWT", "err", err)
			response.Err(w, r, errors.Unauthorized("invalid token", errors.LocationHeaders))
			return
		}

		authUser, err := authUserFromClaims(claims)
		if err != nil {
			response.Err(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), AuthUserKey, authUser)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func authUserFromClaims(claims map[string]interface{}) (AuthUser, error) {
	var user AuthUser
	if v, ok := claims["id"].(string); ok {
		user.AccountID = v
	}
	if v, ok := claims["username"].(string); ok {
		user.Username = v
	}
	if v, ok := claims["email"].(string); ok {
		user.Email = v
	}
	if v, ok := claims["full_name"].(string); ok {
		user.FullName = v
	}

	if user.AccountID == "" {
		return AuthUser{}, errors.Unauthorized("invalid token", errors.LocationHeaders)
	}

	id, err := uuid.Parse(user.AccountID)
	if err != nil {
		return AuthUser{}, errors.Unauthorized("invalid token", errors.LocationHeaders)
	}
	user.ID = id

	return user, nil
}

// GetAuthUser returns the authenticated caller from the request context.
// The boolean is false on routes that did not run AuthUserMiddleware.
func GetAuthUser(r *http.Request) (AuthUser, bool) {
	user, ok := r.Context().Value(AuthUserKey).(AuthUser)
	return user, ok
}

// RequireOwner enforces the system's only access-control rule: the caller
// may touch a record only if they own it.
func RequireOwner(resourceOwnerID uuid.UUID, user AuthUser) error {
	if resourceOwnerID != user.ID {
		slog.Warn("Cross-account access denied", "resource_owner", resourceOwnerID, "caller", user)
		return errors.Unauthorized("access denied: you are not allowed to access this resource", errors.LocationParams)
	}
	return nil
}
