package token

import (
	"crypto/rand"
	"encoding/base64"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tendant/simple-accounts/pkg/errors"
)

// Kind identifies a signed token family. Each kind signs with its own
// secret and carries its own expiry window.
type Kind string

const (
	AccessToken  Kind = "access_token"
	RefreshToken Kind = "refresh_token"
)

// Default token expiry durations
const (
	DefaultAccessTokenExpiry  = 30 * time.Minute
	DefaultRefreshTokenExpiry = 7 * 24 * time.Hour
)

// Sentinel causes for verification failures. Callers may branch on these
// with errors.Is, but both surface to the end user as the same
// authentication error.
var (
	ErrTokenExpired = stderrors.New("token has expired")
	ErrTokenInvalid = stderrors.New("invalid token or signature verification failed")
)

// Claims is the payload embedded in signed tokens. The account fields live
// at the top level of the JWT so the identity middleware can read them
// without a store lookup.
type Claims struct {
	AccountID string `json:"id"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	FullName  string `json:"full_name,omitempty"`
	jwt.RegisteredClaims
}

type kindConfig struct {
	secret []byte
	expiry time.Duration
}

// Codec issues and verifies signed, self-contained bearer tokens and
// generates opaque one-shot tokens for verification and reset links.
type Codec struct {
	kinds    map[Kind]kindConfig
	issuer   string
	audience string
}

// CodecOption is a function that configures a Codec
type CodecOption func(*Codec)

// WithKind registers the signing secret and expiry window for a token kind
func WithKind(kind Kind, secret string, expiry time.Duration) CodecOption {
	return func(c *Codec) {
		c.kinds[kind] = kindConfig{secret: []byte(secret), expiry: expiry}
	}
}

// WithIssuer sets the iss claim on issued tokens
func WithIssuer(issuer string) CodecOption {
	return func(c *Codec) {
		c.issuer = issuer
	}
}

// WithAudience sets the aud claim on issued tokens
func WithAudience(audience string) CodecOption {
	return func(c *Codec) {
		c.audience = audience
	}
}

// NewCodec creates a Codec. Kinds not registered via WithKind cannot issue
// or verify.
func NewCodec(opts ...CodecOption) *Codec {
	c := &Codec{
		kinds: make(map[Kind]kindConfig),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Issue creates a signed token of the given kind. The claims must carry an
// account id; issuing an anonymous token is a programming error and fails
// immediately.
func (c *Codec) Issue(claims Claims, kind Kind) (string, time.Time, error) {
	if claims.AccountID == "" {
		return "", time.Time{}, fmt.Errorf("token claims missing account id")
	}

	cfg, ok := c.kinds[kind]
	if !ok {
		return "", time.Time{}, fmt.Errorf("unknown token kind: %s", kind)
	}

	now := time.Now().UTC()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(cfg.expiry)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now.Add(-5 * time.Minute)),
		Issuer:    c.issuer,
		Subject:   claims.AccountID,
		ID:        uuid.New().String(),
		Audience:  jwt.ClaimStrings{c.audience},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := tok.SignedString(cfg.secret)
	if err != nil {
		slog.Error("Failed to sign JWT claim string", "kind", kind, "err", err)
		return "", time.Time{}, err
	}
	return ss, claims.ExpiresAt.Time, nil
}

// Verify parses and validates a token of the given kind. The returned error
// wraps ErrTokenExpired or ErrTokenInvalid for callers that need to branch
// on cause; either way the caller-visible code is Unauthorized.
func (c *Codec) Verify(tokenStr string, kind Kind) (Claims, error) {
	cfg, ok := c.kinds[kind]
	if !ok {
		return Claims{}, fmt.Errorf("unknown token kind: %s", kind)
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		return cfg.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, errors.Wrap(ErrTokenExpired, errors.ErrCodeUnauthorized, "invalid token", errors.LocationHeaders)
		}
		slog.Debug("Failed to parse JWT string", "kind", kind, "err", err)
		return Claims{}, errors.Wrap(ErrTokenInvalid, errors.ErrCodeUnauthorized, "invalid token", errors.LocationHeaders)
	}

	if claims.AccountID == "" {
		return Claims{}, errors.Wrap(ErrTokenInvalid, errors.ErrCodeUnauthorized, "invalid token", errors.LocationHeaders)
	}

	return claims, nil
}

// Secret returns the signing secret for a kind. Used to share the access
// secret with the jwtauth verifier middleware.
func (c *Codec) Secret(kind Kind) []byte {
	return c.kinds[kind].secret
}

// Opaque generates a cryptographically random, URL-safe token for one-shot
// links. This family is never decoded, only compared by value against the
// token stored on the account.
func Opaque() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
