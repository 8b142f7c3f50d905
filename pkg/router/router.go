package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	accountapi "github.com/tendant/simple-accounts/pkg/account/api"
	authapi "github.com/tendant/simple-accounts/pkg/auth/api"
	"github.com/tendant/simple-accounts/pkg/client"
	productapi "github.com/tendant/simple-accounts/pkg/product/api"
	"github.com/tendant/simple-accounts/pkg/ratelimit"
)

// Config holds the handlers and the access-token verifier needed to mount
// the routes
type Config struct {
	AuthHandle    authapi.Handle
	AccountHandle accountapi.Handle
	ProductHandle productapi.Handle

	// AuthVerifier checks access tokens on the protected routes
	AuthVerifier *jwtauth.JWTAuth

	// CredentialLimiter throttles the public credential endpoints per
	// client IP. Optional; nil disables throttling.
	CredentialLimiter *ratelimit.Limiter
}

// SetupRoutes mounts all routes on the provided router. The lifecycle
// entry points stay public; everything else requires a verified access
// token and runs behind the identity middleware.
func SetupRoutes(router chi.Router, cfg Config) {
	router.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if cfg.CredentialLimiter != nil {
				r.Use(ratelimit.Middleware(cfg.CredentialLimiter))
			}
			cfg.AuthHandle.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(cfg.AuthVerifier))
			r.Use(jwtauth.Authenticator(cfg.AuthVerifier))
			r.Use(client.AuthUserMiddleware)
			cfg.AuthHandle.ProtectedRoutes(r)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(cfg.AuthVerifier))
		r.Use(jwtauth.Authenticator(cfg.AuthVerifier))
		r.Use(client.AuthUserMiddleware)

		r.Route("/users", cfg.AccountHandle.Routes)
		r.Route("/products", cfg.ProductHandle.Routes)
	})
}
