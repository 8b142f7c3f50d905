package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tendant/simple-accounts/pkg/auth"
	"github.com/tendant/simple-accounts/pkg/client"
	"github.com/tendant/simple-accounts/pkg/errors"
	"github.com/tendant/simple-accounts/pkg/response"
)

// Handle serves the credential lifecycle routes
type Handle struct {
	authService *auth.Service
}

func NewHandle(authService *auth.Service) Handle {
	return Handle{
		authService: authService,
	}
}

// Routes mounts the unauthenticated endpoints
func (h Handle) Routes(r chi.Router) {
	r.Post("/register", h.Register)
	r.Get("/verify-email", h.VerifyEmail)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
	r.Post("/password-reset/init", h.InitPasswordReset)
	r.Post("/password-reset", h.ResetPassword)
}

// ProtectedRoutes mounts the endpoints that require a verified access token
func (h Handle) ProtectedRoutes(r chi.Router) {
	r.Post("/logout", h.Logout)
	r.Put("/password", h.ChangePassword)
}

// Register creates a new unverified account
// (POST /auth/register)
func (h Handle) Register(w http.ResponseWriter, r *http.Request) {
	var data RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		slog.Error("Failed to decode request body", "err", err)
		response.Err(w, r, errors.InvalidParameter("invalid request body", errors.LocationBody))
		return
	}

	created, err := h.authService.Register(r.Context(), auth.RegisterParams{
		Username: data.Username,
		Email:    data.Email,
		FullName: data.FullName,
		Password: data.Password,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}

	response.Created(w, r, RegisterResponse{
		ID:       created.ID.String(),
		Username: created.Username,
		Email:    created.Email,
		FullName: created.FullName,
	})
}

// VerifyEmail consumes a verification token from the emailed link
// (GET /auth/verify-email?token=...)
func (h Handle) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	verificationToken := r.URL.Query().Get("token")
	if err := h.authService.VerifyEmail(r.Context(), verificationToken); err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, r, MessageResponse{Message: "email verified"})
}

// Login opens a session
// (POST /auth/login)
func (h Handle) Login(w http.ResponseWriter, r *http.Request) {
	var data LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		slog.Error("Failed to decode request body", "err", err)
		response.Err(w, r, errors.InvalidParameter("invalid request body", errors.LocationBody))
		return
	}

	if data.Username == "" || data.Password == "" {
		response.Err(w, r, errors.InvalidParameter("username and password are required", errors.LocationBody))
		return
	}

	pair, err := h.authService.Login(r.Context(), data.Username, data.Password)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, r, toTokenResponse(pair))
}

// Refresh rotates the session tokens
// (POST /auth/refresh)
func (h Handle) Refresh(w http.ResponseWriter, r *http.Request) {
	var data RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		slog.Error("Failed to decode request body", "err", err)
		response.Err(w, r, errors.InvalidParameter("invalid request body", errors.LocationBody))
		return
	}

	if data.RefreshToken == "" {
		response.Err(w, r, errors.InvalidParameter("refresh_token is required", errors.LocationBody))
		return
	}

	pair, err := h.authService.Refresh(r.Context(), data.RefreshToken)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, r, toTokenResponse(pair))
}

// Logout ends the caller's session
// (POST /auth/logout)
func (h Handle) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := client.GetAuthUser(r)
	if !ok {
		slog.Error("Missing AuthUser in request context")
		response.Err(w, r, errors.Unauthorized("invalid token", errors.LocationHeaders))
		return
	}

	if err := h.authService.Logout(r.Context(), user.ID); err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, r, MessageResponse{Message: "logged out"})
}

// InitPasswordReset starts the forgot-password flow. It always reports
// success so the endpoint cannot be used to enumerate accounts.
// (POST /auth/password-reset/init)
func (h Handle) InitPasswordReset(w http.ResponseWriter, r *http.Request) {
	var data PasswordResetInitRequest
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		slog.Error("Failed to decode request body", "err", err)
		response.Err(w, r, errors.InvalidParameter("invalid request body", errors.LocationBody))
		return
	}

	if err := h.authService.InitPasswordReset(r.Context(), data.Email); err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, r, MessageResponse{Message: "if the email is registered, a reset link has been sent"})
}

// ResetPassword completes the forgot-password flow
// (POST /auth/password-reset)
func (h Handle) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var data PasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		slog.Error("Failed to decode request body", "err", err)
		response.Err(w, r, errors.InvalidParameter("invalid request body", errors.LocationBody))
		return
	}

	if err := h.authService.ResetPassword(r.Context(), data.Token, data.NewPassword); err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, r, MessageResponse{Message: "password has been reset"})
}

// ChangePassword replaces the caller's password
// (PUT /auth/password)
func (h Handle) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := client.GetAuthUser(r)
	if !ok {
		slog.Error("Missing AuthUser in request context")
		response.Err(w, r, errors.Unauthorized("invalid token", errors.LocationHeaders))
		return
	}

	var data ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		slog.Error("Failed to decode request body", "err", err)
		response.Err(w, r, errors.InvalidParameter("invalid request body", errors.LocationBody))
		return
	}

	if data.CurrentPassword == "" || data.NewPassword == "" {
		response.Err(w, r, errors.InvalidParameter("current password and new password are required", errors.LocationBody))
		return
	}

	if err := h.authService.ChangePassword(r.Context(), user.ID, data.CurrentPassword, data.NewPassword); err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, r, MessageResponse{Message: "password updated"})
}

func toTokenResponse(pair auth.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresAt:    pair.ExpiresAt,
	}
}
