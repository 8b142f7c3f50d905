package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tendant/simple-accounts/pkg/account"
	"github.com/tendant/simple-accounts/pkg/client"
	"github.com/tendant/simple-accounts/pkg/errors"
	"github.com/tendant/simple-accounts/pkg/response"
)

// Handle serves the account profile routes. All routes require a verified
// access token; the single-record routes additionally require the caller
// to own the target account.
type Handle struct {
	accountService *account.Service
}

func NewHandle(accountService *account.Service) Handle {
	return Handle{
		accountService: accountService,
	}
}

// Routes mounts the account endpoints on the given router
func (h Handle) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Put("/{id}", h.Replace)
	r.Delete("/{id}", h.Disable)
	r.Delete("/{id}/permanent", h.Delete)
}

// List returns all active accounts
// (GET /users)
func (h Handle) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountService.List(r.Context())
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, r, toAccountResponses(accounts))
}

// Get returns a single account
// (GET /users/{id})
func (h Handle) Get(w http.ResponseWriter, r *http.Request) {
	id, _, err := h.ownedTarget(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	a, err := h.accountService.GetByID(r.Context(), id)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, r, toAccountResponse(a))
}

// Update merges the provided fields into the account profile
// (PATCH /users/{id})
func (h Handle) Update(w http.ResponseWriter, r *http.Request) {
	id, _, err := h.ownedTarget(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	var data UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		slog.Error("Failed to decode request body", "err", err)
		response.Err(w, r, errors.InvalidParameter("invalid request body", errors.LocationBody))
		return
	}

	updated, err := h.accountService.UpdateProfile(r.Context(), id, account.ProfileParams{
		Username: data.Username,
		Email:    data.Email,
		FullName: data.FullName,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, r, toAccountResponse(updated))
}

// Replace overwrites the account profile
// (PUT /users/{id})
func (h Handle) Replace(w http.ResponseWriter, r *http.Request) {
	id, _, err := h.ownedTarget(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	var data ReplaceAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		slog.Error("Failed to decode request body", "err", err)
		response.Err(w, r, errors.InvalidParameter("invalid request body", errors.LocationBody))
		return
	}

	if data.Username == "" || data.Email == "" {
		response.Err(w, r, errors.InvalidParameter("username and email are required", errors.LocationBody))
		return
	}

	updated, err := h.accountService.ReplaceProfile(r.Context(), id, data.Username, data.Email, data.FullName)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, r, toAccountResponse(updated))
}

// Disable soft-deletes the account and ends its session
// (DELETE /users/{id})
func (h Handle) Disable(w http.ResponseWriter, r *http.Request) {
	id, _, err := h.ownedTarget(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	if err := h.accountService.Disable(r.Context(), id); err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, r, map[string]string{"message": "account disabled"})
}

// Delete hard-removes the account
// (DELETE /users/{id}/permanent)
func (h Handle) Delete(w http.ResponseWriter, r *http.Request) {
	id, _, err := h.ownedTarget(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	if err := h.accountService.Delete(r.Context(), id); err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, r, map[string]string{"message": "account deleted"})
}

// ownedTarget parses the path id and checks the caller owns it
func (h Handle) ownedTarget(r *http.Request) (uuid.UUID, client.AuthUser, error) {
	user, ok := client.GetAuthUser(r)
	if !ok {
		slog.Error("Missing AuthUser in request context")
		return uuid.Nil, client.AuthUser{}, errors.Unauthorized("invalid token", errors.LocationHeaders)
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, client.AuthUser{}, errors.InvalidParameter("invalid account id", errors.LocationParams)
	}

	if err := client.RequireOwner(id, user); err != nil {
		return uuid.Nil, client.AuthUser{}, err
	}
	return id, user, nil
}
