package api

import (
	"time"

	"github.com/jinzhu/copier"
	"github.com/tendant/simple-accounts/pkg/account"
)

// AccountResponse is the caller-visible projection of an account. Secret
// material (password hash, lifecycle tokens) never leaves the service.
type AccountResponse struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UpdateAccountRequest is a partial profile update. Absent fields are left
// unchanged.
type UpdateAccountRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	FullName *string `json:"full_name,omitempty"`
}

// ReplaceAccountRequest overwrites the whole profile
type ReplaceAccountRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

func toAccountResponse(a account.Account) AccountResponse {
	var resp AccountResponse
	copier.Copy(&resp, &a)
	resp.ID = a.ID.String()
	return resp
}

func toAccountResponses(accounts []account.Account) []AccountResponse {
	resp := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		resp = append(resp, toAccountResponse(a))
	}
	return resp
}
