package response

import (
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/tendant/simple-accounts/pkg/errors"
)

// ErrorDetail is the caller-visible shape of a single error.
// Location identifies whether the fault originates from the request body,
// parameters, headers, or the server itself.
type ErrorDetail struct {
	Description string `json:"description"`
	Message     string `json:"message"`
	Location    string `json:"location"`
}

// Envelope is the uniform response body. Every response carries the chi
// request id as process_id so callers can correlate logs. Success responses
// carry an empty error list.
type Envelope struct {
	Status    string        `json:"status"`
	ProcessID string        `json:"process_id"`
	Data      interface{}   `json:"data,omitempty"`
	Errors    []ErrorDetail `json:"errors"`
}

// OK renders a 200 response with the given payload
func OK(w http.ResponseWriter, r *http.Request, data interface{}) {
	JSON(w, r, http.StatusOK, data)
}

// Created renders a 201 response with the given payload
func Created(w http.ResponseWriter, r *http.Request, data interface{}) {
	JSON(w, r, http.StatusCreated, data)
}

// JSON renders a success envelope with the given status code
func JSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	render.Status(r, status)
	render.JSON(w, r, Envelope{
		Status:    http.StatusText(status),
		ProcessID: middleware.GetReqID(r.Context()),
		Data:      data,
		Errors:    []ErrorDetail{},
	})
}

// Err renders an error envelope. Structured errors map to their HTTP status
// and location; anything else is logged and surfaced as a generic
// UNEXPECTED error so internal causes never leak to the caller.
func Err(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := errors.MapErrorCodeToHTTPStatus(code)

	message := "internal server error"
	var e *errors.Error
	if code != errors.ErrCodeUnexpected && stderrors.As(err, &e) {
		message = e.Message
	}

	if status >= http.StatusInternalServerError {
		slog.Error("Request failed", "process_id", middleware.GetReqID(r.Context()), "err", err)
	}

	render.Status(r, status)
	render.JSON(w, r, Envelope{
		Status:    http.StatusText(status),
		ProcessID: middleware.GetReqID(r.Context()),
		Errors: []ErrorDetail{
			{
				Description: string(code),
				Message:     message,
				Location:    string(errors.GetLocation(err)),
			},
		},
	})
}
