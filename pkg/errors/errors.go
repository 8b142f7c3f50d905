package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique error code
type ErrorCode string

// Error codes used across all packages
const (
	// ErrCodeInvalidParameter covers malformed or duplicate input
	// (username taken, product code taken, weak password, bad body).
	ErrCodeInvalidParameter ErrorCode = "INVALID_PARAMETER"

	// ErrCodeUnauthorized covers bad credentials, bad/expired/mismatched
	// tokens, unverified accounts and cross-account access.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// ErrCodeNotFound is returned when a referenced record is absent.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeConflict is returned when a store-level unique constraint is
	// violated despite the application pre-check passing.
	ErrCodeConflict ErrorCode = "CONFLICT"

	// ErrCodeUnexpected covers everything else, including store and
	// transport failures. Never shown verbatim to the caller.
	ErrCodeUnexpected ErrorCode = "UNEXPECTED"
)

// Location identifies where the fault originates in the request.
type Location string

const (
	LocationBody    Location = "request.body"
	LocationParams  Location = "request.params"
	LocationHeaders Location = "request.headers"
	LocationServer  Location = "server"
)

// Error represents a structured error with code, message and location
type Error struct {
	Code     ErrorCode // Unique error code
	Message  string    // Human-readable error message
	Location Location  // Where the fault originates
	Err      error     // Wrapped underlying error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error for errors.Is and errors.As
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatusCode returns the appropriate HTTP status code for this error
func (e *Error) HTTPStatusCode() int {
	return MapErrorCodeToHTTPStatus(e.Code)
}

// New creates a new Error with the given code, message and location
func New(code ErrorCode, message string, location Location) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Location: location,
	}
}

// Wrap wraps an existing error with code and message. The wrapped cause is
// kept for logging but is not part of the caller-visible message.
func Wrap(err error, code ErrorCode, message string, location Location) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:     code,
		Message:  message,
		Location: location,
		Err:      err,
	}
}

// IsCode checks if an error has a specific error code
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
// Returns ErrCodeUnexpected if the error is not a structured Error
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeUnexpected
}

// GetLocation extracts the location from an error
// Returns LocationServer if the error is not a structured Error
func GetLocation(err error) Location {
	var e *Error
	if errors.As(err, &e) {
		return e.Location
	}
	return LocationServer
}

// MapErrorCodeToHTTPStatus maps error codes to HTTP status codes
func MapErrorCodeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidParameter:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeUnexpected:
		fallthrough
	default:
		return http.StatusInternalServerError
	}
}

// Common error constructors for frequently used errors

// InvalidParameter creates an "invalid parameter" error
func InvalidParameter(message string, location Location) *Error {
	return New(ErrCodeInvalidParameter, message, location)
}

// Unauthorized creates an "unauthorized" error.
// The message must not reveal whether the account exists or which
// credential check failed.
func Unauthorized(message string, location Location) *Error {
	return New(ErrCodeUnauthorized, message, location)
}

// NotFound creates a "not found" error
func NotFound(resourceType, identifier string) *Error {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found: %s", resourceType, identifier), LocationParams)
}

// Conflict creates a "conflict" error for store-level uniqueness violations
func Conflict(message string) *Error {
	return New(ErrCodeConflict, message, LocationBody)
}

// Unexpected wraps an internal error with a generic caller-visible message
func Unexpected(err error) *Error {
	return Wrap(err, ErrCodeUnexpected, "internal server error", LocationServer)
}
