// Package errors provides structured error handling with error codes for simple-accounts.
//
// This package standardizes error handling across all services with typed error codes,
// request locations, and automatic HTTP status code mapping.
//
// # Overview
//
// The errors package provides:
//   - Structured Error type with error codes
//   - Request location tagging (body, params, headers, server)
//   - Error wrapping with context
//   - HTTP status code mapping
//   - Error inspection utilities
//
// # Basic Usage
//
// Creating errors with codes:
//
//	import "github.com/tendant/simple-accounts/pkg/errors"
//
//	// Create a simple error
//	err := errors.NotFound("account", accountID)
//
//	// Create an authentication failure
//	err := errors.Unauthorized("incorrect username or password", errors.LocationBody)
//
//	// Wrap an internal failure; the cause is logged, never shown to the caller
//	err := errors.Unexpected(dbErr)
//
// Inspecting errors:
//
//	if errors.IsCode(err, errors.ErrCodeUnauthorized) {
//		// handle authentication failure
//	}
//
//	status := errors.MapErrorCodeToHTTPStatus(errors.GetCode(err))
package errors
