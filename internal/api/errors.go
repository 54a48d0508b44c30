// errors.go - Structured error handling for API responses
package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIError represents a structured API error response. The underlying cause
// is carried separately from the rendered Details so internal detail is only
// exposed when the error handler is built with verbose mode on.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`

	cause error
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.cause
}

// Error constructors for consistent error handling

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string, cause error) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "BAD_REQUEST",
		Message: message,
		cause:   cause,
	}
}

// NewValidationError creates a 400 validation error for a specific field
func NewValidationError(field string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("validation failed for field: %s", field),
	}
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(resource string, id string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// NewStateConflictError creates a 400 error for a status transition
// requested from an illegal state. The message names the current status.
func NewStateConflictError(message string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "STATE_CONFLICT",
		Message: message,
	}
}

// NewUpstreamError creates a 500 error for an external processor failure
func NewUpstreamError(message string, cause error) *APIError {
	return &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "UPSTREAM_ERROR",
		Message: message,
		cause:   cause,
	}
}

// NewInternalError creates a 500 Internal Server Error
func NewInternalError(message string, cause error) *APIError {
	return &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: message,
		cause:   cause,
	}
}

// NewErrorHandler builds the Echo HTTPErrorHandler. With verbose on, the
// underlying cause of an error is rendered in the Details field; otherwise
// internal detail never leaks to clients.
// Usage: e.HTTPErrorHandler = api.NewErrorHandler(cfg.Advanced.VerboseErrors)
func NewErrorHandler(verbose bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var apiErr *APIError

		switch e := err.(type) {
		case *APIError:
			apiErr = e
			if verbose && apiErr.cause != nil && apiErr.Details == "" {
				apiErr.Details = apiErr.cause.Error()
			}
		case *echo.HTTPError:
			apiErr = &APIError{
				Status:  e.Code,
				Code:    "HTTP_ERROR",
				Message: fmt.Sprintf("%v", e.Message),
			}
		default:
			apiErr = &APIError{
				Status:  http.StatusInternalServerError,
				Code:    "UNKNOWN_ERROR",
				Message: "An unexpected error occurred",
			}
			if verbose {
				apiErr.Details = err.Error()
			}
		}

		c.JSON(apiErr.Status, apiErr)
	}
}
