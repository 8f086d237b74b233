package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorCode classifies operation failures so handlers can map them to HTTP
// statuses without inspecting message strings.
type ErrorCode string

const (
	CodeValidation  ErrorCode = "VALIDATION_ERROR"
	CodeConflict    ErrorCode = "CONFLICT"
	CodeForbidden   ErrorCode = "FORBIDDEN"
	CodeNotFound    ErrorCode = "NOT_FOUND"
	CodeUnavailable ErrorCode = "UNAVAILABLE"
)

// Error is the service-layer error type. Field is set for validation errors
// so the caller knows which constraint was violated.
type Error struct {
	Code    ErrorCode
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func Validation(field, message string) *Error {
	return &Error{Code: CodeValidation, Field: field, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

// Forbidden is surfaced uniformly regardless of why, so a caller cannot
// probe for tenant or request existence.
func Forbidden() *Error {
	return &Error{Code: CodeForbidden, Message: "not authorized for this action"}
}

func NotFound(resource string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

func statusFor(code ErrorCode) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeConflict:
		return http.StatusConflict
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Respond maps a service error to the standard JSON envelope. Unclassified
// errors become a generic 500 so internals never leak.
func Respond(c echo.Context, err error) error {
	var appErr *Error
	if errors.As(err, &appErr) {
		var details map[string]string
		if appErr.Field != "" {
			details = map[string]string{appErr.Field: appErr.Message}
		}
		return c.JSON(statusFor(appErr.Code), CreateErrorResponse(string(appErr.Code), appErr.Message, details))
	}
	return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", "operation could not be completed", nil))
}
