// Package errors provides standardized error handling for the HTTP layer.
package errors

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeActivityNotFound    ErrorCode = "ACTIVITY_NOT_FOUND"
	ErrCodeParticipantNotFound ErrorCode = "PARTICIPANT_NOT_FOUND"
	ErrCodeAlreadySignedUp     ErrorCode = "ALREADY_SIGNED_UP"

	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeMethodNotAllowed ErrorCode = "METHOD_NOT_ALLOWED"

	ErrCodeEventPublishFailed ErrorCode = "EVENT_PUBLISH_FAILED"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// HTTPStatus returns the response status for the error code.
func (e *StandardError) HTTPStatus() int {
	return GetHTTPStatus(e.Code)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewActivityNotFoundError is returned for an unknown activity name.
func NewActivityNotFoundError(activityName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeActivityNotFound,
		Message:   "Activity not found",
		Details:   fmt.Sprintf("activity: %s", activityName),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewParticipantNotFoundError is returned when unregistering an email that is not signed up.
func NewParticipantNotFoundError(activityName, email string) *StandardError {
	return &StandardError{
		Code:      ErrCodeParticipantNotFound,
		Message:   "Student is not registered for this activity",
		Details:   fmt.Sprintf("activity: %s, email: %s", activityName, email),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAlreadySignedUpError is returned for a duplicate signup.
func NewAlreadySignedUpError(activityName, email string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAlreadySignedUp,
		Message:   "Student is already signed up for this activity",
		Details:   fmt.Sprintf("activity: %s, email: %s", activityName, email),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewValidationError(field, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   fmt.Sprintf("Invalid request: %s", field),
		Details:   details,
		Retryable: false,
		Metadata:  map[string]interface{}{"field": field},
		Timestamp: time.Now().UTC(),
	}
}

func NewEventPublishFailedError(sink string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEventPublishFailed,
		Message:   fmt.Sprintf("Event sink '%s' failed", sink),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. HTTP Mapping
// ==========================

// HTTPStatusMapping maps internal error codes to response statuses.
// A duplicate signup is reported as 400, not 409.
var HTTPStatusMapping = map[ErrorCode]int{
	ErrCodeActivityNotFound:    http.StatusNotFound,
	ErrCodeParticipantNotFound: http.StatusNotFound,
	ErrCodeAlreadySignedUp:     http.StatusBadRequest,
	ErrCodeValidationFailed:    http.StatusUnprocessableEntity,
	ErrCodeMethodNotAllowed:    http.StatusMethodNotAllowed,
	ErrCodeEventPublishFailed:  http.StatusBadGateway,
	ErrCodeInternal:            http.StatusInternalServerError,
}

// GetHTTPStatus returns the mapped status, or 500 for unknown codes.
func GetHTTPStatus(code ErrorCode) int {
	if status, ok := HTTPStatusMapping[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ==========================
// 4. Utility Functions
// ==========================

// IsClientError reports whether the code maps to a 4xx status.
func IsClientError(code ErrorCode) bool {
	status := GetHTTPStatus(code)
	return status >= 400 && status < 500
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "ACTIVITY"):
		return "ACTIVITY"
	case strings.Contains(codeStr, "PARTICIPANT") || strings.Contains(codeStr, "SIGNED_UP"):
		return "PARTICIPANT"
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "METHOD"):
		return "VALIDATION"
	case strings.Contains(codeStr, "EVENT"):
		return "EVENTS"
	default:
		return "OTHER"
	}
}
