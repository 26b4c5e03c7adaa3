package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// Logger is the subset of logger.Logger the handler needs.
type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// ErrorResponse is the JSON body written for failed requests.
type ErrorResponse struct {
	Detail string    `json:"detail"`
	Code   ErrorCode `json:"code"`
}

type ErrorHandler struct {
	logger Logger
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// WriteError normalizes err, logs it and writes the JSON error response.
func (h *ErrorHandler) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := h.normalizeError(err)
	status := stdErr.HTTPStatus()

	h.logError(r, stdErr, status)

	WriteJSON(w, status, ErrorResponse{
		Detail: stdErr.Message,
		Code:   stdErr.Code,
	})
}

func (h *ErrorHandler) normalizeError(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func (h *ErrorHandler) logError(r *http.Request, stdErr *StandardError, status int) {
	if h.logger == nil {
		return
	}

	fields := map[string]interface{}{
		"method":    r.Method,
		"path":      r.URL.Path,
		"status":    status,
		"errorCode": string(stdErr.Code),
		"category":  GetErrorCategory(stdErr.Code),
		"message":   stdErr.Message,
		"details":   stdErr.Details,
		"retryable": stdErr.Retryable,
	}

	if IsClientError(stdErr.Code) {
		h.logger.Warn("request rejected", fields)
		return
	}
	h.logger.Error("request failed", fields)
}

// WriteJSON writes v as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
