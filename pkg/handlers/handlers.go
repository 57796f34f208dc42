// Package handlers provides JSON request decoding and response helpers shared
// by HTTP handlers.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

var (
	// ErrInvalidBody indicates the request body is not valid JSON for the target type.
	ErrInvalidBody = errors.New("invalid request body")
	// ErrBodyTooLarge indicates the request body exceeded the configured limit.
	ErrBodyTooLarge = errors.New("request body too large")
)

// ErrorResponse is the JSON envelope written for failed requests.
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// RespondJSON writes data as JSON with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs err and writes an ErrorResponse. Server-side failures
// (5xx) are logged at error level and reported with the generic status text
// so internal details are not leaked to callers.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	msg := err.Error()

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
		msg = http.StatusText(status)
	} else {
		logger.Debug("request rejected", "status", status, "error", err)
	}

	RespondJSON(w, status, ErrorResponse{OK: false, Error: msg})
}

// DecodeJSON decodes the request body into a value of type T.
// Returns ErrBodyTooLarge when a MaxBytesReader limit was hit and
// ErrInvalidBody for empty or malformed JSON.
func DecodeJSON[T any](r *http.Request) (T, error) {
	var v T

	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return v, fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, maxErr.Limit)
		}
		if errors.Is(err, io.EOF) {
			return v, fmt.Errorf("%w: empty body", ErrInvalidBody)
		}
		return v, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}

	return v, nil
}

// MapHTTPStatus maps decoding errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrBodyTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
