package reports

import (
	"errors"
	"net/http"
)

// Domain errors for report operations.
var (
	ErrValidation       = errors.New("invalid report request")
	ErrNotFound         = errors.New("report not found")
	ErrStoreUnavailable = errors.New("report store unavailable")
)

// MapHTTPStatus maps report domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrValidation) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrStoreUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
