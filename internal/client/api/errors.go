package api

import (
	"errors"
	"fmt"

	"github.com/smartbookcity/storefront/internal/common"
)

// APIError is a non-2xx response from the backend, carrying the
// human-readable message the server put in its {"message": ...} body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error (status %d)", e.Status)
}

// Unwrap maps auth statuses onto the shared sentinel so callers can use
// errors.Is(err, common.ErrUnauthorized).
func (e *APIError) Unwrap() error {
	if e.Status == 401 || e.Status == 403 {
		return common.ErrUnauthorized
	}
	return nil
}

// ErrorMessage extracts the server-provided message from err, if any.
// Returns "" for transport failures and non-API errors.
func ErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
