// Package common defines shared constants and sentinel errors used across
// the storefront client stores. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Transport-level errors.
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")

	// Local-store errors.
	ErrLocalDataNotAvailable = errors.New("local data unavailable")

	// Session errors (operation requires an authenticated session).
	ErrNotAuthenticated = errors.New("not authenticated")
)
