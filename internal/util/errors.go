// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
var (
	ErrInvalidInput  = errors.New("invalid input provided")
	ErrMissingField  = errors.New("missing required field")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrNotConfigured = errors.New("package ID not configured")
	ErrStore         = errors.New("ledger store failure") // Backend failures; never produced by the in-memory store
)

// IsError reports whether any error in err's chain matches target.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
