/**
 * @description
 * Error taxonomy shared across services and handlers.
 * Services return these; handlers map them to HTTP status codes.
 *
 * @dependencies
 * - standard "errors" and "fmt"
 */

package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a missing league, member, portfolio or profile.
	ErrNotFound = errors.New("not found")

	// ErrLeagueLocked rejects draft mutations while the league lock flag is set.
	ErrLeagueLocked = errors.New("league is locked")

	// ErrInvalidCode marks a join code that is not exactly 4 numeric digits,
	// or a code that resolves to no active league.
	ErrInvalidCode = errors.New("invalid join code")

	// ErrCodeTaken marks a join code already used by another active league.
	ErrCodeTaken = errors.New("join code already taken")

	// ErrForbidden marks an owner-only operation attempted by a non-owner.
	ErrForbidden = errors.New("forbidden")

	// ErrExternalService marks an upstream provider or data store failure.
	ErrExternalService = errors.New("external service error")
)

// ValidationError carries a user-facing message for a rejected input
// (allocation sum off, malformed percentage, non-positive budget).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, v ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, v...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PriceUnavailableError aborts an allocation computation when a symbol has no
// usable price. The whole draft conversion is atomic: one bad price fails all lines.
type PriceUnavailableError struct {
	Symbol string
}

func (e *PriceUnavailableError) Error() string {
	return fmt.Sprintf("no usable price for %s", e.Symbol)
}

// IsPriceUnavailable reports whether err is a PriceUnavailableError.
func IsPriceUnavailable(err error) bool {
	var pe *PriceUnavailableError
	return errors.As(err, &pe)
}
