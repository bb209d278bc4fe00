package calculation

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned when a request is missing a required top-level field
	// or breaks a cross-field rule (to before from, refixed pay without a date).
	ErrInvalidRequest = errors.New("invalid arrear request")

	// ErrCalculationFailed is returned when the month loop aborts unexpectedly.
	// No partial statement accompanies it.
	ErrCalculationFailed = errors.New("calculation failed")

	// ErrUnknownCommission is returned for a pay commission the engine has no increment rule for.
	ErrUnknownCommission = errors.New("unknown pay commission")
)

// ValidationError names the offending request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidRequest
}

// CalculationError wraps whatever aborted a statement build.
type CalculationError struct {
	Cause error
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("calculation failed: %v", e.Cause)
}

func (e *CalculationError) Unwrap() []error {
	return []error{ErrCalculationFailed, e.Cause}
}

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) || errors.Is(err, ErrUnknownCommission)
}
