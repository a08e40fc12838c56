package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Process exit statuses reported by the limbcalc binary.
const (
	ExitSuccess       = 0   // The operation completed and every strategy agreed.
	ExitErrorGeneric  = 1   // Any failure without a more specific status.
	ExitErrorTimeout  = 2   // The -timeout deadline elapsed.
	ExitErrorMismatch = 3   // Two strategies returned different results.
	ExitErrorConfig   = 4   // Flags, environment or profile were invalid.
	ExitErrorCanceled = 130 // Interrupted by the user (SIGINT).
)

// ConfigError reports unusable user input: a bad flag, environment value or
// calibration profile.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A ConfigError holding the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// CalculationError wraps a failure raised while a strategy was computing a
// square, an exact quotient or an inverse.
type CalculationError struct {
	// Strategy names the algorithm that failed, if known.
	Strategy string
	// Cause is the underlying error.
	Cause error
}

// Error returns the message of the underlying cause, prefixed by the strategy
// name when one is set.
func (e CalculationError) Error() string {
	if e.Strategy == "" {
		return e.Cause.Error()
	}
	return e.Strategy + ": " + e.Cause.Error()
}

// Unwrap returns the wrapped cause.
func (e CalculationError) Unwrap() error { return e.Cause }

// TimeoutError reports that an operation exceeded its deadline.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the configured deadline.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// ValidationError reports a field that failed validation, such as a
// threshold table entry.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// ContractViolation is the panic value raised by the arithmetic core when a
// caller breaks a documented precondition: an even divisor where an odd one
// is required, an operand of the wrong length, a non-exact division.
// Recovering callers may convert it to an error with AsContractViolation.
type ContractViolation struct {
	// Op names the operation whose precondition failed.
	Op string
	// Err is the violated condition.
	Err error
}

// Error returns "op: condition".
func (e ContractViolation) Error() string { return e.Op + ": " + e.Err.Error() }

// Unwrap returns the violated condition, so sentinel errors such as a
// "division not exact" value can be matched with errors.Is.
func (e ContractViolation) Unwrap() error { return e.Err }

// NewContractViolation returns a ContractViolation whose condition is the
// formatted message.
func NewContractViolation(op, format string, a ...any) ContractViolation {
	return ContractViolation{Op: op, Err: fmt.Errorf(format, a...)}
}

// AsContractViolation converts a recovered panic value to an error. It
// returns nil when r is not a ContractViolation, leaving the caller to
// re-panic.
//
// Parameters:
//   - r: The value returned by recover().
//
// Returns:
//   - error: The ContractViolation as an error, or nil.
func AsContractViolation(r any) error {
	if cv, ok := r.(ContractViolation); ok {
		return cv
	}
	return nil
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError reports whether err is a context cancellation or deadline
// error, possibly wrapped.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFor maps an error to the process exit status.
//
// Parameters:
//   - err: The error returned by a command, possibly nil.
//
// Returns:
//   - int: One of the Exit* constants.
func ExitCodeFor(err error) int {
	var (
		cfgErr     ConfigError
		valErr     ValidationError
		timeoutErr TimeoutError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &timeoutErr):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &cfgErr), errors.As(err, &valErr):
		return ExitErrorConfig
	default:
		return ExitErrorGeneric
	}
}
