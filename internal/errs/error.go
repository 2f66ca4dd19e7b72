package errs

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a version-guarded update matched no
	// rows: someone else mutated the reservation after our read.
	ErrConflict      = errors.New("reservation was modified concurrently")
	ErrAlreadyExists = errors.New("already exists")
	ErrForbidden     = errors.New("forbidden")
	ErrCredentials   = errors.New("invalid email or password")
)

// ValidationError marks malformed use-case input. Always reported to
// the caller as a bad request, never retried.
type ValidationError struct {
	msg string
}

func Validation(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string { return e.msg }

// StateError marks an operation attempted against a reservation in an
// incompatible status. The offending status is kept in the message for
// diagnosability.
type StateError struct {
	Op     string
	Status string
}

func State(op, status string) *StateError {
	return &StateError{Op: op, Status: status}
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s reservation with status: %s", e.Op, e.Status)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	var se *StateError
	return errors.As(err, &se)
}
