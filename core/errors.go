package core

import "fmt"

// InvalidTransactionError is raised for any domain violation: a malformed
// payload, a guard that failed, an invariant that would be broken. Its
// Message is part of the observable interface — callers and tests match on
// it verbatim, so handlers must never wrap or decorate it.
type InvalidTransactionError struct {
	Message string
}

func (e *InvalidTransactionError) Error() string { return e.Message }

// Invalid builds an InvalidTransactionError from a format string, mirroring
// the fixed vocabulary of domain messages enumerated in SPEC_FULL.md §4.
func Invalid(format string, args ...any) *InvalidTransactionError {
	return &InvalidTransactionError{Message: fmt.Sprintf(format, args...)}
}

// internalErrorMessage is the only message ever surfaced for a non-domain
// failure. The real cause is logged by the caller, never returned to the
// host, so that the interface stays constant across implementations.
const internalErrorMessage = "An unknown error has occured."

// InternalError wraps an unexpected failure (host I/O error, panic, bug).
// Its Error() always reports internalErrorMessage; Cause is kept for
// logging only.
type InternalError struct {
	Cause error
}

func (e *InternalError) Error() string { return internalErrorMessage }
func (e *InternalError) Unwrap() error { return e.Cause }

// Internalf builds an InternalError from a causal error.
func Internalf(cause error) *InternalError {
	return &InternalError{Cause: cause}
}
