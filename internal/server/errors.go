package server

import "fmt"

// ValidationError rejects a send before any side effect occurs.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// PersistenceError means the message was never durably stored; nothing
// was delivered.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist message: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

var (
	ErrEmptyContent = &ValidationError{Reason: "message content cannot be empty"}
	ErrSelfMessage  = &ValidationError{Reason: "messaging yourself is disabled"}
)
