package session

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned when the session's status does not
	// permit the operation.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrInvalidState is returned when the current question is not in the
	// state the operation needs.
	ErrInvalidState = errors.New("invalid state")
	// ErrAlreadyAnswered is returned by a repeated Submit on one question.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrNotFound is returned by stores when no session has the given id.
	ErrNotFound = errors.New("session not found")
)

// StateError wraps one of the sentinels above with the operation and the
// session position it failed at.
type StateError struct {
	Op     string
	Status Status
	Cursor int
	Detail string
	Err    error
}

func (e *StateError) Error() string {
	msg := fmt.Sprintf("%s: %v (status %s, question %d)", e.Op, e.Err, e.Status, e.Cursor+1)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *StateError) Unwrap() error {
	return e.Err
}

func (s *Session) fail(op string, err error, detail string) error {
	return &StateError{Op: op, Status: s.Status, Cursor: s.Cursor, Detail: detail, Err: err}
}
