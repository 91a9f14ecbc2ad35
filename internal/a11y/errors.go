package a11y

import (
	"errors"
	"fmt"
)

var (
	// ErrStopped is returned for requests submitted after Stop, and for
	// requests still waiting in the mailbox when the worker exits.
	ErrStopped = errors.New("a11y: dispatcher is stopped")

	// ErrNotStarted is returned for requests submitted before Start.
	ErrNotStarted = errors.New("a11y: dispatcher not started")

	// ErrAlreadyStarted is returned by a second call to Start.
	ErrAlreadyStarted = errors.New("a11y: dispatcher already started")

	// ErrNoInput is returned when an operation needs simulated input and
	// the platform provides none.
	ErrNoInput = errors.New("a11y: input not available on this platform")

	// ErrUnknownOp is returned for a request with an unrecognised Op.
	ErrUnknownOp = errors.New("a11y: unknown operation")
)

// PanicError reports a panic recovered on the worker goroutine.
type PanicError struct {
	Op    Op
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("a11y: %s panicked: %v", e.Op, e.Value)
}
