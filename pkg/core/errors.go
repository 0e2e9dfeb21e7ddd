package core

import (
	"errors"
	"fmt"
)

// ErrNotReady is returned by operations on a session that has been closed.
var ErrNotReady = errors.New("database not ready")

// EngineInitError reports that the engine or its instance could not be started.
// It is retryable: a later call starts a new attempt.
type EngineInitError struct {
	Engine string
	Err    error
}

func (e *EngineInitError) Error() string {
	return fmt.Sprintf("failed to initialize %s engine: %v", e.Engine, e.Err)
}

func (e *EngineInitError) Unwrap() error { return e.Err }

// QueryError is a SQL-level fault raised by a statement.
type QueryError struct {
	SQL string
	Err error
}

func (e *QueryError) Error() string { return e.Err.Error() }

func (e *QueryError) Unwrap() error { return e.Err }

// ResetError reports a failure releasing the previous instance during reset.
type ResetError struct {
	Generation string
	Err        error
}

func (e *ResetError) Error() string {
	return fmt.Sprintf("failed to release instance %s: %v", e.Generation, e.Err)
}

func (e *ResetError) Unwrap() error { return e.Err }
