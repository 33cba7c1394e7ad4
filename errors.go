package chatpg

import (
	"errors"
	"fmt"

	"github.com/youssefsiam38/chatpg/checkpoint"
)

// Common errors
var (
	// ErrInvalidConfig is returned when the assistant configuration is invalid
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNoSession is returned when an operation is missing a session id
	ErrNoSession = errors.New("no session id provided")

	// ErrCompletionFailure is returned when the completion capability fails
	// or returns unusable output. The turn is aborted and no checkpoint is
	// written.
	ErrCompletionFailure = errors.New("completion failed")

	// ErrStoreUnavailable is returned when the checkpoint store cannot be
	// reached on a write path. Fatal to the turn; listing reads degrade to
	// empty results instead.
	ErrStoreUnavailable = checkpoint.ErrUnavailable

	// ErrNotFound is returned when an operation references an unknown
	// session. Deletes and message reads treat unknown sessions as no-ops.
	ErrNotFound = checkpoint.ErrNotFound

	// ErrCorruptCheckpoint is returned when a persisted checkpoint cannot
	// be decoded. The affected session becomes unreadable; other sessions
	// are unaffected.
	ErrCorruptCheckpoint = checkpoint.ErrCorrupt
)

// SessionError represents an error with additional context
type SessionError struct {
	Op        string         // Operation that failed
	Err       error          // Underlying error
	SessionID string         // Session ID if applicable
	Context   map[string]any // Additional context
}

// Error implements the error interface
func (e *SessionError) Error() string {
	if e.SessionID != "" {
		return fmt.Sprintf("%s (session=%s): %v", e.Op, e.SessionID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *SessionError) Unwrap() error {
	return e.Err
}

// WithContext adds additional context to the error
func (e *SessionError) WithContext(key string, value any) *SessionError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// NewSessionError creates a new SessionError
func NewSessionError(op string, err error) *SessionError {
	return &SessionError{
		Op:  op,
		Err: err,
	}
}

// NewSessionErrorWithID creates a new SessionError with session ID
func NewSessionErrorWithID(op string, sessionID string, err error) *SessionError {
	return &SessionError{
		Op:        op,
		Err:       err,
		SessionID: sessionID,
	}
}
