package checkpoint

import (
	"context"
	"errors"

	"github.com/youssefsiam38/chatpg/types"
)

// Sentinel errors for checkpoint stores.
var (
	// ErrNotFound indicates no checkpoint exists for the session.
	ErrNotFound = errors.New("checkpoint not found")

	// ErrCorrupt indicates a persisted record could not be decoded. The
	// affected session becomes unreadable; other sessions are unaffected.
	ErrCorrupt = errors.New("corrupt checkpoint record")

	// ErrUnavailable indicates the underlying store could not be reached.
	ErrUnavailable = errors.New("checkpoint store unavailable")
)

// Store is a durable, append-only, key-ordered log of session checkpoints.
//
// Implementations must be safe for concurrent use by turns of different
// sessions. Turns for one session are serialized by the caller.
type Store interface {
	// Append durably persists state as a new checkpoint for sessionID and
	// returns its sequence number. The write is atomic: a checkpoint is
	// either fully persisted before Append returns, or absent.
	Append(ctx context.Context, sessionID string, state types.Session) (int64, error)

	// Latest returns the checkpoint with the highest sequence number for
	// sessionID, or ErrNotFound if the session has never been written.
	Latest(ctx context.Context, sessionID string) (*types.Checkpoint, error)

	// History returns a lazy, restartable cursor over all checkpoints for
	// sessionID, ordered by descending sequence number (newest first).
	// Callers must Close the cursor.
	History(ctx context.Context, sessionID string) (Cursor, error)

	// ListSessions returns every session id present in the store, ordered
	// by last write, newest first.
	ListSessions(ctx context.Context) ([]string, error)

	// Delete removes every checkpoint for sessionID. Deleting a session
	// that does not exist is a no-op, not an error.
	Delete(ctx context.Context, sessionID string) error
}

// Cursor iterates checkpoints in the style of sql.Rows: call Next until it
// returns false, then check Err.
type Cursor interface {
	// Next advances to the next checkpoint, reporting whether one is
	// available.
	Next() bool

	// Checkpoint returns the current checkpoint. Only valid after a Next
	// call that returned true.
	Checkpoint() types.Checkpoint

	// Err returns the error, if any, that stopped iteration.
	Err() error

	// Close releases resources held by the cursor.
	Close() error
}
