package chatpg

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/youssefsiam38/chatpg/checkpoint"
	"github.com/youssefsiam38/chatpg/types"
)

// previewLen is the longest a first-message preview may be before it is
// truncated with an ellipsis.
const previewLen = 40

// SessionInfo describes one session for listing.
type SessionInfo struct {
	// ID is the session identifier.
	ID string `json:"id"`

	// Preview is the title when one is set, otherwise the start of the
	// first human message, otherwise "New chat".
	Preview string `json:"preview"`
}

// Directory manages the collection of sessions on top of a checkpoint
// store. It reads session state but never runs turns; listing reads
// degrade to empty results when the store misbehaves, so a broken store
// never takes the session list down with it.
type Directory struct {
	store  checkpoint.Store
	logger *slog.Logger
}

// DirectoryOption is a functional option for configuring a Directory
type DirectoryOption func(*Directory)

// WithLogger sets the logger used to report degraded reads
func WithLogger(logger *slog.Logger) DirectoryOption {
	return func(d *Directory) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDirectory creates a Directory over the given store
func NewDirectory(store checkpoint.Store, opts ...DirectoryOption) *Directory {
	d := &Directory{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewSession returns a fresh session id. No state is persisted until the
// session's first turn completes.
func (d *Directory) NewSession() string {
	return uuid.New().String()
}

// ListSessions returns all known sessions, most recently written first,
// with a preview for each. Sessions that cannot be read are skipped, and
// a store that cannot list at all yields an empty result; both are logged.
func (d *Directory) ListSessions(ctx context.Context) []SessionInfo {
	ids, err := d.store.ListSessions(ctx)
	if err != nil {
		d.logger.Warn("session listing degraded to empty", "error", err)
		return []SessionInfo{}
	}

	infos := make([]SessionInfo, 0, len(ids))
	for _, id := range ids {
		cp, err := d.store.Latest(ctx, id)
		if err != nil {
			d.logger.Warn("skipping unreadable session", "session_id", id, "error", err)
			continue
		}
		infos = append(infos, SessionInfo{
			ID:      id,
			Preview: preview(&cp.State),
		})
	}
	return infos
}

// Messages returns the complete chronological transcript of a session.
// Unknown sessions yield an empty transcript.
func (d *Directory) Messages(ctx context.Context, sessionID string) ([]types.Message, error) {
	if sessionID == "" {
		return nil, NewSessionError("Messages", ErrNoSession)
	}

	cp, err := d.store.Latest(ctx, sessionID)
	if err != nil {
		if errors.Is(err, checkpoint.ErrNotFound) {
			return []types.Message{}, nil
		}
		return nil, NewSessionErrorWithID("Messages", sessionID, err)
	}
	return cp.State.Transcript(), nil
}

// DeleteSession removes every checkpoint of a session. Deleting an
// unknown session is a no-op. When the deleted session is the current
// one, a fresh replacement id is returned; otherwise currentID comes
// back unchanged.
func (d *Directory) DeleteSession(ctx context.Context, sessionID, currentID string) (string, error) {
	if sessionID == "" {
		return currentID, NewSessionError("DeleteSession", ErrNoSession)
	}

	if err := d.store.Delete(ctx, sessionID); err != nil {
		return currentID, NewSessionErrorWithID("DeleteSession", sessionID, err)
	}

	if sessionID == currentID {
		return d.NewSession(), nil
	}
	return currentID, nil
}

// MostRecent returns the id of the most recently written session, or a
// fresh id when no sessions exist or the store cannot be read. Used to
// resume where the user left off.
func (d *Directory) MostRecent(ctx context.Context) string {
	ids, err := d.store.ListSessions(ctx)
	if err != nil {
		d.logger.Warn("most recent session lookup degraded to new session", "error", err)
		return d.NewSession()
	}
	if len(ids) == 0 {
		return d.NewSession()
	}
	return ids[0]
}

// preview derives the list label for a session.
func preview(state *types.Session) string {
	if state.Title != "" {
		return state.Title
	}
	if first, ok := state.FirstHuman(); ok {
		runes := []rune(first.Content)
		if len(runes) > previewLen {
			return string(runes[:previewLen]) + "..."
		}
		return first.Content
	}
	return "New chat"
}
