package checkpoint

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/youssefsiam38/chatpg/types"
)

// MemoryStore implements Store with in-memory storage.
//
// Thread-safe. Checkpoints are lost when the process terminates, so it is
// suitable for development and tests but not for durable recovery.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]types.Checkpoint // ascending by Seq
	written  map[string]int64              // global write ordinal per session
	ordinal  int64
}

// NewMemoryStore creates an empty in-memory checkpoint store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string][]types.Checkpoint),
		written:  make(map[string]int64),
	}
}

// Append stores a deep copy of state as the session's next checkpoint.
func (m *MemoryStore) Append(ctx context.Context, sessionID string, state types.Session) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	log := m.sessions[sessionID]
	var seq int64 = 1
	if len(log) > 0 {
		seq = log[len(log)-1].Seq + 1
	}

	cp := types.Checkpoint{
		SessionID: sessionID,
		Seq:       seq,
		State:     state.Clone(),
		CreatedAt: time.Now(),
	}
	cp.State.ID = sessionID

	m.sessions[sessionID] = append(log, cp)
	m.ordinal++
	m.written[sessionID] = m.ordinal
	return seq, nil
}

// Latest returns the session's newest checkpoint, or ErrNotFound.
func (m *MemoryStore) Latest(ctx context.Context, sessionID string) (*types.Checkpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	log := m.sessions[sessionID]
	if len(log) == 0 {
		return nil, ErrNotFound
	}
	cp := log[len(log)-1]
	cp.State = cp.State.Clone()
	return &cp, nil
}

// History returns a cursor over the session's checkpoints, newest first.
func (m *MemoryStore) History(ctx context.Context, sessionID string) (Cursor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	log := m.sessions[sessionID]
	// Snapshot in descending order so the cursor stays valid after unlock.
	snapshot := make([]types.Checkpoint, 0, len(log))
	for i := len(log) - 1; i >= 0; i-- {
		cp := log[i]
		cp.State = cp.State.Clone()
		snapshot = append(snapshot, cp)
	}
	return &sliceCursor{checkpoints: snapshot}, nil
}

// ListSessions returns session ids ordered by last write, newest first.
func (m *MemoryStore) ListSessions(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return m.written[ids[i]] > m.written[ids[j]]
	})
	return ids, nil
}

// Delete removes every checkpoint for the session. Idempotent.
func (m *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sessionID)
	delete(m.written, sessionID)
	return nil
}

// sliceCursor iterates a pre-materialized checkpoint slice.
type sliceCursor struct {
	checkpoints []types.Checkpoint
	pos         int
	current     types.Checkpoint
}

func (c *sliceCursor) Next() bool {
	if c.pos >= len(c.checkpoints) {
		return false
	}
	c.current = c.checkpoints[c.pos]
	c.pos++
	return true
}

func (c *sliceCursor) Checkpoint() types.Checkpoint { return c.current }

func (c *sliceCursor) Err() error { return nil }

func (c *sliceCursor) Close() error { return nil }
