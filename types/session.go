package types

import (
	"time"
)

// Session is the in-memory state of one conversation.
//
// ActiveWindow holds the most recent messages kept verbatim for model
// context. FullHistory is the append-only record of every message that has
// been compacted out of the window. FullHistory followed by ActiveWindow is
// always the complete chronological transcript, with no gaps and no
// duplicate message IDs.
type Session struct {
	ID           string    `json:"id"`
	Summary      string    `json:"summary"`
	Title        string    `json:"title,omitempty"`
	ActiveWindow []Message `json:"active_window"`
	FullHistory  []Message `json:"full_history"`
}

// Transcript returns the complete chronological conversation: the full
// history followed by the active window.
func (s *Session) Transcript() []Message {
	out := make([]Message, 0, len(s.FullHistory)+len(s.ActiveWindow))
	out = append(out, s.FullHistory...)
	out = append(out, s.ActiveWindow...)
	return out
}

// FirstHuman returns the earliest human message in the transcript.
// Used for session previews when no title has been assigned.
func (s *Session) FirstHuman() (Message, bool) {
	for _, m := range s.FullHistory {
		if m.Role == RoleHuman {
			return m, true
		}
	}
	for _, m := range s.ActiveWindow {
		if m.Role == RoleHuman {
			return m, true
		}
	}
	return Message{}, false
}

// Clone returns a deep copy of the session state. Transitions operate on a
// clone so an aborted turn leaves the loaded state untouched.
func (s *Session) Clone() Session {
	out := Session{
		ID:      s.ID,
		Summary: s.Summary,
		Title:   s.Title,
	}
	if s.ActiveWindow != nil {
		out.ActiveWindow = append([]Message(nil), s.ActiveWindow...)
	}
	if s.FullHistory != nil {
		out.FullHistory = append([]Message(nil), s.FullHistory...)
	}
	return out
}

// Checkpoint is an immutable, durable snapshot of a session at one point in
// time. Checkpoints for a session form a strictly increasing, append-only
// sequence; the checkpoint with the highest Seq is the session's current
// state. A checkpoint is never mutated after it is written; corrections are
// new checkpoints with higher sequence numbers.
type Checkpoint struct {
	SessionID string    `json:"session_id"`
	Seq       int64     `json:"seq"`
	State     Session   `json:"state"`
	CreatedAt time.Time `json:"created_at"`
}
