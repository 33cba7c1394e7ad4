package checkpoint

import (
	"encoding/json"
	"fmt"

	"github.com/youssefsiam38/chatpg/types"
)

// record is the persisted checkpoint payload. The session id and sequence
// number live in the store's key, so only the session state is encoded.
type record struct {
	Summary      string          `json:"summary"`
	Title        string          `json:"title,omitempty"`
	ActiveWindow []types.Message `json:"active_window"`
	FullHistory  []types.Message `json:"full_history"`
}

// EncodeState serializes session state into the persisted record format.
func EncodeState(state types.Session) ([]byte, error) {
	rec := record{
		Summary:      state.Summary,
		Title:        state.Title,
		ActiveWindow: state.ActiveWindow,
		FullHistory:  state.FullHistory,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode checkpoint state: %w", err)
	}
	return data, nil
}

// DecodeState deserializes a persisted record back into session state.
// A record that cannot be decoded surfaces ErrCorrupt.
func DecodeState(sessionID string, data []byte) (types.Session, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return types.Session{}, fmt.Errorf("%w: session %s: %v", ErrCorrupt, sessionID, err)
	}
	return types.Session{
		ID:           sessionID,
		Summary:      rec.Summary,
		Title:        rec.Title,
		ActiveWindow: rec.ActiveWindow,
		FullHistory:  rec.FullHistory,
	}, nil
}
