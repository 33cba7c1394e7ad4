package compaction

import (
	"strings"
	"time"

	"github.com/youssefsiam38/chatpg/types"
)

// DefaultRetainCount is how many trailing messages stay in the active
// window after a compaction.
const DefaultRetainCount = 2

// Policy encapsulates the compaction decision and merge rules as a
// replaceable strategy.
type Policy interface {
	// ShouldCompact reports whether a window of windowLen messages has
	// outgrown the configured memory length. Pure; no side effects.
	ShouldCompact(windowLen, memoryLength int) bool

	// Split partitions the active window into the fold (messages to move
	// into full history, in order) and the retained tail. Split never
	// reorders or drops messages: fold followed by keep equals the input.
	Split(window []types.Message) (fold, keep []types.Message)

	// Merge combines the existing summary with newly generated summary
	// text. The result contains everything the old summary contained.
	Merge(summary, generated string) string
}

// Threshold is the default Policy. It compacts when the active window
// exceeds the memory length, retains the last RetainCount messages, and
// merges summaries by appending on a new line.
type Threshold struct {
	// RetainCount overrides DefaultRetainCount when positive.
	RetainCount int
}

// NewThreshold creates a Threshold policy with the default retain count.
func NewThreshold() *Threshold {
	return &Threshold{RetainCount: DefaultRetainCount}
}

// ShouldCompact reports whether windowLen exceeds memoryLength.
func (p *Threshold) ShouldCompact(windowLen, memoryLength int) bool {
	return windowLen > memoryLength
}

// Split returns the window minus its retained tail, and the tail itself.
// Windows no larger than the retain count are kept whole.
func (p *Threshold) Split(window []types.Message) (fold, keep []types.Message) {
	retain := p.retain()
	if len(window) <= retain {
		return nil, window
	}
	cut := len(window) - retain
	fold = append([]types.Message(nil), window[:cut]...)
	keep = append([]types.Message(nil), window[cut:]...)
	return fold, keep
}

// Merge appends the generated text to the existing summary on a new line,
// trimming surrounding whitespace.
func (p *Threshold) Merge(summary, generated string) string {
	return strings.TrimSpace(summary + "\n" + generated)
}

func (p *Threshold) retain() int {
	if p.RetainCount > 0 {
		return p.RetainCount
	}
	return DefaultRetainCount
}

// Result records one compaction for observability hooks.
type Result struct {
	// SessionID is the session that was compacted.
	SessionID string

	// MessagesFolded is how many messages moved into full history.
	MessagesFolded int

	// WindowAfter is the active window length after compaction.
	WindowAfter int

	// SummaryLen is the merged summary length in bytes.
	SummaryLen int

	// Duration is how long the compaction took, including the
	// summarization call.
	Duration time.Duration
}
