// Package completion defines the completion capability: the external
// text-generation call the session core uses for replies, summaries, and
// titles.
//
// Two adapters ship with this module: completion/anthropic for the
// Anthropic Messages API and completion/openai for OpenAI-compatible chat
// completion endpoints.
package completion

import (
	"context"

	"github.com/youssefsiam38/chatpg/types"
)

// Completer produces one assistant reply for an ordered list of messages.
//
// Implementations must not retry internally; the session core treats any
// failure uniformly as a failed turn and leaves retry policy to the caller.
type Completer interface {
	Complete(ctx context.Context, messages []types.Message) (string, error)
}

// Func adapts a plain function to the Completer interface.
type Func func(ctx context.Context, messages []types.Message) (string, error)

// Complete calls f.
func (f Func) Complete(ctx context.Context, messages []types.Message) (string, error) {
	return f(ctx, messages)
}
