package hooks

import (
	"context"
	"log"

	"github.com/youssefsiam38/chatpg/compaction"
	"github.com/youssefsiam38/chatpg/types"
)

// LoggingHooks provides built-in logging hooks for observability
type LoggingHooks struct {
	logger *log.Logger
}

// NewLoggingHooks creates logging hooks with the provided logger
func NewLoggingHooks(logger *log.Logger) *LoggingHooks {
	return &LoggingHooks{logger: logger}
}

// DefaultLoggingHooks creates logging hooks with the default logger
func DefaultLoggingHooks() *LoggingHooks {
	return &LoggingHooks{logger: log.Default()}
}

// Install registers all logging hooks on the registry
func (h *LoggingHooks) Install(r *Registry) {
	r.OnBeforeTurn(h.BeforeTurn)
	r.OnAfterTurn(h.AfterTurn)
	r.OnBeforeCompaction(h.BeforeCompaction)
	r.OnAfterCompaction(h.AfterCompaction)
}

// BeforeTurn logs the prompt size before a completion call
func (h *LoggingHooks) BeforeTurn(ctx context.Context, sessionID string, prompt []types.Message) error {
	h.logger.Printf("[ChatPG] session=%s sending %d messages to completion", sessionID, len(prompt))
	return nil
}

// AfterTurn logs the reply after a turn's checkpoint is written
func (h *LoggingHooks) AfterTurn(ctx context.Context, sessionID string, reply *types.Message) error {
	preview := reply.Content
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}
	h.logger.Printf("[ChatPG] session=%s turn complete: %s", sessionID, preview)
	return nil
}

// BeforeCompaction logs when the active window is about to fold
func (h *LoggingHooks) BeforeCompaction(ctx context.Context, sessionID string) error {
	h.logger.Printf("[ChatPG] session=%s compacting active window", sessionID)
	return nil
}

// AfterCompaction logs the compaction result
func (h *LoggingHooks) AfterCompaction(ctx context.Context, result *compaction.Result) error {
	h.logger.Printf("[ChatPG] session=%s compacted: folded=%d window=%d summary_bytes=%d duration=%s",
		result.SessionID, result.MessagesFolded, result.WindowAfter, result.SummaryLen, result.Duration)
	return nil
}
