package chatpg

import (
	"fmt"

	"github.com/youssefsiam38/chatpg/checkpoint"
	"github.com/youssefsiam38/chatpg/compaction"
	"github.com/youssefsiam38/chatpg/completion"
	"github.com/youssefsiam38/chatpg/hooks"
)

// DefaultMemoryLength is the number of working-window messages a session
// may hold before the end of a turn folds older messages into the summary.
const DefaultMemoryLength = 10

// Config holds the required configuration for an assistant.
//
// Example:
//
//	store := pgxstore.New(pool)
//	assistant, _ := chatpg.New(chatpg.Config{
//	    Store:     store,
//	    Completer: anthropic.New(&client, "claude-sonnet-4-5-20250929", 0),
//	})
type Config struct {
	// Store persists one checkpoint per completed turn (required)
	Store checkpoint.Store

	// Completer produces chat replies, summaries, and titles (required)
	Completer completion.Completer
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Store == nil {
		return fmt.Errorf("%w: Store is required", ErrInvalidConfig)
	}

	if c.Completer == nil {
		return fmt.Errorf("%w: Completer is required", ErrInvalidConfig)
	}

	return nil
}

// internalConfig holds the full assistant configuration including optional
// parameters
type internalConfig struct {
	// Required from Config
	store     checkpoint.Store
	completer completion.Completer

	// Optional parameters
	memoryLength int
	policy       compaction.Policy

	// Internal state
	hooks *hooks.Registry
}

// newInternalConfig creates a new internal config from the public Config
func newInternalConfig(cfg Config) *internalConfig {
	return &internalConfig{
		store:     cfg.Store,
		completer: cfg.Completer,

		// Defaults
		memoryLength: DefaultMemoryLength,
		policy:       compaction.NewThreshold(),

		hooks: hooks.NewRegistry(),
	}
}
