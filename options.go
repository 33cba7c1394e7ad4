package chatpg

import (
	"github.com/youssefsiam38/chatpg/compaction"
	"github.com/youssefsiam38/chatpg/hooks"
)

// Option is a functional option for configuring an Assistant
type Option func(*internalConfig) error

// WithMemoryLength sets how many working-window messages a session may hold
// before the end of a turn folds older messages into the summary (default 10).
// Values below 2 would leave nothing to fold after retaining the most recent
// exchange and are rejected.
func WithMemoryLength(n int) Option {
	return func(c *internalConfig) error {
		if n < 2 {
			return NewSessionError("WithMemoryLength", ErrInvalidConfig).
				WithContext("n", n).
				WithContext("reason", "must be at least 2")
		}
		c.memoryLength = n
		return nil
	}
}

// WithPolicy replaces the compaction policy used to decide when and how the
// working window is folded
func WithPolicy(p compaction.Policy) Option {
	return func(c *internalConfig) error {
		if p == nil {
			return NewSessionError("WithPolicy", ErrInvalidConfig).
				WithContext("reason", "policy must not be nil")
		}
		c.policy = p
		return nil
	}
}

// WithHooks replaces the hook registry. Useful when sharing a registry
// across several assistants.
func WithHooks(r *hooks.Registry) Option {
	return func(c *internalConfig) error {
		if r == nil {
			return NewSessionError("WithHooks", ErrInvalidConfig).
				WithContext("reason", "registry must not be nil")
		}
		c.hooks = r
		return nil
	}
}
