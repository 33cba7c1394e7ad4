package chatpg

import (
	"github.com/youssefsiam38/chatpg/types"
)

// Re-export types from types package so callers can work with the root
// package alone
type (
	Role       = types.Role
	Message    = types.Message
	Session    = types.Session
	Checkpoint = types.Checkpoint
)

// Re-export constants
const (
	RoleHuman     = types.RoleHuman
	RoleAssistant = types.RoleAssistant
	RoleSystem    = types.RoleSystem
)

// NewHumanMessage creates a new human message
func NewHumanMessage(content string) types.Message {
	return types.NewHumanMessage(content)
}

// NewAssistantMessage creates a new assistant message
func NewAssistantMessage(content string) types.Message {
	return types.NewAssistantMessage(content)
}

// NewSystemMessage creates a new system message
func NewSystemMessage(content string) types.Message {
	return types.NewSystemMessage(content)
}
