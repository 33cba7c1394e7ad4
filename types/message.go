package types

import (
	"github.com/google/uuid"
)

// Role represents the message role
type Role string

const (
	// RoleHuman represents a message written by the user
	RoleHuman Role = "human"

	// RoleAssistant represents a model-generated reply
	RoleAssistant Role = "assistant"

	// RoleSystem represents an instruction message injected by the runtime
	RoleSystem Role = "system"
)

// Message is a single conversation utterance. Messages are immutable once
// created; the ID is unique within a session and never reused.
type Message struct {
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewMessage creates a new message with a fresh unique ID
func NewMessage(role Role, content string) Message {
	return Message{
		ID:      uuid.New().String(),
		Role:    role,
		Content: content,
	}
}

// NewHumanMessage creates a new human message
func NewHumanMessage(content string) Message {
	return NewMessage(RoleHuman, content)
}

// NewAssistantMessage creates a new assistant message
func NewAssistantMessage(content string) Message {
	return NewMessage(RoleAssistant, content)
}

// NewSystemMessage creates a new system message
func NewSystemMessage(content string) Message {
	return NewMessage(RoleSystem, content)
}
