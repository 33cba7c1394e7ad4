// Package openai adapts OpenAI-compatible chat completion endpoints to the
// completion.Completer interface.
package openai

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"

	"github.com/youssefsiam38/chatpg/types"
)

// Completer calls an OpenAI-compatible chat completion API.
type Completer struct {
	client *openai.Client
	model  string
}

// New creates a Completer for the given client and model.
func New(client *openai.Client, model string) *Completer {
	return &Completer{
		client: client,
		model:  model,
	}
}

// Complete sends the messages as a chat completion request and returns the
// first choice's content.
func (c *Completer) Complete(ctx context.Context, messages []types.Message) (string, error) {
	llmMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		llmMessages = append(llmMessages, openai.ChatCompletionMessage{
			Role:    chatRole(msg.Role),
			Content: msg.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: llmMessages,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty chat response")
	}
	return resp.Choices[0].Message.Content, nil
}

func chatRole(role types.Role) string {
	switch role {
	case types.RoleAssistant:
		return openai.ChatMessageRoleAssistant
	case types.RoleSystem:
		return openai.ChatMessageRoleSystem
	default:
		return openai.ChatMessageRoleUser
	}
}
