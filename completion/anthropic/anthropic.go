// Package anthropic adapts the Anthropic Messages API to the
// completion.Completer interface.
package anthropic

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/youssefsiam38/chatpg/types"
)

// DefaultMaxTokens bounds response length when no override is given.
const DefaultMaxTokens = 4096

// Completer calls the Anthropic Messages API.
type Completer struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
}

// New creates a Completer for the given client and model. maxTokens <= 0
// falls back to DefaultMaxTokens.
func New(client *anthropic.Client, model string, maxTokens int64) *Completer {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Completer{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
	}
}

// Complete sends the messages and returns the concatenated text blocks of
// the response. System messages become the request's system prompt.
func (c *Completer) Complete(ctx context.Context, messages []types.Message) (string, error) {
	var system []anthropic.TextBlockParam
	params := make([]anthropic.MessageParam, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case types.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})
		case types.RoleHuman:
			params = append(params, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case types.RoleAssistant:
			params = append(params, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	response, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		System:    system,
		Messages:  params,
	})
	if err != nil {
		return "", err
	}

	var out strings.Builder
	for _, block := range response.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			out.WriteString(text.Text)
		}
	}
	if out.Len() == 0 {
		return "", errors.New("empty completion response")
	}
	return out.String(), nil
}
