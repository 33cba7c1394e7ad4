package chatpg

import (
	"fmt"

	"github.com/youssefsiam38/chatpg/types"
)

// System prompts for the assistant
const (
	// InitialSystemPrompt frames a session that has no summary yet.
	InitialSystemPrompt = "You are a helpful assistant."

	// MemorySystemPrompt frames a session whose earlier turns have been
	// folded into a summary. The %s verb receives the summary.
	MemorySystemPrompt = "You are a helpful assistant with memory.\n" +
		"Here is the summary of the conversation earlier: %s.\n" +
		"Continue the conversation from the last message."
)

// Summarization prompts
const (
	// InitialSummaryPrompt requests the very first summary of a session.
	InitialSummaryPrompt = "Create a comprehensive summary of the conversation up to this point. " +
		"Include all key details and facts about the user."

	// SummaryWithExistingPrompt requests an updated summary that folds the
	// latest messages into an existing one. The %s verb receives the
	// existing summary.
	SummaryWithExistingPrompt = "This is a summary of the conversation up to this point: %s.\n\n" +
		"Create a NEW comprehensive summary that INCORPORATES BOTH the existing summary " +
		"and the latest messages. PRESERVE ALL IMPORTANT DETAILS from the existing summary " +
		"while adding new information from the recent messages."
)

// TitlePrompt asks for a short session title from the first human message.
// The %s verb receives the message content.
const TitlePrompt = "Based on this first message from a user, create a very short title " +
	"that captures the essence of what they're asking about:\n\n" +
	"Message: %s\n\n" +
	"Title:"

// buildChatPrompt assembles the completion input for a chat turn. The
// system framing depends on whether the session has a summary, followed by
// the working window and the incoming human message.
func buildChatPrompt(summary string, window []types.Message, incoming types.Message) []types.Message {
	system := InitialSystemPrompt
	if summary != "" {
		system = fmt.Sprintf(MemorySystemPrompt, summary)
	}

	prompt := make([]types.Message, 0, len(window)+2)
	prompt = append(prompt, types.NewSystemMessage(system))
	prompt = append(prompt, window...)
	prompt = append(prompt, incoming)
	return prompt
}

// buildSummaryPrompt assembles the completion input for summarization. The
// messages being folded are shown in full, followed by the summary request.
func buildSummaryPrompt(summary string, window []types.Message) []types.Message {
	request := InitialSummaryPrompt
	if summary != "" {
		request = fmt.Sprintf(SummaryWithExistingPrompt, summary)
	}

	prompt := make([]types.Message, 0, len(window)+1)
	prompt = append(prompt, window...)
	prompt = append(prompt, types.NewHumanMessage(request))
	return prompt
}

// buildTitlePrompt assembles the completion input for title generation.
func buildTitlePrompt(content string) []types.Message {
	return []types.Message{
		types.NewHumanMessage(fmt.Sprintf(TitlePrompt, content)),
	}
}
