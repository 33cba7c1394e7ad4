package chatpg

import (
	"context"
	"fmt"
	"strings"
)

// maxTitleLen is the longest a session title may be. Longer generated
// titles are truncated to 37 characters plus an ellipsis.
const maxTitleLen = 40

// generateTitle produces a short session title from the first human
// message of a session.
func (a *Assistant) generateTitle(ctx context.Context, content string) (string, error) {
	out, err := a.config.completer.Complete(ctx, buildTitlePrompt(content))
	if err != nil {
		return "", fmt.Errorf("%w: generate title: %v", ErrCompletionFailure, err)
	}
	return normalizeTitle(out), nil
}

// normalizeTitle strips surrounding whitespace and quotes from a generated
// title and truncates it when it exceeds maxTitleLen characters.
func normalizeTitle(title string) string {
	title = strings.TrimSpace(title)
	title = strings.Trim(title, `"'`)
	title = strings.TrimSpace(title)

	runes := []rune(title)
	if len(runes) > maxTitleLen {
		title = string(runes[:maxTitleLen-3]) + "..."
	}
	return title
}
