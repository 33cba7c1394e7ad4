// Package chatpg provides a stateful chat session manager with durable
// checkpoints for Go.
//
// ChatPG keeps each conversation as a bounded working window plus a rolling
// summary. Every completed turn appends exactly one immutable checkpoint to
// a pluggable store, so a crash never loses more than the turn in flight and
// any session can be resumed from its latest checkpoint.
//
// # Key Features
//
//   - One durable checkpoint per turn, append-only per session
//   - Automatic summarization once the working window outgrows the memory length
//   - Compacted messages preserved verbatim in an append-only full history
//   - Session titles generated from the first message
//   - Session directory with previews, listing, and deletion
//   - PostgreSQL (pgx or database/sql) and SQLite checkpoint stores
//   - Hooks for observability and debugging
//
// # Quick Start
//
// Create an assistant with a store and a completion backend:
//
//	pool, _ := pgxpool.New(ctx, connString)
//	store := pgxstore.New(pool)
//	client := anthropic.NewClient()
//
//	assistant, err := chatpg.New(
//	    chatpg.Config{
//	        Store:     store,
//	        Completer: anthropiccompleter.New(&client, "claude-sonnet-4-5-20250929", 0),
//	    },
//	    chatpg.WithMemoryLength(10),
//	)
//
// Run turns:
//
//	directory := chatpg.NewDirectory(store)
//	sessionID := directory.NewSession()
//	reply, _ := assistant.Submit(ctx, sessionID, "Help me plan a trip to Kyoto")
//
// # Summarization
//
// After each turn the working window is checked against the memory length
// (default 10 messages). When it is exceeded, all but the last two messages
// are folded: they move onto the session's full history, a summary of them
// is merged into the rolling summary, and later turns see the summary in
// their system prompt instead of the folded messages. Nothing is ever
// dropped; the full history plus the window is always the complete
// transcript.
//
// # Sessions
//
// The Directory lists sessions most recently used first, labelling each
// with its title, or the start of its first message, or "New chat". Listing
// degrades to an empty result when the store is unreachable. Deleting the
// current session hands back a fresh replacement id:
//
//	for _, info := range directory.ListSessions(ctx) {
//	    fmt.Println(info.ID, info.Preview)
//	}
//	current, _ = directory.DeleteSession(ctx, target, current)
package chatpg
