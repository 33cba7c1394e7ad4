// Package compaction decides when a session's active window folds into its
// running summary, and how summaries merge.
//
// The Policy interface separates three rules the conversation state machine
// applies after every turn:
//
//   - ShouldCompact: a pure decision over the window length and the
//     configured memory length. No side effects, so routing is trivially
//     testable.
//   - Split: partitions the active window into the fold (messages moving to
//     full history and into the summary) and the retained tail kept verbatim
//     for model context.
//   - Merge: combines the existing summary with newly generated summary
//     text. Merging only ever grows the summary.
//
// Threshold is the default policy: compact when the window exceeds the
// memory length, retain the last two messages, merge by appending on a new
// line.
//
// # Unbounded summaries
//
// The merged summary grows without bound over a session's lifetime. No
// re-summarization or truncation of the summary itself is performed; facts
// folded into the summary are never silently dropped. This is a deliberate
// simplicity trade-off. Callers who need a bounded summary can supply their
// own Policy, but any replacement should preserve the never-drop contract
// or document that it does not.
package compaction
