package chatpg

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/youssefsiam38/chatpg/checkpoint"
	"github.com/youssefsiam38/chatpg/compaction"
	"github.com/youssefsiam38/chatpg/hooks"
	"github.com/youssefsiam38/chatpg/types"
)

// Assistant runs conversational turns against a checkpoint store.
//
// Each call to Submit executes one full turn: load the latest checkpoint,
// generate a reply, fold the working window into the summary when it has
// outgrown the memory length, and persist exactly one new checkpoint.
// Turns for the same session are serialized; turns for different sessions
// run concurrently.
type Assistant struct {
	config *internalConfig

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates an Assistant with the given configuration
func New(cfg Config, opts ...Option) (*Assistant, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	config := newInternalConfig(cfg)
	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	return &Assistant{
		config: config,
		locks:  make(map[string]*sync.Mutex),
	}, nil
}

// Submit runs one conversational turn for the session and returns the
// assistant reply.
//
// On the first turn of a session a title is generated before the reply.
// If any completion fails the turn is aborted and no checkpoint is
// written; the session remains at its previous state. On success exactly
// one checkpoint is appended, covering the reply and any compaction that
// followed it.
func (a *Assistant) Submit(ctx context.Context, sessionID string, input string) (*types.Message, error) {
	if sessionID == "" {
		return nil, NewSessionError("Submit", ErrNoSession)
	}

	lock := a.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	state, err := a.loadState(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	next := state.Clone()
	next.ID = sessionID
	incoming := types.NewHumanMessage(input)

	// First turn: assign the title before generating the reply, so a
	// title failure aborts the whole turn.
	if next.Title == "" && len(next.ActiveWindow) == 0 && len(next.FullHistory) == 0 {
		title, err := a.generateTitle(ctx, input)
		if err != nil {
			return nil, NewSessionErrorWithID("Submit", sessionID, err)
		}
		next.Title = title
	}

	prompt := buildChatPrompt(next.Summary, next.ActiveWindow, incoming)
	if err := a.config.hooks.TriggerBeforeTurn(ctx, sessionID, prompt); err != nil {
		return nil, NewSessionErrorWithID("Submit", sessionID, err)
	}

	out, err := a.config.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, NewSessionErrorWithID("Submit", sessionID,
			fmt.Errorf("%w: chat: %v", ErrCompletionFailure, err))
	}

	reply := types.NewAssistantMessage(out)
	next.ActiveWindow = append(next.ActiveWindow, incoming, reply)

	if a.config.policy.ShouldCompact(len(next.ActiveWindow), a.config.memoryLength) {
		if err := a.summarize(ctx, &next); err != nil {
			return nil, err
		}
	}

	if _, err := a.config.store.Append(ctx, sessionID, next); err != nil {
		return nil, NewSessionErrorWithID("Submit", sessionID, err)
	}

	if err := a.config.hooks.TriggerAfterTurn(ctx, sessionID, &reply); err != nil {
		return &reply, NewSessionErrorWithID("Submit", sessionID, err)
	}

	return &reply, nil
}

// summarize folds the working window into the summary. The retained tail
// stays in the window; everything else moves, in order, onto the full
// history. Runs within the turn, before the checkpoint is written.
func (a *Assistant) summarize(ctx context.Context, state *types.Session) error {
	start := time.Now()

	if err := a.config.hooks.TriggerBeforeCompaction(ctx, state.ID); err != nil {
		return NewSessionErrorWithID("summarize", state.ID, err)
	}

	fold, keep := a.config.policy.Split(state.ActiveWindow)
	if len(fold) == 0 {
		return nil
	}

	out, err := a.config.completer.Complete(ctx, buildSummaryPrompt(state.Summary, state.ActiveWindow))
	if err != nil {
		return NewSessionErrorWithID("summarize", state.ID,
			fmt.Errorf("%w: summarize: %v", ErrCompletionFailure, err))
	}

	state.FullHistory = append(state.FullHistory, fold...)
	state.Summary = a.config.policy.Merge(state.Summary, out)
	state.ActiveWindow = keep

	result := &compaction.Result{
		SessionID:      state.ID,
		MessagesFolded: len(fold),
		WindowAfter:    len(keep),
		SummaryLen:     len(state.Summary),
		Duration:       time.Since(start),
	}
	if err := a.config.hooks.TriggerAfterCompaction(ctx, result); err != nil {
		return NewSessionErrorWithID("summarize", state.ID, err)
	}
	return nil
}

// loadState returns the session state from the latest checkpoint, or a
// fresh empty state when the session has never been checkpointed.
func (a *Assistant) loadState(ctx context.Context, sessionID string) (types.Session, error) {
	cp, err := a.config.store.Latest(ctx, sessionID)
	if err != nil {
		if errors.Is(err, checkpoint.ErrNotFound) {
			return types.Session{ID: sessionID}, nil
		}
		return types.Session{}, NewSessionErrorWithID("loadState", sessionID, err)
	}
	return cp.State, nil
}

// State returns the current session state, reconstructed from the latest
// checkpoint. Unknown sessions return an empty state.
func (a *Assistant) State(ctx context.Context, sessionID string) (types.Session, error) {
	if sessionID == "" {
		return types.Session{}, NewSessionError("State", ErrNoSession)
	}
	return a.loadState(ctx, sessionID)
}

// sessionLock returns the mutex serializing turns for one session.
func (a *Assistant) sessionLock(sessionID string) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()

	lock, ok := a.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		a.locks[sessionID] = lock
	}
	return lock
}

// Hooks returns the hook registry for this assistant
func (a *Assistant) Hooks() *hooks.Registry {
	return a.config.hooks
}

// OnBeforeTurn registers a hook invoked before each reply is generated
func (a *Assistant) OnBeforeTurn(hook hooks.BeforeTurnHook) {
	a.config.hooks.OnBeforeTurn(hook)
}

// OnAfterTurn registers a hook invoked after each checkpoint is written
func (a *Assistant) OnAfterTurn(hook hooks.AfterTurnHook) {
	a.config.hooks.OnAfterTurn(hook)
}

// OnBeforeCompaction registers a hook invoked before a window is folded
func (a *Assistant) OnBeforeCompaction(hook hooks.BeforeCompactionHook) {
	a.config.hooks.OnBeforeCompaction(hook)
}

// OnAfterCompaction registers a hook invoked after a window is folded
func (a *Assistant) OnAfterCompaction(hook hooks.AfterCompactionHook) {
	a.config.hooks.OnAfterCompaction(hook)
}
