package chatpg

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/youssefsiam38/chatpg/checkpoint"
	"github.com/youssefsiam38/chatpg/compaction"
	"github.com/youssefsiam38/chatpg/completion"
	"github.com/youssefsiam38/chatpg/types"
)

// scriptedCompleter answers title, summary, and chat requests by
// inspecting the prompt shape, counting each kind of call.
type scriptedCompleter struct {
	mu        sync.Mutex
	titles    int
	summaries int
	chats     int

	title   string
	summary string
	failOn  string // "title", "summary", or "chat"
}

func newScriptedCompleter() *scriptedCompleter {
	return &scriptedCompleter{
		title:   "Kyoto Trip Planning",
		summary: "The user is planning a trip.",
	}
}

func (c *scriptedCompleter) Complete(ctx context.Context, prompt []types.Message) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	last := prompt[len(prompt)-1].Content
	switch {
	case strings.HasPrefix(last, "Based on this first message"):
		if c.failOn == "title" {
			return "", errors.New("title backend down")
		}
		c.titles++
		return c.title, nil
	case strings.HasPrefix(last, "Create a comprehensive summary") ||
		strings.HasPrefix(last, "This is a summary of the conversation"):
		if c.failOn == "summary" {
			return "", errors.New("summary backend down")
		}
		c.summaries++
		return c.summary, nil
	default:
		if c.failOn == "chat" {
			return "", errors.New("chat backend down")
		}
		c.chats++
		return fmt.Sprintf("reply %d", c.chats), nil
	}
}

func newTestAssistant(t *testing.T, store checkpoint.Store, completer completion.Completer, opts ...Option) *Assistant {
	t.Helper()
	assistant, err := New(Config{Store: store, Completer: completer}, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return assistant
}

func TestNew_ValidatesConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing store", Config{Completer: newScriptedCompleter()}},
		{"missing completer", Config{Store: checkpoint.NewMemoryStore()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("New() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestNew_RejectsShortMemoryLength(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	_, err := New(Config{Store: store, Completer: newScriptedCompleter()}, WithMemoryLength(1))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("New() error = %v, want ErrInvalidConfig", err)
	}
}

func TestSubmit_FirstTurnAssignsTitle(t *testing.T) {
	ctx := context.Background()
	store := checkpoint.NewMemoryStore()
	completer := newScriptedCompleter()
	assistant := newTestAssistant(t, store, completer)

	reply, err := assistant.Submit(ctx, "s1", "plan me a trip to Kyoto")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if reply.Role != types.RoleAssistant || reply.Content == "" {
		t.Errorf("reply = %+v, want non-empty assistant message", reply)
	}

	cp, err := store.Latest(ctx, "s1")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if cp.State.Title != "Kyoto Trip Planning" {
		t.Errorf("Title = %q, want %q", cp.State.Title, "Kyoto Trip Planning")
	}
	if got := len(cp.State.ActiveWindow); got != 2 {
		t.Errorf("ActiveWindow length = %d, want 2", got)
	}
	if completer.titles != 1 {
		t.Errorf("title calls = %d, want 1", completer.titles)
	}
}

func TestSubmit_TitleIsWriteOnce(t *testing.T) {
	ctx := context.Background()
	store := checkpoint.NewMemoryStore()
	completer := newScriptedCompleter()
	assistant := newTestAssistant(t, store, completer)

	for i := 0; i < 3; i++ {
		if _, err := assistant.Submit(ctx, "s1", fmt.Sprintf("message %d", i)); err != nil {
			t.Fatalf("Submit() turn %d error = %v", i, err)
		}
	}

	if completer.titles != 1 {
		t.Errorf("title calls = %d, want 1", completer.titles)
	}
	cp, err := store.Latest(ctx, "s1")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if cp.State.Title != "Kyoto Trip Planning" {
		t.Errorf("Title = %q, want unchanged", cp.State.Title)
	}
}

func TestSubmit_OneCheckpointPerTurn(t *testing.T) {
	ctx := context.Background()
	store := checkpoint.NewMemoryStore()
	assistant := newTestAssistant(t, store, newScriptedCompleter())

	const turns = 4
	for i := 0; i < turns; i++ {
		if _, err := assistant.Submit(ctx, "s1", fmt.Sprintf("message %d", i)); err != nil {
			t.Fatalf("Submit() turn %d error = %v", i, err)
		}
	}

	cp, err := store.Latest(ctx, "s1")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if cp.Seq != turns {
		t.Errorf("Seq = %d, want %d", cp.Seq, turns)
	}
}

func TestSubmit_CompactsWhenWindowOutgrowsMemoryLength(t *testing.T) {
	ctx := context.Background()
	store := checkpoint.NewMemoryStore()
	completer := newScriptedCompleter()
	assistant := newTestAssistant(t, store, completer)

	// Five turns leave a window of 10, at the limit. The sixth pushes it
	// to 12 and triggers a fold down to the last two messages.
	for i := 0; i < 6; i++ {
		if _, err := assistant.Submit(ctx, "s1", fmt.Sprintf("message %d", i)); err != nil {
			t.Fatalf("Submit() turn %d error = %v", i, err)
		}
	}

	cp, err := store.Latest(ctx, "s1")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	state := cp.State

	if got := len(state.ActiveWindow); got != 2 {
		t.Errorf("ActiveWindow length = %d, want 2", got)
	}
	if got := len(state.FullHistory); got != 10 {
		t.Errorf("FullHistory length = %d, want 10", got)
	}
	if state.Summary != completer.summary {
		t.Errorf("Summary = %q, want %q", state.Summary, completer.summary)
	}
	if completer.summaries != 1 {
		t.Errorf("summary calls = %d, want 1", completer.summaries)
	}

	// A compaction happens within the same turn as the reply, not as an
	// extra checkpoint.
	if cp.Seq != 6 {
		t.Errorf("Seq = %d, want 6", cp.Seq)
	}
}

func TestSubmit_TranscriptHasNoGapsOrDuplicates(t *testing.T) {
	ctx := context.Background()
	store := checkpoint.NewMemoryStore()
	assistant := newTestAssistant(t, store, newScriptedCompleter())

	const turns = 9
	for i := 0; i < turns; i++ {
		if _, err := assistant.Submit(ctx, "s1", fmt.Sprintf("message %d", i)); err != nil {
			t.Fatalf("Submit() turn %d error = %v", i, err)
		}
	}

	cp, err := store.Latest(ctx, "s1")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	transcript := cp.State.Transcript()

	if got := len(transcript); got != 2*turns {
		t.Fatalf("transcript length = %d, want %d", got, 2*turns)
	}
	seen := make(map[string]bool, len(transcript))
	for i, m := range transcript {
		if seen[m.ID] {
			t.Fatalf("duplicate message id %q at index %d", m.ID, i)
		}
		seen[m.ID] = true
		wantRole := types.RoleHuman
		if i%2 == 1 {
			wantRole = types.RoleAssistant
		}
		if m.Role != wantRole {
			t.Errorf("transcript[%d].Role = %q, want %q", i, m.Role, wantRole)
		}
	}
	for i := 0; i < turns; i++ {
		if want := fmt.Sprintf("message %d", i); transcript[2*i].Content != want {
			t.Errorf("transcript[%d].Content = %q, want %q", 2*i, transcript[2*i].Content, want)
		}
	}
}

func TestSubmit_SummariesAccumulate(t *testing.T) {
	ctx := context.Background()
	store := checkpoint.NewMemoryStore()
	completer := newScriptedCompleter()
	assistant := newTestAssistant(t, store, completer, WithMemoryLength(2))

	// With a memory length of 2, every turn after the first compacts.
	for i := 0; i < 3; i++ {
		if _, err := assistant.Submit(ctx, "s1", fmt.Sprintf("message %d", i)); err != nil {
			t.Fatalf("Submit() turn %d error = %v", i, err)
		}
	}

	cp, err := store.Latest(ctx, "s1")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	want := completer.summary + "\n" + completer.summary
	if cp.State.Summary != want {
		t.Errorf("Summary = %q, want %q", cp.State.Summary, want)
	}
}

func TestSubmit_CompletionFailureLeavesNoCheckpoint(t *testing.T) {
	tests := []struct {
		name   string
		failOn string
		warmup int // successful turns before the failure
	}{
		{"title failure on first turn", "title", 0},
		{"chat failure", "chat", 2},
		{"summary failure", "summary", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := checkpoint.NewMemoryStore()
			completer := newScriptedCompleter()
			assistant := newTestAssistant(t, store, completer)

			for i := 0; i < tt.warmup; i++ {
				if _, err := assistant.Submit(ctx, "s1", fmt.Sprintf("message %d", i)); err != nil {
					t.Fatalf("Submit() warmup %d error = %v", i, err)
				}
			}

			completer.failOn = tt.failOn
			_, err := assistant.Submit(ctx, "s1", "one more")
			if !errors.Is(err, ErrCompletionFailure) {
				t.Fatalf("Submit() error = %v, want ErrCompletionFailure", err)
			}

			cp, err := store.Latest(ctx, "s1")
			if tt.warmup == 0 {
				if !errors.Is(err, ErrNotFound) {
					t.Fatalf("Latest() error = %v, want ErrNotFound", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Latest() error = %v", err)
			}
			if cp.Seq != int64(tt.warmup) {
				t.Errorf("Seq = %d, want %d (aborted turn must not checkpoint)", cp.Seq, tt.warmup)
			}
			if got := len(cp.State.Transcript()); got != 2*tt.warmup {
				t.Errorf("transcript length = %d, want %d", got, 2*tt.warmup)
			}
		})
	}
}

func TestSubmit_StoreFailureAbortsTurn(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{err: fmt.Errorf("%w: connect: refused", checkpoint.ErrUnavailable)}
	assistant := newTestAssistant(t, store, newScriptedCompleter())

	_, err := assistant.Submit(ctx, "s1", "hello")
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Submit() error = %v, want ErrStoreUnavailable", err)
	}
}

func TestSubmit_RequiresSessionID(t *testing.T) {
	assistant := newTestAssistant(t, checkpoint.NewMemoryStore(), newScriptedCompleter())
	if _, err := assistant.Submit(context.Background(), "", "hello"); !errors.Is(err, ErrNoSession) {
		t.Errorf("Submit() error = %v, want ErrNoSession", err)
	}
}

func TestSubmit_SessionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := checkpoint.NewMemoryStore()
	assistant := newTestAssistant(t, store, newScriptedCompleter())

	if _, err := assistant.Submit(ctx, "a", "for session a"); err != nil {
		t.Fatalf("Submit(a) error = %v", err)
	}
	if _, err := assistant.Submit(ctx, "b", "for session b"); err != nil {
		t.Fatalf("Submit(b) error = %v", err)
	}

	cp, err := store.Latest(ctx, "a")
	if err != nil {
		t.Fatalf("Latest(a) error = %v", err)
	}
	if got := len(cp.State.ActiveWindow); got != 2 {
		t.Errorf("session a window length = %d, want 2", got)
	}
	if cp.State.ActiveWindow[0].Content != "for session a" {
		t.Errorf("session a first message = %q", cp.State.ActiveWindow[0].Content)
	}
}

func TestSubmit_HooksFireInOrder(t *testing.T) {
	ctx := context.Background()
	store := checkpoint.NewMemoryStore()
	assistant := newTestAssistant(t, store, newScriptedCompleter(), WithMemoryLength(2))

	var mu sync.Mutex
	var calls []string
	assistant.OnBeforeTurn(func(ctx context.Context, sessionID string, prompt []types.Message) error {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, "before_turn")
		return nil
	})
	assistant.OnBeforeCompaction(func(ctx context.Context, sessionID string) error {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, "before_compaction")
		return nil
	})
	assistant.OnAfterCompaction(func(ctx context.Context, result *compaction.Result) error {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, "after_compaction")
		if result.MessagesFolded == 0 {
			t.Errorf("MessagesFolded = 0, want > 0")
		}
		return nil
	})
	assistant.OnAfterTurn(func(ctx context.Context, sessionID string, reply *types.Message) error {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, "after_turn")
		return nil
	})

	if _, err := assistant.Submit(ctx, "s1", "first"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if _, err := assistant.Submit(ctx, "s1", "second"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	want := []string{
		"before_turn", "after_turn",
		"before_turn", "before_compaction", "after_compaction", "after_turn",
	}
	if len(calls) != len(want) {
		t.Fatalf("hook calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("hook call %d = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestState_UnknownSessionIsEmpty(t *testing.T) {
	assistant := newTestAssistant(t, checkpoint.NewMemoryStore(), newScriptedCompleter())
	state, err := assistant.State(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}
	if state.Title != "" || len(state.ActiveWindow) != 0 || len(state.FullHistory) != 0 {
		t.Errorf("state = %+v, want empty", state)
	}
}

// failingStore fails every operation with a fixed error.
type failingStore struct {
	err error
}

func (s *failingStore) Append(ctx context.Context, sessionID string, state types.Session) (int64, error) {
	return 0, s.err
}

func (s *failingStore) Latest(ctx context.Context, sessionID string) (*types.Checkpoint, error) {
	// Loading an unknown session must not mask the later write failure.
	return nil, checkpoint.ErrNotFound
}

func (s *failingStore) History(ctx context.Context, sessionID string) (checkpoint.Cursor, error) {
	return nil, s.err
}

func (s *failingStore) ListSessions(ctx context.Context) ([]string, error) {
	return nil, s.err
}

func (s *failingStore) Delete(ctx context.Context, sessionID string) error {
	return s.err
}
