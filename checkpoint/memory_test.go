package checkpoint

import (
	"context"
	"errors"
	"testing"

	"github.com/youssefsiam38/chatpg/types"
)

func testState(summary string, window ...string) types.Session {
	s := types.Session{Summary: summary}
	for _, content := range window {
		s.ActiveWindow = append(s.ActiveWindow, types.NewHumanMessage(content))
	}
	return s
}

func TestMemoryStore_AppendAssignsIncreasingSequence(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for want := int64(1); want <= 3; want++ {
		seq, err := store.Append(ctx, "s1", testState("", "hello"))
		if err != nil {
			t.Fatalf("Append failed: %v", err)
		}
		if seq != want {
			t.Errorf("Append seq = %d, want %d", seq, want)
		}
	}

	cp, err := store.Latest(ctx, "s1")
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if cp.Seq != 3 {
		t.Errorf("Latest seq = %d, want 3", cp.Seq)
	}
	if cp.State.ID != "s1" {
		t.Errorf("Latest state id = %q, want s1", cp.State.ID)
	}
}

func TestMemoryStore_LatestUnknownSession(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Latest(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Latest error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_AppendIsolatesState(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	state := testState("summary", "first")
	if _, err := store.Append(ctx, "s1", state); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	// Mutating the caller's state must not leak into the stored checkpoint.
	state.ActiveWindow[0].Content = "mutated"
	state.Summary = "mutated"

	cp, err := store.Latest(ctx, "s1")
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if cp.State.ActiveWindow[0].Content != "first" {
		t.Errorf("stored window content = %q, want %q", cp.State.ActiveWindow[0].Content, "first")
	}
	if cp.State.Summary != "summary" {
		t.Errorf("stored summary = %q, want %q", cp.State.Summary, "summary")
	}
}

func TestMemoryStore_HistoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for i := 0; i < 3; i++ {
		if _, err := store.Append(ctx, "s1", testState("")); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	cur, err := store.History(ctx, "s1")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	defer cur.Close()

	var seqs []int64
	for cur.Next() {
		seqs = append(seqs, cur.Checkpoint().Seq)
	}
	if err := cur.Err(); err != nil {
		t.Fatalf("cursor error: %v", err)
	}

	want := []int64{3, 2, 1}
	if len(seqs) != len(want) {
		t.Fatalf("History returned %d checkpoints, want %d", len(seqs), len(want))
	}
	for i := range want {
		if seqs[i] != want[i] {
			t.Errorf("History[%d] seq = %d, want %d", i, seqs[i], want[i])
		}
	}
}

func TestMemoryStore_ListSessionsNewestWriteFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for _, id := range []string{"a", "b", "c"} {
		if _, err := store.Append(ctx, id, testState("")); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	// Touch "a" again so it becomes the most recently written.
	if _, err := store.Append(ctx, "a", testState("")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	ids, err := store.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}

	want := []string{"a", "c", "b"}
	if len(ids) != len(want) {
		t.Fatalf("ListSessions returned %d ids, want %d", len(ids), len(want))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ListSessions[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestMemoryStore_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.Append(ctx, "s1", testState("")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, "s1"); err != nil {
		t.Errorf("second Delete failed: %v", err)
	}
	if err := store.Delete(ctx, "never-existed"); err != nil {
		t.Errorf("Delete of unknown session failed: %v", err)
	}

	ids, err := store.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("ListSessions after delete = %v, want empty", ids)
	}
	if _, err := store.Latest(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Latest after delete error = %v, want ErrNotFound", err)
	}
}
