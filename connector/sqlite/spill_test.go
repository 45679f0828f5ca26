package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kbukum/streamkit/pipeline"
)

func TestSpillThenReplay_RoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	st := testStore(t)

	items := []int{1, 2, 3, 4, 5}
	batches, err := pipeline.Batch(pipeline.FromSlice(ctx, items), 2)
	if err != nil {
		t.Fatalf("Batch() error = %v", err)
	}
	if err := Spill(ctx, st, batches); err != nil {
		t.Fatalf("Spill() error = %v", err)
	}

	stats, err := st.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Batches != 3 || stats.Items != 5 {
		t.Fatalf("Stats = %+v, want 3 batches / 5 items", stats)
	}

	var got []int
	err = Replay(ctx, st, func(_ context.Context, batch []int) error {
		got = append(got, batch...)
		return nil
	})
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	for i, want := range items {
		if got[i] != want {
			t.Errorf("item %d = %d, want %d", i, got[i], want)
		}
	}

	// Successful replay empties the store.
	stats, _ = st.Stats(ctx)
	if stats.Batches != 0 {
		t.Errorf("Stats.Batches = %d after replay, want 0", stats.Batches)
	}
}

func TestReplay_FailureReleasesBatch(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)

	if _, err := st.Push(ctx, []byte("[1]"), 1); err != nil {
		t.Fatalf("Push() error = %v", err)
	}

	boom := errors.New("handler failed")
	err := Replay(ctx, st, func(context.Context, []int) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("Replay() error = %v, want handler failure", err)
	}

	// The batch survives for a later run.
	stats, _ := st.Stats(ctx)
	if stats.Batches != 1 {
		t.Errorf("Stats.Batches = %d, want 1 (released, not deleted)", stats.Batches)
	}
}

func TestReplay_EmptyStore(t *testing.T) {
	st := testStore(t)

	err := Replay(context.Background(), st, func(context.Context, []int) error {
		t.Fatal("handler called on empty store")
		return nil
	})
	if err != nil {
		t.Errorf("Replay() error = %v, want nil", err)
	}
}

func TestReplayStream_DeliversBatches(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	st := testStore(t)

	batches, err := pipeline.Batch(pipeline.FromSlice(ctx, []int{1, 2, 3}), 3)
	if err != nil {
		t.Fatalf("Batch() error = %v", err)
	}
	if err := Spill(ctx, st, batches); err != nil {
		t.Fatalf("Spill() error = %v", err)
	}

	out := ReplayStream[int](ctx, st)
	got, err := pipeline.Collect(ctx, out)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(got) != 1 || len(got[0]) != 3 {
		t.Fatalf("got %v, want one batch of three", got)
	}
}
