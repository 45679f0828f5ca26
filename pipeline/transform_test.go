package pipeline

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/streamkit/channel"
	skerrors "github.com/kbukum/streamkit/errors"
)

func intRange(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func intSliceEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func double(_ context.Context, v int) (int, error) { return v * 2, nil }

func TestTransform_RejectsZeroConcurrency(t *testing.T) {
	src := FromSlice(context.Background(), []int{1})
	for _, n := range []int{0, -1} {
		_, err := Transform(context.Background(), src, n, double)
		if err == nil {
			t.Fatalf("Transform(concurrency=%d) accepted, want error", n)
		}
		if e := skerrors.AsError(err); e.Code != skerrors.ErrCodeInvalidInput {
			t.Errorf("Transform(concurrency=%d) code = %s, want %s", n, e.Code, skerrors.ErrCodeInvalidInput)
		}
	}
}

func TestTransform_SingleWorkerPreservesOrder(t *testing.T) {
	ctx := context.Background()
	in := intRange(200)

	out, err := Transform(ctx, FromSlice(ctx, in), 1, double)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Collect(ctx, out)
	if err != nil {
		t.Fatal(err)
	}

	want := make([]int, len(in))
	for i, v := range in {
		want[i] = v * 2
	}
	if !intSliceEqual(got, want) {
		t.Errorf("output out of order: got %v", got)
	}
}

func TestTransform_FanOutEveryItemExactlyOnce(t *testing.T) {
	ctx := context.Background()
	in := intRange(500)

	out, err := Transform(ctx, FromSlice(ctx, in), 8, double)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Collect(ctx, out)
	if err != nil {
		t.Fatal(err)
	}

	sort.Ints(got)
	want := make([]int, len(in))
	for i, v := range in {
		want[i] = v * 2
	}
	if !intSliceEqual(got, want) {
		t.Errorf("fan-out lost or duplicated items: got %d items", len(got))
	}
}

func TestTransform_ConcurrencyCeiling(t *testing.T) {
	ctx := context.Background()

	const n = 4
	var active, peak atomic.Int32
	out, err := Transform(ctx, FromSlice(ctx, intRange(60)), n, func(_ context.Context, v int) (int, error) {
		cur := active.Add(1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		active.Add(-1)
		return v, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Collect(ctx, out); err != nil {
		t.Fatal(err)
	}
	if got := peak.Load(); got > n {
		t.Errorf("peak concurrency %d exceeds ceiling %d", got, n)
	}
}

func TestTransform_FailFast(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	var calls atomic.Int32
	out, err := Transform(ctx, FromSlice(ctx, intRange(1000)), 2, func(_ context.Context, v int) (int, error) {
		if calls.Add(1) == 10 {
			return 0, boom
		}
		return v, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := Collect(ctx, out)
	if !errors.Is(err, boom) {
		t.Fatalf("Collect err = %v, want %v", err, boom)
	}
	if len(got) >= 1000 {
		t.Error("expected processing to stop before the source drained")
	}
}

func TestTransform_EmittedItemsSurviveFailure(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	out, err := Transform(ctx, FromSlice(ctx, []int{1, 2, 3, 4}), 1, func(_ context.Context, v int) (int, error) {
		if v == 3 {
			return 0, boom
		}
		return v * 2, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := Collect(ctx, out)
	if !errors.Is(err, boom) {
		t.Fatalf("Collect err = %v, want %v", err, boom)
	}
	if !intSliceEqual(got, []int{2, 4}) {
		t.Errorf("surviving prefix = %v, want [2 4]", got)
	}
}

func TestTransform_SourceErrorForwarded(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("source failed")

	r, w := channel.New[int]()
	w.TryWrite(1)
	w.Complete(boom)

	out, err := Transform(ctx, r, 3, double)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Collect(ctx, out)
	if err != boom {
		t.Errorf("Collect err = %v, want the source error verbatim", err)
	}
	if !intSliceEqual(got, []int{2}) {
		t.Errorf("items before failure = %v, want [2]", got)
	}
}

func TestTransform_PreCancelledEmitsNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	out, err := Transform(ctx, FromSlice(context.Background(), intRange(10)), 2, func(_ context.Context, v int) (int, error) {
		calls.Add(1)
		return v, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := Collect(context.Background(), out)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Collect err = %v, want context.Canceled", err)
	}
	if len(got) != 0 {
		t.Errorf("emitted %d items after cancellation, want 0", len(got))
	}
	if calls.Load() != 0 {
		t.Errorf("transform invoked %d times after cancellation, want 0", calls.Load())
	}
}

func TestTransform_BoundedOutputBackpressure(t *testing.T) {
	ctx := context.Background()

	var started atomic.Int32
	out, err := Transform(ctx, FromSlice(ctx, intRange(10)), 1, func(_ context.Context, v int) (int, error) {
		started.Add(1)
		return v, nil
	}, WithCapacity(1))
	if err != nil {
		t.Fatal(err)
	}

	// With nobody reading, the worker can finish at most the buffered item
	// plus the one blocked in its write.
	time.Sleep(50 * time.Millisecond)
	if got := started.Load(); got > 2 {
		t.Fatalf("transform ran %d items with no reader, want at most 2", got)
	}

	got, err := Collect(ctx, out)
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, intRange(10)) {
		t.Errorf("drained %v, want all items in order", got)
	}
}

func TestMap_OrderedConvenience(t *testing.T) {
	ctx := context.Background()
	out := Map(ctx, FromSlice(ctx, []int{1, 2, 3}), func(_ context.Context, v int) (string, error) {
		return string(rune('a' + v - 1)), nil
	})
	got, err := Collect(ctx, out)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("Collect = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Collect = %v, want %v", got, want)
		}
	}
}
