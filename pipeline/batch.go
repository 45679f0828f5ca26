package pipeline

import (
	"sync"

	"github.com/kbukum/streamkit/channel"
	"github.com/kbukum/streamkit/errors"
)

// Batch groups consecutive items of src into slices of exactly size
// items, preserving order. A full batch is emitted when the item after
// it is read, so the final items of a stream are never split: once src
// drains, whatever is in progress is flushed as one shorter batch.
// Emitted batches are never empty, and when src completes with an error
// the batches already formed remain readable before the error surfaces.
func Batch[T any](src *channel.Reader[T], size int, opts ...Option) (*channel.Reader[[]T], error) {
	if size < 1 {
		return nil, errors.InvalidInput("size", "must be at least 1")
	}

	o := buildOptions(opts)
	out, w := channel.New[[]T](o.channelOptions(channel.WithSingleWriter())...)

	adv := &batchAdvancer[T]{src: src, out: w, size: size}
	select {
	case <-src.Done():
		// Nothing will ever arrive; skip the in-progress allocation.
	default:
		adv.cur = make([]T, 0, size)
	}
	drive(src, adv, w)
	return out, nil
}

// batchAdvancer accumulates items into an in-progress batch and emits
// finished batches to the output buffer. All state is guarded by mu so that
// TryAdvance can be called from any goroutine, including reentrantly
// while another call is blocked on the lock.
type batchAdvancer[T any] struct {
	mu   sync.Mutex
	src  *channel.Reader[T]
	out  *channel.Writer[[]T]
	size int

	// cur is the in-progress batch; nil once the terminal flush has run
	// (or when the source was already drained at construction).
	cur []T
}

// TryAdvance moves the batcher forward without blocking: it drains
// whatever the source holds right now and emits at most one batch per
// call. It reports whether a batch was emitted.
func (a *batchAdvancer[T]) TryAdvance() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cur == nil || a.out.Completed() {
		return false
	}

	select {
	case <-a.src.Done():
		return a.flushFinal()
	default:
	}

	for {
		if len(a.cur) == a.size {
			// A full batch is released only when the item after it
			// arrives; with a bounded output, defer that read until
			// there is room for the release.
			select {
			case <-a.out.Writable():
			default:
				return false
			}
		}
		v, ok := a.src.TryRead()
		if !ok {
			return false
		}
		if len(a.cur) == a.size {
			full := a.cur
			a.cur = append(make([]T, 0, a.size), v)
			a.out.TryWrite(full)
			return true
		}
		a.cur = append(a.cur, v)
	}
}

// flushFinal emits the partial batch left over after the source drained.
// It runs at most once: cur is discarded before the write so a second
// call reports no progress.
func (a *batchAdvancer[T]) flushFinal() bool {
	if len(a.cur) == 0 {
		a.cur = nil
		return false
	}
	select {
	case <-a.out.Writable():
	default:
		// Output full; keep cur so the flush retries once there is room.
		return false
	}
	final := a.cur[:len(a.cur):len(a.cur)]
	a.cur = nil
	a.out.TryWrite(final)
	return true
}
