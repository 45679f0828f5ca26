package channel

import (
	"context"
	"errors"
	"sync"
)

// ErrCompleted is returned by Write when the channel has been completed and
// no longer accepts items.
var ErrCompleted = errors.New("channel: completed")

// closedChan is returned by Readable/Writable when the condition already
// holds, so callers can select on it without a separate fast path.
var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// state is the queue shared by a Reader/Writer pair. Items live in a
// mutex-guarded slice; readiness is published through generation channels
// that are closed and replaced on empty→non-empty and full→non-full
// transitions, so blocked ends can wait without polling.
type state[T any] struct {
	opts options

	mu   sync.Mutex
	buf  []T
	head int

	completed bool // Complete was called; writes are rejected
	err       error
	drained   bool // completed and every buffered item has been read

	readable chan struct{} // closed when items arrive or completion is requested
	writable chan struct{} // closed when capacity frees or completion is requested
	done     chan struct{} // closed once completed and drained
}

// Reader is the read end of a channel.
type Reader[T any] struct {
	s *state[T]
}

// Writer is the write end of a channel.
type Writer[T any] struct {
	s *state[T]
}

// New creates a FIFO channel and returns its two ends. The default channel
// is unbounded; use WithCapacity to bound it. Items written before
// completion remain readable after it: the Done signal fires only once the
// channel is both completed and fully drained.
func New[T any](opts ...Option) (*Reader[T], *Writer[T]) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	s := &state[T]{
		opts:     o,
		readable: make(chan struct{}),
		writable: make(chan struct{}),
		done:     make(chan struct{}),
	}
	if o.capacity > 0 {
		s.buf = make([]T, 0, o.capacity)
	}
	return &Reader[T]{s: s}, &Writer[T]{s: s}
}

func (s *state[T]) size() int {
	return len(s.buf) - s.head
}

// pop removes the head item. Caller holds mu and has checked size() > 0.
func (s *state[T]) pop() T {
	var zero T
	v := s.buf[s.head]
	s.buf[s.head] = zero
	s.head++
	if s.head == len(s.buf) {
		s.buf = s.buf[:0]
		s.head = 0
	}
	if s.opts.capacity > 0 && s.size() == s.opts.capacity-1 {
		s.signalWritable()
	}
	if s.completed && s.size() == 0 && !s.drained {
		s.drained = true
		close(s.done)
	}
	return v
}

// push appends an item. Caller holds mu and has checked acceptance.
func (s *state[T]) push(v T) {
	if s.size() == 0 {
		s.signalReadable()
	}
	s.buf = append(s.buf, v)
}

func (s *state[T]) signalReadable() {
	close(s.readable)
	s.readable = make(chan struct{})
}

func (s *state[T]) signalWritable() {
	close(s.writable)
	s.writable = make(chan struct{})
}

// --- Read end ---

// TryRead removes and returns the head item without blocking.
// It returns false when the channel is momentarily empty or drained.
func (r *Reader[T]) TryRead() (T, bool) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.size() == 0 {
		var zero T
		return zero, false
	}
	return s.pop(), true
}

// Read removes and returns the head item, blocking until one is available,
// the channel is drained, or ctx is cancelled. It returns (zero, false, nil)
// after a clean drain and (zero, false, err) when the channel completed with
// err or ctx ended.
func (r *Reader[T]) Read(ctx context.Context) (T, bool, error) {
	var zero T
	for {
		if v, ok := r.TryRead(); ok {
			return v, true, nil
		}
		ready := r.Readable()
		select {
		case <-r.Done():
			return zero, false, r.Err()
		default:
		}
		select {
		case <-ready:
		case <-r.Done():
			return zero, false, r.Err()
		case <-ctx.Done():
			return zero, false, ctx.Err()
		}
	}
}

// Readable returns a channel that is closed when a TryRead may succeed or
// the channel has been completed. Callers re-fetch it after every failed
// TryRead; an already-satisfied condition yields a closed channel.
func (r *Reader[T]) Readable() <-chan struct{} {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.size() > 0 || s.completed {
		return closedChan
	}
	return s.readable
}

// Done returns a channel that is closed once the channel has been completed
// and every buffered item has been read. No item will ever be readable after
// Done fires.
func (r *Reader[T]) Done() <-chan struct{} {
	return r.s.done
}

// Err returns the terminal error the channel completed with, or nil for a
// clean completion. It is nil until Complete has been called.
func (r *Reader[T]) Err() error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Len reports the number of buffered items.
func (r *Reader[T]) Len() int {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size()
}

// Cap reports the channel capacity; 0 means unbounded.
func (r *Reader[T]) Cap() int { return r.s.opts.capacity }

// --- Write end ---

// TryWrite appends an item without blocking. It returns false when the
// channel is full or has been completed. Unbounded channels reject writes
// only after completion.
func (w *Writer[T]) TryWrite(v T) bool {
	wrote, _ := w.s.tryWrite(v)
	return wrote
}

func (s *state[T]) tryWrite(v T) (wrote, completed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed {
		return false, true
	}
	if s.opts.capacity > 0 && s.size() == s.opts.capacity {
		return false, false
	}
	s.push(v)
	return true, false
}

// Write appends an item, blocking while a bounded channel is full. It
// returns ErrCompleted if the channel completes before the item is
// accepted, or ctx.Err() on cancellation.
func (w *Writer[T]) Write(ctx context.Context, v T) error {
	for {
		wrote, completed := w.s.tryWrite(v)
		if wrote {
			return nil
		}
		if completed {
			return ErrCompleted
		}
		select {
		case <-w.Writable():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Writable returns a channel that is closed when a TryWrite may succeed or
// the channel has been completed (so blocked writers can observe the
// rejection). Unbounded channels are always writable.
func (w *Writer[T]) Writable() <-chan struct{} {
	s := w.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed || s.opts.capacity <= 0 || s.size() < s.opts.capacity {
		return closedChan
	}
	return s.writable
}

// Complete marks the channel terminal, with err as the failure to report
// (nil for a clean completion). Buffered items remain readable; the Done
// signal fires once they are drained. Complete is one-shot: the first call
// wins and later calls report false.
func (w *Writer[T]) Complete(err error) bool {
	s := w.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed {
		return false
	}
	s.completed = true
	s.err = err
	if s.size() == 0 && !s.drained {
		s.drained = true
		close(s.done)
	}
	s.signalReadable()
	if s.opts.capacity > 0 {
		s.signalWritable()
	}
	return true
}

// Completed reports whether Complete has been called. Buffered items may
// still be readable; Done is the drained signal.
func (w *Writer[T]) Completed() bool {
	s := w.s
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

// Done mirrors Reader.Done for the write end.
func (w *Writer[T]) Done() <-chan struct{} {
	return w.s.done
}

// Len reports the number of buffered items.
func (w *Writer[T]) Len() int {
	s := w.s
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size()
}

// Cap reports the channel capacity; 0 means unbounded.
func (w *Writer[T]) Cap() int { return w.s.opts.capacity }
