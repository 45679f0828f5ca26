package pipeline

import (
	"github.com/kbukum/streamkit/channel"
)

// Advancer is one step of a buffering stage. TryAdvance attempts to move
// the stage forward without blocking: consume source items, update
// internal state, possibly emit to the output buffer. It reports whether
// any observable progress was made.
//
// Implementations must be safe for concurrent calls and must tolerate
// being invoked after the stage's source or output has completed,
// reporting no progress in those cases.
type Advancer interface {
	TryAdvance() bool
}

// readable is the subset of the channel read end a driver watches.
type readable interface {
	Readable() <-chan struct{}
	Done() <-chan struct{}
	Err() error
}

// bufferedReader drives an Advancer: it repeatedly calls TryAdvance,
// parks on the source's readiness signals between bursts, and once the
// source drains performs the terminal flush before completing the output
// with the source's error.
type bufferedReader[T any] struct {
	src readable
	adv Advancer
	out *channel.Writer[T]
}

func drive[T any](src readable, adv Advancer, out *channel.Writer[T]) {
	b := &bufferedReader[T]{src: src, adv: adv, out: out}
	go b.run()
}

func (b *bufferedReader[T]) run() {
	for {
		for b.adv.TryAdvance() {
		}
		select {
		case <-b.src.Done():
			b.finish()
			return
		default:
		}
		select {
		case <-b.src.Readable():
			// Data is waiting but the advancer made no progress, so it is
			// blocked on output capacity. Park until a reader makes room.
			if b.out.Cap() > 0 {
				select {
				case <-b.out.Writable():
				case <-b.src.Done():
				}
			}
		case <-b.src.Done():
		}
	}
}

// finish runs after the source has drained: it lets the advancer flush
// whatever it still holds, waiting out a full output buffer, and then
// completes the output with the source's terminal error.
func (b *bufferedReader[T]) finish() {
	for {
		for b.adv.TryAdvance() {
		}
		select {
		case <-b.out.Writable():
			b.out.Complete(b.src.Err())
			return
		default:
		}
		<-b.out.Writable()
	}
}
