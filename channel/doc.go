// Package channel provides the FIFO queue primitive the streaming stages
// are built on: a write end and a read end over one buffer, optional
// capacity, and a one-shot completion signal that may carry a terminal
// error.
//
// A channel differs from a native Go chan in three ways the stages depend
// on: completion can carry an error, try-operations never suspend and never
// spuriously fail, and completion is observable without consuming items.
// Items written before completion stay readable after it; the Done signal
// fires only once the channel is completed and fully drained.
//
// # Ends
//
// New returns a Reader and a Writer sharing one queue:
//
//	r, w := channel.New[int](channel.WithCapacity(8))
//	go func() {
//	    for i := range 100 {
//	        _ = w.Write(ctx, i) // blocks while full
//	    }
//	    w.Complete(nil)
//	}()
//	for {
//	    v, ok, err := r.Read(ctx)
//	    if !ok {
//	        break // err carries the terminal failure, nil here
//	    }
//	    use(v)
//	}
//
// TryRead and TryWrite are the non-blocking forms. Readable and Writable
// expose level-triggered readiness for select-based composition; both
// return an already-closed channel when the condition currently holds.
//
// # Fan-out
//
// Consume is the bounded-concurrency driver used by pipeline.Transform: it
// runs up to n workers over one read end, stops admitting items on the
// first error, and forwards a source's terminal error unchanged.
package channel
