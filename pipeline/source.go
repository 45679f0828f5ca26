package pipeline

import (
	"context"

	"github.com/kbukum/streamkit/channel"
)

// FromSlice produces a stream carrying the given items in order,
// completing cleanly after the last one. With a bounded output the
// producer blocks on backpressure; ctx cancellation aborts it and
// completes the stream with the cancellation error.
func FromSlice[T any](ctx context.Context, items []T, opts ...Option) *channel.Reader[T] {
	o := buildOptions(opts)
	out, w := channel.New[T](o.channelOptions(channel.WithSingleWriter())...)

	go func() {
		for _, v := range items {
			if err := w.Write(ctx, v); err != nil {
				w.Complete(err)
				return
			}
		}
		w.Complete(nil)
	}()

	return out
}

// FromFunc runs fn on its own goroutine with the write end of a fresh
// stream and completes the stream with fn's return value. fn may also
// complete the writer itself; the later completion is a no-op.
func FromFunc[T any](ctx context.Context, fn func(ctx context.Context, w *channel.Writer[T]) error, opts ...Option) *channel.Reader[T] {
	o := buildOptions(opts)
	out, w := channel.New[T](o.channelOptions(channel.WithSingleWriter())...)

	go func() {
		w.Complete(fn(ctx, w))
	}()

	return out
}
