package pipeline

import (
	"context"

	"github.com/kbukum/streamkit/channel"
	"github.com/kbukum/streamkit/errors"
)

// Broadcast delivers every item of src to each of n subscriber streams,
// in order and without loss. Writes to subscribers are sequential, so a
// slow subscriber with a bounded buffer backpressures the whole fan-out.
// All subscribers complete together, with the source's error or the
// cancellation error.
func Broadcast[T any](ctx context.Context, src *channel.Reader[T], n int, opts ...Option) ([]*channel.Reader[T], error) {
	if n < 1 {
		return nil, errors.InvalidInput("subscribers", "must be at least 1")
	}

	o := buildOptions(opts)
	readers := make([]*channel.Reader[T], n)
	writers := make([]*channel.Writer[T], n)
	for i := range n {
		readers[i], writers[i] = channel.New[T](o.channelOptions(channel.WithSingleWriter())...)
	}

	go func() {
		err := channel.Consume(ctx, src, 1, func(ctx context.Context, v T) error {
			for _, w := range writers {
				if err := w.Write(ctx, v); err != nil {
					return err
				}
			}
			return nil
		})
		for _, w := range writers {
			w.Complete(err)
		}
	}()

	return readers, nil
}
