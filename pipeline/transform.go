package pipeline

import (
	"context"

	"github.com/kbukum/streamkit/channel"
	"github.com/kbukum/streamkit/errors"
)

// TransformFunc converts one input item into one output item. It is
// invoked from worker goroutines and must be safe for concurrent use
// when the stage runs with concurrency above one.
type TransformFunc[I, O any] func(ctx context.Context, v I) (O, error)

// Transform consumes src with the given number of worker goroutines,
// applies fn to each item, and writes the results to the returned stream.
// With concurrency 1 output order matches input order; above 1 each item
// is still processed exactly once but output order is NOT preserved.
//
// The stage stops at the first failure: a transform error, a source
// error, or ctx cancellation. Items already read by workers when the
// failure occurs may still be dropped; items already written remain
// readable. The output completes with the first error once the workers
// have stopped, or cleanly when src drains without error.
func Transform[I, O any](ctx context.Context, src *channel.Reader[I], concurrency int, fn TransformFunc[I, O], opts ...Option) (*channel.Reader[O], error) {
	if concurrency < 1 {
		return nil, errors.InvalidInput("concurrency", "must be at least 1")
	}

	o := buildOptions(opts)
	chanOpts := o.channelOptions()
	if concurrency == 1 {
		chanOpts = append(chanOpts, channel.WithSingleWriter())
	}
	out, w := channel.New[O](chanOpts...)

	go func() {
		err := channel.Consume(ctx, src, concurrency, func(ctx context.Context, v I) error {
			res, err := fn(ctx, v)
			if err != nil {
				return err
			}
			return w.Write(ctx, res)
		})
		w.Complete(err)
	}()

	return out, nil
}

// Map is Transform with a single worker: order preserved, one item in
// flight at a time.
func Map[I, O any](ctx context.Context, src *channel.Reader[I], fn TransformFunc[I, O], opts ...Option) *channel.Reader[O] {
	out, _ := Transform(ctx, src, 1, fn, opts...)
	return out
}
