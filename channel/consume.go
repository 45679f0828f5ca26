package channel

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Consume drives fn over every item of r with up to n concurrent
// invocations, blocking until the source drains or the run aborts.
//
// Each worker pulls the next item as it finishes the previous one, so
// dispatch follows source read order while completion order is
// unconstrained for n > 1. The first fn error cancels the remaining
// workers: no further items are admitted, in-flight invocations unwind via
// their context, and that first error is returned. When the source itself
// completed with an error, Consume returns it unchanged. n < 1 is treated
// as 1.
func Consume[T any](ctx context.Context, r *Reader[T], n int, fn func(context.Context, T) error) error {
	if n < 1 {
		n = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	for range n {
		g.Go(func() error {
			for {
				v, ok, err := r.Read(ctx)
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
				// Cancellation observed before dispatch fails the item
				// without invoking fn.
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := fn(ctx, v); err != nil {
					return err
				}
			}
		})
	}
	return g.Wait()
}
