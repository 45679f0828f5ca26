package pipeline

import (
	"context"
	"sync"

	"github.com/kbukum/streamkit/channel"
)

// Filter forwards the items of src for which pred returns true,
// preserving order. A pred error or source error fails the stream.
func Filter[T any](ctx context.Context, src *channel.Reader[T], pred func(ctx context.Context, v T) (bool, error), opts ...Option) *channel.Reader[T] {
	o := buildOptions(opts)
	out, w := channel.New[T](o.channelOptions(channel.WithSingleWriter())...)

	go func() {
		err := channel.Consume(ctx, src, 1, func(ctx context.Context, v T) error {
			keep, err := pred(ctx, v)
			if err != nil {
				return err
			}
			if !keep {
				return nil
			}
			return w.Write(ctx, v)
		})
		w.Complete(err)
	}()

	return out
}

// Tap invokes fn for each item and forwards the item unchanged,
// preserving order. Useful for logging and metrics mid-stream.
func Tap[T any](ctx context.Context, src *channel.Reader[T], fn func(ctx context.Context, v T) error, opts ...Option) *channel.Reader[T] {
	return Map(ctx, src, func(ctx context.Context, v T) (T, error) {
		if err := fn(ctx, v); err != nil {
			var zero T
			return zero, err
		}
		return v, nil
	}, opts...)
}

// Merge combines the items of all sources into a single stream. No
// ordering is promised across sources. The merged stream completes once
// every source has drained, carrying the first error observed; a failure
// in one source stops consumption of the others.
func Merge[T any](ctx context.Context, sources []*channel.Reader[T], opts ...Option) *channel.Reader[T] {
	o := buildOptions(opts)
	out, w := channel.New[T](o.channelOptions()...)

	mergeCtx, cancel := context.WithCancel(ctx)
	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	for _, src := range sources {
		wg.Add(1)
		go func(src *channel.Reader[T]) {
			defer wg.Done()
			err := channel.Consume(mergeCtx, src, 1, func(ctx context.Context, v T) error {
				return w.Write(ctx, v)
			})
			if err != nil {
				once.Do(func() {
					firstErr = err
					cancel()
				})
			}
		}(src)
	}

	go func() {
		wg.Wait()
		cancel()
		w.Complete(firstErr)
	}()

	return out
}
