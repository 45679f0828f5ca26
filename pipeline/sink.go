package pipeline

import (
	"context"

	"github.com/kbukum/streamkit/channel"
)

// Collect reads src to completion and returns every item in order. On a
// source error or ctx cancellation it returns the items read so far
// together with the error.
func Collect[T any](ctx context.Context, src *channel.Reader[T]) ([]T, error) {
	var out []T
	for {
		v, ok, err := src.Read(ctx)
		if !ok {
			return out, err
		}
		out = append(out, v)
	}
}

// ForEach invokes fn for each item of src in order, stopping at the
// first fn error, source error, or ctx cancellation.
func ForEach[T any](ctx context.Context, src *channel.Reader[T], fn func(ctx context.Context, v T) error) error {
	return channel.Consume(ctx, src, 1, fn)
}

// Drain reads src to completion, discarding the items, and returns the
// source's terminal error.
func Drain[T any](ctx context.Context, src *channel.Reader[T]) error {
	return ForEach(ctx, src, func(context.Context, T) error { return nil })
}
