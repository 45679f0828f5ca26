package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kbukum/streamkit/channel"
)

// Spill drains batches from src into the store, JSON-encoded. It
// returns the stream's terminal error once src drains, or the first
// store error. Pair it with pipeline.Batch to give a pipeline a durable
// overflow:
//
//	batches, _ := pipeline.Batch(items, 100)
//	err := sqlite.Spill(ctx, store, batches)
func Spill[T any](ctx context.Context, st *Store, src *channel.Reader[[]T]) error {
	return channel.Consume(ctx, src, 1, func(ctx context.Context, batch []T) error {
		data, err := json.Marshal(batch)
		if err != nil {
			return fmt.Errorf("encode batch: %w", err)
		}
		if _, err := st.Push(ctx, data, len(batch)); err != nil {
			return err
		}
		return nil
	})
}

// Replay claims stored batches and hands each to fn, oldest first,
// until the store has no claimable batches left. A batch is deleted
// when fn returns nil and released (with cooldown) when fn fails, so
// processing is at-least-once: a crash between fn and the delete means
// the batch is claimed again on the next run.
//
// Replay stops at the first fn error or store error and returns it;
// draining an empty store returns nil.
func Replay[T any](ctx context.Context, st *Store, fn func(ctx context.Context, batch []T) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		claimed, err := st.Claim(ctx)
		if err != nil {
			return err
		}
		if len(claimed) == 0 {
			return nil
		}

		for _, b := range claimed {
			var batch []T
			if err := json.Unmarshal(b.Data, &batch); err != nil {
				// Leave the batch released rather than deleted: the
				// payload may be recoverable with a schema fix.
				_ = st.Release(ctx, b.ID)
				return fmt.Errorf("decode batch %s: %w", b.ID, err)
			}
			if err := fn(ctx, batch); err != nil {
				_ = st.Release(ctx, b.ID)
				return fmt.Errorf("replay batch %s: %w", b.ID, err)
			}
			if err := st.Delete(ctx, b.ID); err != nil {
				return err
			}
		}
	}
}

// ReplayStream claims stored batches and exposes them as a stream.
// Each batch is deleted as soon as it is accepted by the stream's
// buffer, so delivery downstream is at-most-once; use Replay when the
// handler's success must gate the delete. The stream completes cleanly
// when the store drains, or with the first store error.
func ReplayStream[T any](ctx context.Context, st *Store, opts ...channel.Option) *channel.Reader[[]T] {
	out, w := channel.New[[]T](append(opts, channel.WithSingleWriter())...)

	go func() {
		err := Replay(ctx, st, func(ctx context.Context, batch []T) error {
			return w.Write(ctx, batch)
		})
		w.Complete(err)
	}()

	return out
}
