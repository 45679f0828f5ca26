package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/streamkit/channel"
	"github.com/kbukum/streamkit/resilience"
)

// Source pops items off the tail of the configured list and exposes
// them as a stream of T, JSON-decoded. The loop blocks on BRPOP in
// PollTimeout slices so cancellation is observed promptly; an empty
// list is not a termination, only ctx ends the stream. A decode
// failure completes the stream with the error: a poisoned payload on a
// typed stream means the producer and consumer disagree.
func Source[T any](ctx context.Context, c *Client, opts ...channel.Option) *channel.Reader[T] {
	out, w := channel.New[T](append(opts, channel.WithSingleWriter())...)
	key := c.cfg.Key
	poll := parseDuration(c.cfg.PollTimeout)

	go func() {
		failures := 0
		for {
			if err := ctx.Err(); err != nil {
				w.Complete(err)
				return
			}

			vals, err := c.rdb.BRPop(ctx, poll, key).Result()
			if err != nil {
				if errors.Is(err, goredis.Nil) {
					failures = 0
					continue // poll window elapsed with nothing queued
				}
				if ctx.Err() != nil {
					w.Complete(ctx.Err())
					return
				}
				failures++
				if !sleep(ctx, backoffFor(failures)) {
					w.Complete(ctx.Err())
					return
				}
				continue
			}
			failures = 0

			// BRPop returns [key, value].
			var v T
			if err := json.Unmarshal([]byte(vals[1]), &v); err != nil {
				w.Complete(fmt.Errorf("decode item from %s: %w", key, err))
				return
			}
			if err := w.Write(ctx, v); err != nil {
				w.Complete(err)
				return
			}
		}
	}()

	return out
}

// Sink drains src onto the head of the configured list, one LPUSH per
// item, retrying transient failures. It returns the stream's terminal
// error once src drains, or the push error that stopped the drain.
func Sink[T any](ctx context.Context, c *Client, src *channel.Reader[T]) error {
	key := c.cfg.Key
	retry := resilience.DefaultRetryConfig()

	return channel.Consume(ctx, src, 1, func(ctx context.Context, v T) error {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode item for %s: %w", key, err)
		}
		_, err = resilience.Retry(ctx, retry, func() (struct{}, error) {
			return struct{}{}, c.rdb.LPush(ctx, key, data).Err()
		})
		if err != nil {
			return fmt.Errorf("push to %s: %w", key, err)
		}
		return nil
	})
}

func backoffFor(failures int) time.Duration {
	d := time.Duration(failures) * 100 * time.Millisecond
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}

func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
