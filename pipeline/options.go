package pipeline

import (
	"github.com/kbukum/streamkit/channel"
)

// Option configures the output channel of a stage.
type Option func(*options)

type options struct {
	capacity          int
	singleReader      bool
	syncContinuations bool
}

// WithCapacity bounds the stage's output buffer at n items. Once the
// buffer is full the stage stops consuming its source until a reader
// makes room, so backpressure propagates upstream. Zero or negative n
// leaves the output unbounded.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithSingleReader declares that exactly one goroutine reads the stage's
// output, enabling the channel fast path.
func WithSingleReader() Option {
	return func(o *options) {
		o.singleReader = true
	}
}

// WithSynchronousContinuations makes readiness notifications on the
// stage's output run inline rather than on spawned goroutines.
func WithSynchronousContinuations() Option {
	return func(o *options) {
		o.syncContinuations = true
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// channelOptions translates stage options into channel options, appending
// any stage-specific extras such as the single-writer hint.
func (o options) channelOptions(extra ...channel.Option) []channel.Option {
	out := make([]channel.Option, 0, 3+len(extra))
	if o.capacity > 0 {
		out = append(out, channel.WithCapacity(o.capacity))
	}
	if o.singleReader {
		out = append(out, channel.WithSingleReader())
	}
	if o.syncContinuations {
		out = append(out, channel.WithSynchronousContinuations())
	}
	return append(out, extra...)
}
