package channel

// options configures a channel at construction time.
type options struct {
	capacity          int
	singleReader      bool
	singleWriter      bool
	syncContinuations bool
}

func defaultOptions() options {
	return options{}
}

// Option configures New.
type Option func(*options)

// WithCapacity bounds the channel to n items; writes beyond n block until a
// reader frees space. n <= 0 (the default) leaves the channel unbounded.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.capacity = n
	}
}

// WithSingleReader declares that at most one goroutine will read from the
// channel. This is an advisory consumer-arity hint; it does not change
// observable semantics.
func WithSingleReader() Option {
	return func(o *options) { o.singleReader = true }
}

// WithSingleWriter declares that at most one goroutine will write to the
// channel. Advisory, like WithSingleReader.
func WithSingleWriter() Option {
	return func(o *options) { o.singleWriter = true }
}

// WithSynchronousContinuations allows readiness notifications to run on the
// goroutine that triggered them rather than being deferred. Advisory: the
// generation-channel wake path already delivers notifications inline, so the
// hint is recorded for parity with callers that thread it through.
func WithSynchronousContinuations() Option {
	return func(o *options) { o.syncContinuations = true }
}
