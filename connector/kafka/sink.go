package kafka

import (
	"context"
	"fmt"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kbukum/streamkit/channel"
	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/resilience"
)

// producer is the slice of kafka-go's Writer the sink produces through,
// so tests can capture messages without a broker.
type producer interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Sink drains a stream of messages into a Kafka topic. Each produce is
// retried with jittered backoff before the failure is allowed to stop
// the drain.
type Sink struct {
	writer producer
	topic  string
	retry  resilience.RetryConfig
	log    *logger.Logger
	mu     sync.Mutex
	closed bool
}

// NewSink creates a Kafka sink producing to the configured topic.
func NewSink(cfg Config, log *logger.Logger) (*Sink, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("kafka sink config: %w", err)
	}
	if !cfg.Enabled {
		return nil, fmt.Errorf("kafka is disabled")
	}

	transport, err := newTransport(&cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka sink transport: %w", err)
	}

	slog := log.WithComponent("kafka.sink")

	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Transport:    transport,
		Balancer:     &kafkago.LeastBytes{},
		BatchSize:    cfg.BatchSize,
		BatchTimeout: ParseDuration(cfg.BatchTimeout),
		RequiredAcks: kafkago.RequiredAcks(cfg.RequiredAcks),
		Compression:  resolveCompression(cfg.Compression),
		WriteTimeout: ParseDuration(cfg.WriteTimeout),
		ErrorLogger: kafkago.LoggerFunc(func(msg string, args ...interface{}) {
			slog.Error("writer: "+msg, map[string]interface{}{
				"args": fmt.Sprintf("%v", args),
			})
		}),
	}

	slog.Info("Kafka sink initialized", map[string]interface{}{
		"brokers":     cfg.Brokers,
		"topic":       cfg.Topic,
		"compression": cfg.Compression,
		"batch_size":  cfg.BatchSize,
	})

	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = cfg.Retries
	retry.OnRetry = func(attempt int, err error, backoff time.Duration) {
		slog.Warn("Produce retry", map[string]interface{}{
			"attempt": attempt,
			"error":   err.Error(),
			"backoff": backoff.String(),
		})
	}

	return &Sink{
		writer: writer,
		topic:  cfg.Topic,
		retry:  retry,
		log:    slog,
	}, nil
}

// Run drains src one message at a time, producing each before reading
// the next. It returns the stream's terminal error once src drains, or
// the produce error that stopped it.
func (s *Sink) Run(ctx context.Context, src *channel.Reader[Message]) error {
	return channel.Consume(ctx, src, 1, func(ctx context.Context, m Message) error {
		return s.produce(ctx, m)
	})
}

// RunBatches drains a batched stream, one produce call per batch. Pair
// it with pipeline.Batch to amortize the broker round-trip.
func (s *Sink) RunBatches(ctx context.Context, src *channel.Reader[[]Message]) error {
	return channel.Consume(ctx, src, 1, func(ctx context.Context, ms []Message) error {
		return s.produce(ctx, ms...)
	})
}

func (s *Sink) produce(ctx context.Context, ms ...Message) error {
	if len(ms) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(ms))
	for i, m := range ms {
		msgs[i] = toKafka(m, s.topic)
	}
	_, err := resilience.Retry(ctx, s.retry, func() (struct{}, error) {
		return struct{}{}, s.writer.WriteMessages(ctx, msgs...)
	})
	if err != nil {
		return fmt.Errorf("produce %d messages: %w", len(msgs), err)
	}
	return nil
}

// Close shuts down the underlying writer. Safe to call more than once.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.log.Info("Kafka sink closing")
	return s.writer.Close()
}
