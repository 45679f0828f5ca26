package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kbukum/streamkit/channel"
	"github.com/kbukum/streamkit/logger"
)

// fetcher is the slice of kafka-go's Reader the source consumes, so
// tests can feed scripted messages without a broker.
type fetcher interface {
	ReadMessage(ctx context.Context) (kafkago.Message, error)
	Close() error
}

// Source consumes one Kafka topic and exposes it as a stream. Create it
// with NewSource, then call Open to start the consume loop; the returned
// read end plugs into any pipeline stage.
type Source struct {
	reader   fetcher
	topic    string
	groupID  string
	log      *logger.Logger
	failures int
}

// NewSource creates a Kafka source for the configured topic.
func NewSource(cfg Config, log *logger.Logger) (*Source, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("kafka source config: %w", err)
	}
	if !cfg.Enabled {
		return nil, fmt.Errorf("kafka is disabled")
	}

	dialer, err := newDialer(&cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka source dialer: %w", err)
	}

	slog := log.WithComponent("kafka.source")

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:           cfg.Brokers,
		Topic:             cfg.Topic,
		GroupID:           cfg.GroupID,
		Dialer:            dialer,
		StartOffset:       resolveStartOffset(cfg.StartOffset),
		MinBytes:          int(cfg.MinBytesValue()),
		MaxBytes:          int(cfg.MaxBytesValue()),
		SessionTimeout:    ParseDuration(cfg.SessionTimeout),
		HeartbeatInterval: ParseDuration(cfg.HeartbeatInterval),
		RebalanceTimeout:  ParseDuration(cfg.RebalanceTimeout),
		ErrorLogger: kafkago.LoggerFunc(func(msg string, args ...interface{}) {
			slog.Error("reader: "+msg, map[string]interface{}{
				"args":    fmt.Sprintf("%v", args),
				"topic":   cfg.Topic,
				"groupID": cfg.GroupID,
			})
		}),
	})

	slog.Info("Kafka source initialized", map[string]interface{}{
		"topic":   cfg.Topic,
		"groupID": cfg.GroupID,
		"brokers": cfg.Brokers,
	})

	return &Source{
		reader:  reader,
		topic:   cfg.Topic,
		groupID: cfg.GroupID,
		log:     slog,
	}, nil
}

// Open starts the consume loop and returns the stream it feeds. The
// stream completes with ctx's error on cancellation and cleanly when the
// source is closed. Transient read errors are retried with capped
// backoff, not surfaced downstream. With a bounded stream the loop stops
// fetching while downstream is full, so broker consumption inherits the
// pipeline's backpressure.
func (s *Source) Open(ctx context.Context, opts ...channel.Option) *channel.Reader[Message] {
	out, w := channel.New[Message](append(opts, channel.WithSingleWriter())...)

	go func() {
		for {
			msg, err := s.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					w.Complete(ctx.Err())
					return
				}
				if errors.Is(err, io.EOF) {
					// Reader closed: the topic stream is over.
					w.Complete(nil)
					return
				}
				if backoffErr := s.backoff(ctx, err); backoffErr != nil {
					w.Complete(backoffErr)
					return
				}
				continue
			}

			s.failures = 0

			if err := w.Write(ctx, fromKafka(msg)); err != nil {
				w.Complete(err)
				return
			}
		}
	}()

	return out
}

// backoff sleeps after a read failure, one second per consecutive
// failure up to thirty. Only ctx cancellation turns it into an error.
func (s *Source) backoff(ctx context.Context, err error) error {
	s.failures++
	if s.failures <= 3 {
		s.log.Error("Kafka read error", map[string]interface{}{
			"error":    err.Error(),
			"failures": s.failures,
			"topic":    s.topic,
			"groupID":  s.groupID,
		})
	}

	delay := time.Duration(s.failures) * time.Second
	if delay > 30*time.Second {
		delay = 30 * time.Second
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// Topic returns the topic the source consumes.
func (s *Source) Topic() string { return s.topic }

// Close shuts down the underlying reader; the open stream then
// completes cleanly once its buffered messages drain.
func (s *Source) Close() error {
	s.log.Info("Kafka source closing", map[string]interface{}{
		"topic":   s.topic,
		"groupID": s.groupID,
	})
	return s.reader.Close()
}
