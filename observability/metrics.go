package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/kbukum/streamkit/errors"
)

// Stage outcome values recorded on duration and error metrics.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// StreamMetrics holds OpenTelemetry instruments for pipeline stages.
// All instruments carry a "stage" attribute so one bundle serves an
// entire pipeline.
type StreamMetrics struct {
	itemsIn       metric.Int64Counter
	itemsOut      metric.Int64Counter
	batches       metric.Int64Counter
	batchSize     metric.Int64Histogram
	stageDuration metric.Float64Histogram
	inFlight      metric.Int64UpDownCounter
	errorTotal    metric.Int64Counter
}

// NewStreamMetrics creates pipeline instruments on the given meter.
func NewStreamMetrics(meter metric.Meter) (*StreamMetrics, error) {
	itemsIn, err := meter.Int64Counter("pipeline.items.in",
		metric.WithDescription("Items read from a stage's upstream"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.items.in counter: %w", err)
	}

	itemsOut, err := meter.Int64Counter("pipeline.items.out",
		metric.WithDescription("Items a stage delivered downstream"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.items.out counter: %w", err)
	}

	batches, err := meter.Int64Counter("pipeline.batches",
		metric.WithDescription("Batches flushed downstream"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.batches counter: %w", err)
	}

	batchSize, err := meter.Int64Histogram("pipeline.batch.size",
		metric.WithDescription("Distribution of flushed batch sizes"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.batch.size histogram: %w", err)
	}

	stageDuration, err := meter.Float64Histogram("pipeline.stage.duration",
		metric.WithDescription("Per-item stage processing time in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.stage.duration histogram: %w", err)
	}

	inFlight, err := meter.Int64UpDownCounter("pipeline.stage.inflight",
		metric.WithDescription("Items currently being processed by a stage"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.stage.inflight gauge: %w", err)
	}

	errorTotal, err := meter.Int64Counter("pipeline.errors",
		metric.WithDescription("Stage errors by type"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.errors counter: %w", err)
	}

	return &StreamMetrics{
		itemsIn:       itemsIn,
		itemsOut:      itemsOut,
		batches:       batches,
		batchSize:     batchSize,
		stageDuration: stageDuration,
		inFlight:      inFlight,
		errorTotal:    errorTotal,
	}, nil
}

// RecordIn counts items a stage pulled from its upstream.
func (m *StreamMetrics) RecordIn(ctx context.Context, stage string, n int64) {
	m.itemsIn.Add(ctx, n, metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordOut counts items a stage delivered downstream.
func (m *StreamMetrics) RecordOut(ctx context.Context, stage string, n int64) {
	m.itemsOut.Add(ctx, n, metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordBatch records one flushed batch and its size.
func (m *StreamMetrics) RecordBatch(ctx context.Context, stage string, size int) {
	attrs := metric.WithAttributes(attribute.String("stage", stage))
	m.batches.Add(ctx, 1, attrs)
	m.batchSize.Record(ctx, int64(size), attrs)
}

// RecordStage records one item's processing time and outcome.
func (m *StreamMetrics) RecordStage(ctx context.Context, stage, status string, duration time.Duration) {
	m.stageDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("status", status),
	))
}

// StageStarted increments the in-flight count for a stage.
func (m *StreamMetrics) StageStarted(ctx context.Context, stage string) {
	m.inFlight.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
}

// StageEnded decrements the in-flight count for a stage.
func (m *StreamMetrics) StageEnded(ctx context.Context, stage string) {
	m.inFlight.Add(ctx, -1, metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordError records a stage error by type.
func (m *StreamMetrics) RecordError(ctx context.Context, stage, errType string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("type", errType),
	))
}

// ErrorType returns the metric attribute value for an error. Errors carrying
// the kit's taxonomy report their code; anything else is "unknown".
func ErrorType(err error) string {
	if e := errors.AsError(err); e != nil {
		return string(e.Code)
	}
	return "unknown"
}

// InstrumentTransform wraps a transform function with per-item metrics:
// item counts, in-flight tracking, duration by outcome, and errors by type.
// The returned function is accepted wherever stage constructors take one.
func InstrumentTransform[I, O any](m *StreamMetrics, stage string, fn func(ctx context.Context, v I) (O, error)) func(ctx context.Context, v I) (O, error) {
	return func(ctx context.Context, v I) (O, error) {
		m.RecordIn(ctx, stage, 1)
		m.StageStarted(ctx, stage)
		start := time.Now()

		out, err := fn(ctx, v)

		m.StageEnded(ctx, stage)
		if err != nil {
			m.RecordStage(ctx, stage, StatusError, time.Since(start))
			m.RecordError(ctx, stage, ErrorType(err))
			return out, err
		}
		m.RecordStage(ctx, stage, StatusOK, time.Since(start))
		m.RecordOut(ctx, stage, 1)
		return out, nil
	}
}
