package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "github.com/kbukum/streamkit/observability"

// Span names used across pipelines and connectors, so that related
// services emit comparable traces.
const (
	SpanStageProcess = "stage.process"
	SpanBatchFlush   = "batch.flush"
	SpanSourcePoll   = "source.poll"
	SpanSinkWrite    = "sink.write"
)

// Attribute keys shared between spans and metrics.
const (
	AttrServiceName   = "service.name"
	AttrPipelineName  = "pipeline.name"
	AttrStageName     = "stage.name"
	AttrConnectorName = "connector.name"
	AttrBatchSize     = "batch.size"
	AttrDurationMs    = "duration_ms"
	AttrStatus        = "status"
	AttrErrorMessage  = "error.message"
)

// Tracer returns a named tracer from the installed provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// Meter returns a named meter from the installed provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// StartSpan starts a span on the package's default tracer.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer(defaultTracerName).Start(ctx, name, opts...)
}

// SpanFromContext returns the span carried by ctx.
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// SetSpanAttribute attaches key=value to the span in ctx. Values outside
// the supported scalar and []string types are dropped.
func SetSpanAttribute(ctx context.Context, key string, value any) {
	span := SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	if kv, ok := toAttribute(key, value); ok {
		span.SetAttributes(kv)
	}
}

func toAttribute(key string, value any) (attribute.KeyValue, bool) {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v), true
	case int:
		return attribute.Int(key, v), true
	case int64:
		return attribute.Int64(key, v), true
	case float64:
		return attribute.Float64(key, v), true
	case bool:
		return attribute.Bool(key, v), true
	case []string:
		return attribute.StringSlice(key, v), true
	}
	return attribute.KeyValue{}, false
}

// SetSpanError records err on the span in ctx, if one is recording.
func SetSpanError(ctx context.Context, err error) {
	if span := SpanFromContext(ctx); span != nil && span.IsRecording() {
		span.RecordError(err)
	}
}
