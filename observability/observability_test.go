package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/streamkit/errors"
)

// recordingTracer installs an in-memory exporter so spans actually record,
// and restores the previous global provider when the test ends.
func recordingTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return exporter
}

func noopMetrics(t *testing.T) *StreamMetrics {
	t.Helper()
	m, err := NewStreamMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("NewStreamMetrics: %v", err)
	}
	return m
}

func TestDefaultConfigs(t *testing.T) {
	tc := DefaultTracerConfig("svc")
	if tc.ServiceName != "svc" || tc.Endpoint != "localhost:4318" || tc.SampleRate != 1.0 || !tc.Insecure {
		t.Errorf("unexpected tracer defaults: %+v", tc)
	}
	mc := DefaultMeterConfig("svc")
	if mc.ServiceName != "svc" || mc.Interval != 15*time.Second || !mc.Insecure {
		t.Errorf("unexpected meter defaults: %+v", mc)
	}
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, sdktrace.AlwaysSample().Description()},
		{2.5, sdktrace.AlwaysSample().Description()},
		{0, sdktrace.NeverSample().Description()},
		{-1, sdktrace.NeverSample().Description()},
		{0.25, sdktrace.TraceIDRatioBased(0.25).Description()},
	}
	for _, tc := range tests {
		if got := samplerFor(tc.rate).Description(); got != tc.want {
			t.Errorf("samplerFor(%v) = %q, want %q", tc.rate, got, tc.want)
		}
	}
}

func TestStreamMetrics_Recorders(t *testing.T) {
	m := noopMetrics(t)
	ctx := context.Background()

	// All recorders must accept calls without panicking on a noop meter.
	m.RecordIn(ctx, "enrich", 10)
	m.RecordOut(ctx, "enrich", 9)
	m.RecordBatch(ctx, "batcher", 100)
	m.RecordStage(ctx, "enrich", StatusOK, 50*time.Millisecond)
	m.StageStarted(ctx, "enrich")
	m.StageEnded(ctx, "enrich")
	m.RecordError(ctx, "enrich", "TRANSFORM_FAILED")
}

func TestErrorType(t *testing.T) {
	if got := ErrorType(errors.Timeout("flush")); got != "TIMEOUT" {
		t.Errorf("taxonomy error: got %q, want TIMEOUT", got)
	}
	if got := ErrorType(fmt.Errorf("plain failure")); got != "unknown" {
		t.Errorf("plain error: got %q, want unknown", got)
	}
}

func TestInstrumentTransform(t *testing.T) {
	m := noopMetrics(t)

	calls := 0
	double := InstrumentTransform(m, "double", func(ctx context.Context, v int) (int, error) {
		calls++
		return v * 2, nil
	})
	got, err := double(context.Background(), 21)
	if err != nil || got != 42 || calls != 1 {
		t.Errorf("double(21) = (%d, %v) after %d calls", got, err, calls)
	}

	boom := errors.TransformFailed("parse", fmt.Errorf("bad record"))
	failing := InstrumentTransform(m, "parse", func(ctx context.Context, v string) (string, error) {
		return "", boom
	})
	if _, err := failing(context.Background(), "x"); err != boom {
		t.Errorf("wrapped error not passed through verbatim: %v", err)
	}
}

func TestStageContext_Fields(t *testing.T) {
	sc := NewStageContext("ingest", "kafka-sink", nil)
	if sc.PipelineName != "ingest" || sc.StageName != "kafka-sink" {
		t.Errorf("unexpected identity: %+v", sc)
	}
	if sc.StartTime.IsZero() {
		t.Error("StartTime not set")
	}
}

func TestStageContext_ContextRoundTrip(t *testing.T) {
	if got := StageContextFromContext(context.Background()); got != nil {
		t.Errorf("bare context yielded %+v", got)
	}

	sc := NewStageContext("ingest", "kafka-sink", nil)
	ctx := WithStageContext(context.Background(), sc)
	if got := StageContextFromContext(ctx); got != sc {
		t.Errorf("round trip yielded %+v", got)
	}
}

func TestStageContext_Duration(t *testing.T) {
	sc := NewStageContext("ingest", "batcher", nil)
	sc.StartTime = time.Now().Add(-50 * time.Millisecond)
	if d := sc.Duration(); d < 45*time.Millisecond || d > 200*time.Millisecond {
		t.Errorf("duration %v not near 50ms", d)
	}
}

func TestStageContext_Lifecycle(t *testing.T) {
	tests := []struct {
		name    string
		metrics bool
		status  string
		err     error
	}{
		{"no metrics clean", false, StatusOK, nil},
		{"metrics clean", true, StatusOK, nil},
		{"metrics with error", true, StatusError, fmt.Errorf("broker unreachable")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			exporter := recordingTracer(t)

			var m *StreamMetrics
			if tc.metrics {
				m = noopMetrics(t)
			}
			sc := NewStageContext("ingest", "kafka-sink", m)
			ctx, span := sc.StartSpanForStage(context.Background(), SpanSinkWrite)
			sc.EndStage(ctx, span, tc.status, tc.err)

			spans := exporter.GetSpans()
			if len(spans) != 1 {
				t.Fatalf("recorded %d spans, want 1", len(spans))
			}
			if spans[0].Name != SpanSinkWrite {
				t.Errorf("span name %q", spans[0].Name)
			}
			if tc.err != nil && len(spans[0].Events) == 0 {
				t.Error("error not recorded as span event")
			}
		})
	}
}

func TestSpanHelpers(t *testing.T) {
	recordingTracer(t)

	if Tracer("t") == nil || Meter("m") == nil {
		t.Fatal("global accessors returned nil")
	}

	ctx, span := StartSpan(context.Background(), "op")
	defer span.End()
	if SpanFromContext(ctx) != span {
		t.Error("StartSpan did not bind the span into context")
	}
}

func TestSetSpanAttribute_Recorded(t *testing.T) {
	exporter := recordingTracer(t)

	ctx, span := StartSpan(context.Background(), "attrs")
	SetSpanAttribute(ctx, "stage", "enrich")
	SetSpanAttribute(ctx, "batch_size", 128)
	SetSpanAttribute(ctx, "unsupported", struct{}{})
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(spans))
	}
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes {
		attrs[kv.Key] = kv.Value
	}
	if attrs["stage"].AsString() != "enrich" {
		t.Errorf("stage attribute missing: %v", attrs)
	}
	if attrs["batch_size"].AsInt64() != 128 {
		t.Errorf("batch_size attribute missing: %v", attrs)
	}
	if _, ok := attrs["unsupported"]; ok {
		t.Error("unsupported value type should be dropped")
	}
}

func TestToAttribute(t *testing.T) {
	supported := []any{"s", 1, int64(2), 3.0, true, []string{"a"}}
	for _, v := range supported {
		if _, ok := toAttribute("k", v); !ok {
			t.Errorf("toAttribute rejected %T", v)
		}
	}
	if _, ok := toAttribute("k", map[string]int{}); ok {
		t.Error("toAttribute accepted a map")
	}
}

func TestSetSpanError_Recorded(t *testing.T) {
	exporter := recordingTracer(t)

	ctx, span := StartSpan(context.Background(), "failing")
	SetSpanError(ctx, fmt.Errorf("test error"))
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 || len(spans[0].Events) == 0 {
		t.Fatalf("error event not recorded: %+v", spans)
	}
}

func TestSpanHelpers_NoRecordingSpan(t *testing.T) {
	// Must not panic against a bare context.
	SetSpanAttribute(context.Background(), "key", "value")
	SetSpanError(context.Background(), fmt.Errorf("dropped"))
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	if cfg.Endpoint != "localhost:4318" || cfg.SampleRate != 1.0 || cfg.MetricInterval != "15s" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Endpoint: "localhost:4318", SampleRate: 0.5, MetricInterval: "30s"}, false},
		{"sample rate too high", Config{SampleRate: 1.5}, true},
		{"negative sample rate", Config{SampleRate: -0.1}, true},
		{"bad metric interval", Config{SampleRate: 1.0, MetricInterval: "soon"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestConfig_GetMetricInterval(t *testing.T) {
	parsedCfg := Config{MetricInterval: "45s"}
	if got := parsedCfg.GetMetricInterval(); got != 45*time.Second {
		t.Errorf("parsed interval %v, want 45s", got)
	}
	fallbackCfg := Config{MetricInterval: "garbage"}
	if got := fallbackCfg.GetMetricInterval(); got != 15*time.Second {
		t.Errorf("fallback interval %v, want 15s", got)
	}
}

func TestConfig_DerivedConfigs(t *testing.T) {
	cfg := Config{Enabled: true, Endpoint: "collector:4318", Insecure: true, SampleRate: 0.25, MetricInterval: "30s"}

	tc := cfg.TracerConfig("svc", "2.0.0", "prod")
	if tc.ServiceName != "svc" || tc.ServiceVersion != "2.0.0" || tc.Environment != "prod" {
		t.Errorf("tracer config identity mismatch: %+v", tc)
	}
	if tc.Endpoint != "collector:4318" || tc.SampleRate != 0.25 || !tc.Insecure {
		t.Errorf("tracer config settings mismatch: %+v", tc)
	}

	mc := cfg.MeterConfig("svc", "2.0.0", "prod")
	if mc.Endpoint != "collector:4318" || mc.Interval != 30*time.Second {
		t.Errorf("meter config settings mismatch: %+v", mc)
	}
}

func TestInitProviders(t *testing.T) {
	tp, err := InitTracer(context.Background(), DefaultTracerConfig("test-service"))
	if err != nil {
		t.Skipf("InitTracer: %v", err)
	}
	defer tp.Shutdown(context.Background())

	mp, err := InitMeter(context.Background(), DefaultMeterConfig("test-service"))
	if err != nil {
		t.Skipf("InitMeter: %v", err)
	}
	defer mp.Shutdown(context.Background())
}
