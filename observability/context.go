package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// StageContext holds observability context for one tracked unit of stage
// work, typically a batch flush or a connector poll cycle.
type StageContext struct {
	PipelineName string
	StageName    string
	StartTime    time.Time
	Metrics      *StreamMetrics
}

// NewStageContext creates a new stage context.
// If metrics is nil, metric recording is silently skipped.
func NewStageContext(pipelineName, stageName string, metrics *StreamMetrics) *StageContext {
	return &StageContext{
		PipelineName: pipelineName,
		StageName:    stageName,
		StartTime:    time.Now(),
		Metrics:      metrics,
	}
}

// stageContextKey is the context key for StageContext.
type stageContextKey struct{}

// WithStageContext stores a StageContext in the context.
func WithStageContext(ctx context.Context, sc *StageContext) context.Context {
	return context.WithValue(ctx, stageContextKey{}, sc)
}

// StageContextFromContext retrieves the StageContext from context, or nil.
func StageContextFromContext(ctx context.Context) *StageContext {
	if sc, ok := ctx.Value(stageContextKey{}).(*StageContext); ok {
		return sc
	}
	return nil
}

// StartSpanForStage starts a traced span and marks the stage in flight.
func (sc *StageContext) StartSpanForStage(ctx context.Context, spanName string) (context.Context, trace.Span) {
	ctx, span := StartSpan(ctx, spanName)
	span.SetAttributes(
		attribute.String(AttrPipelineName, sc.PipelineName),
		attribute.String(AttrStageName, sc.StageName),
	)

	if sc.Metrics != nil {
		sc.Metrics.StageStarted(ctx, sc.StageName)
	}
	return ctx, span
}

// EndStage ends the span and records the unit's duration and outcome.
func (sc *StageContext) EndStage(ctx context.Context, span trace.Span, status string, err error) {
	duration := time.Since(sc.StartTime)

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	}

	span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	span.End()

	if sc.Metrics != nil {
		sc.Metrics.StageEnded(ctx, sc.StageName)
		sc.Metrics.RecordStage(ctx, sc.StageName, status, duration)
		if err != nil {
			sc.Metrics.RecordError(ctx, sc.StageName, ErrorType(err))
		}
	}
}

// Duration returns the elapsed time since the unit of work started.
func (sc *StageContext) Duration() time.Duration {
	return time.Since(sc.StartTime)
}
