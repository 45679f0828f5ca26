// Package observability wires streaming pipelines into OpenTelemetry.
//
// InitTracer and InitMeter install the global providers; stage
// throughput, batch sizes, and per-stage latency are recorded through
// StreamMetrics:
//
//	mp, _ := observability.InitMeter(ctx, observability.DefaultMeterConfig("ingest"))
//	defer mp.Shutdown(ctx)
//
//	metrics, _ := observability.NewStreamMetrics(observability.Meter("ingest"))
//	instrumented := observability.InstrumentTransform(metrics, "enrich", enrich)
//	out, err := pipeline.Transform(ctx, src, 4, instrumented)
//
// Connector-side units of work (a sink flush, a poll cycle) are tracked
// with StageContext, which ties a span and the stage metrics together:
//
//	sc := observability.NewStageContext("ingest", "kafka-sink", metrics)
//	ctx, span := sc.StartSpanForStage(ctx, observability.SpanSinkWrite)
//	sc.EndStage(ctx, span, observability.StatusOK, nil)
package observability
