// Package observability wires OpenTelemetry tracing and metrics for pipeline runs.
//
// Every terminal run opens a span named "pipeline.<operation>" on the global
// tracer provider, so installing a provider is all it takes to see runs in a
// trace backend:
//
//	tp, err := observability.InitTracer(ctx, &cfg.Tracing)
//	defer tp.Shutdown(ctx)
//
// Metrics are opt-in. Create the instruments and hand them to the pipeline
// package:
//
//	mp, err := observability.InitMeter(ctx, &cfg.Metrics)
//	defer mp.Shutdown(ctx)
//
//	m, err := observability.NewPipelineMetrics(observability.Meter("gostream"))
//	pipeline.SetMetrics(m)
package observability
