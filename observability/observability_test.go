package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if !cfg.Insecure {
		t.Error("expected Insecure to be true")
	}
	if cfg.Enabled {
		t.Error("expected tracing export to be off by default")
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
}

func TestNewPipelineMetricsNoop(t *testing.T) {
	m, err := NewPipelineMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}

	// These should not panic
	ctx := context.Background()
	m.RecordRun(ctx, "collect", "ok", 3, 10*time.Millisecond)
	m.RecordError(ctx, "NO_ELEMENT_FOUND", "min")
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestPipelineMetricsRecordRun(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	m, err := NewPipelineMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewPipelineMetrics: %v", err)
	}

	ctx := context.Background()
	m.RecordRun(ctx, "collect", "ok", 3, 5*time.Millisecond)
	m.RecordRun(ctx, "collect", "ok", 4, 5*time.Millisecond)
	m.RecordRun(ctx, "min", "error", 0, time.Millisecond)
	m.RecordError(ctx, "NO_ELEMENT_FOUND", "min")

	got := collectMetrics(t, reader)

	runs, ok := got[MetricRuns].Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("expected int64 sum for %s, got %T", MetricRuns, got[MetricRuns].Data)
	}
	var total int64
	for _, dp := range runs.DataPoints {
		total += dp.Value
	}
	if total != 3 {
		t.Errorf("runs = %d, want 3", total)
	}

	elements := got[MetricElements].Data.(metricdata.Sum[int64])
	collectOp := attribute.NewSet(attribute.String("operation", "collect"))
	for _, dp := range elements.DataPoints {
		if dp.Attributes.Equals(&collectOp) && dp.Value != 7 {
			t.Errorf("collect elements = %d, want 7", dp.Value)
		}
	}

	if _, ok := got[MetricRunDuration].Data.(metricdata.Histogram[float64]); !ok {
		t.Errorf("expected float64 histogram for %s", MetricRunDuration)
	}

	errs := got[MetricErrors].Data.(metricdata.Sum[int64])
	if len(errs.DataPoints) != 1 || errs.DataPoints[0].Value != 1 {
		t.Fatalf("unexpected error data points %+v", errs.DataPoints)
	}
	code, _ := errs.DataPoints[0].Attributes.Value("code")
	if code.AsString() != "NO_ELEMENT_FOUND" {
		t.Errorf("code = %q", code.AsString())
	}
}

func TestTracer(t *testing.T) {
	if Tracer("test") == nil {
		t.Fatal("expected non-nil tracer")
	}
}

func TestMeter(t *testing.T) {
	if Meter("test") == nil {
		t.Fatal("expected non-nil meter")
	}
}

func TestStartSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	ctx, span := StartSpan(context.Background(), "pipeline.collect")
	if ctx == nil {
		t.Fatal("expected non-nil context")
	}
	span.End()

	ended := sr.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	if ended[0].Name() != "pipeline.collect" {
		t.Errorf("span name = %q", ended[0].Name())
	}
	if ended[0].InstrumentationScope().Name != defaultTracerName {
		t.Errorf("scope = %q", ended[0].InstrumentationScope().Name)
	}
}

func TestSetSpanError(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	SetSpanError(ctx, errors.New("boom"))
	span.End()

	events := sr.Ended()[0].Events()
	if len(events) != 1 || events[0].Name != "exception" {
		t.Errorf("expected one exception event, got %+v", events)
	}
}

func TestSetSpanErrorNoSpan(t *testing.T) {
	// Should not panic
	SetSpanError(context.Background(), errors.New("boom"))
}

func TestAttributeKeyConstants(t *testing.T) {
	tests := map[string]string{
		AttrRunID:         "pipeline.run_id",
		AttrOperationName: "pipeline.operation",
		AttrElements:      "pipeline.elements",
		AttrServiceName:   "service.name",
	}
	for got, want := range tests {
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource("svc", "1.2.3", "test")
	if err != nil {
		t.Fatalf("newResource: %v", err)
	}
	v, ok := res.Set().Value(AttrServiceVersion)
	if !ok || v.AsString() != "1.2.3" {
		t.Errorf("service.version = %v", v)
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, sdktrace.AlwaysSample().Description()},
		{0, sdktrace.NeverSample().Description()},
		{0.5, sdktrace.TraceIDRatioBased(0.5).Description()},
	}
	for _, tt := range tests {
		if got := sampler(tt.rate).Description(); got != tt.want {
			t.Errorf("sampler(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}

func TestInitTracer(t *testing.T) {
	cfg := DefaultTracerConfig("test-service")
	tp, err := InitTracer(context.Background(), &cfg)
	if err != nil {
		t.Fatalf("InitTracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}()
}

func TestInitMeter(t *testing.T) {
	cfg := DefaultMeterConfig("test-service")
	mp, err := InitMeter(context.Background(), &cfg)
	if err != nil {
		t.Fatalf("InitMeter: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		_ = mp.Shutdown(ctx)
	}()
}
