package setup

import (
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/gostream/logger"
)

// Option configures Init.
type Option func(*options)

type options struct {
	logger          *logger.Logger
	shutdownTimeout time.Duration
	spanProcessor   sdktrace.SpanProcessor
	metricReader    sdkmetric.Reader
}

func resolveOptions(opts []Option) *options {
	o := &options{shutdownTimeout: 15 * time.Second}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger instead of initializing one from the settings.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithShutdownTimeout bounds how long RunTask waits for Shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *options) { o.shutdownTimeout = d }
}

// WithSpanProcessor installs a tracer provider feeding p instead of the OTLP
// exporter. Tracing is enabled regardless of the settings.
func WithSpanProcessor(p sdktrace.SpanProcessor) Option {
	return func(o *options) { o.spanProcessor = p }
}

// WithMetricReader installs a meter provider read by r instead of the OTLP
// exporter. Metrics are enabled regardless of the settings.
func WithMetricReader(r sdkmetric.Reader) Option {
	return func(o *options) { o.metricReader = r }
}
