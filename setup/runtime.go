package setup

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/gostream/config"
	"github.com/kbukum/gostream/logger"
	"github.com/kbukum/gostream/observability"
	"github.com/kbukum/gostream/pipeline"
	"github.com/kbukum/gostream/version"
)

const meterName = "github.com/kbukum/gostream"

// Runtime owns the process-wide telemetry state created by Init.
type Runtime struct {
	Name     string
	Version  string
	Settings *config.Settings
	Logger   *logger.Logger
	// Metrics is nil unless metrics are enabled.
	Metrics *observability.PipelineMetrics

	tracerProvider  *sdktrace.TracerProvider
	meterProvider   *sdkmetric.MeterProvider
	shutdownTimeout time.Duration

	mu      sync.Mutex
	onStop  []Hook
	stopped bool
}

// Init applies defaults to cfg, validates it and brings up logging, tracing
// and metrics as configured. Call Shutdown when done.
func Init(ctx context.Context, cfg Config, opts ...Option) (*Runtime, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	s := cfg.GetSettings()
	o := resolveOptions(opts)

	rt := &Runtime{
		Name:            s.Name,
		Version:         s.Version,
		Settings:        s,
		shutdownTimeout: o.shutdownTimeout,
	}

	if o.logger != nil {
		rt.Logger = o.logger
		logger.SetGlobalLogger(o.logger)
	} else {
		logger.Init(s.Logging)
		rt.Logger = logger.GetGlobalLogger()
	}

	if err := rt.initTracing(ctx, s, o); err != nil {
		return nil, err
	}
	if err := rt.initMetrics(ctx, s, o); err != nil {
		rt.shutdownProviders(ctx)
		return nil, err
	}

	rt.Logger.Info("runtime initialized", logger.Fields(
		"name", rt.Name,
		"version", rt.Version,
		"environment", s.Environment,
		"tracing", rt.tracerProvider != nil,
		"metrics", rt.Metrics != nil,
	), version.Get().Fields())
	return rt, nil
}

func (r *Runtime) initTracing(ctx context.Context, s *config.Settings, o *options) error {
	switch {
	case o.spanProcessor != nil:
		r.tracerProvider = sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(o.spanProcessor))
		otel.SetTracerProvider(r.tracerProvider)
	case s.Tracing.Enabled:
		tp, err := observability.InitTracer(ctx, &s.Tracing)
		if err != nil {
			return fmt.Errorf("tracing: %w", err)
		}
		r.tracerProvider = tp
	}
	return nil
}

func (r *Runtime) initMetrics(ctx context.Context, s *config.Settings, o *options) error {
	switch {
	case o.metricReader != nil:
		r.meterProvider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(o.metricReader))
		otel.SetMeterProvider(r.meterProvider)
	case s.Metrics.Enabled:
		mp, err := observability.InitMeter(ctx, &s.Metrics)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		r.meterProvider = mp
	default:
		return nil
	}

	m, err := observability.NewPipelineMetrics(r.meterProvider.Meter(meterName))
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	r.Metrics = m
	pipeline.SetMetrics(m)
	return nil
}

// RunTask runs task and shuts the runtime down afterwards. SIGINT or SIGTERM
// cancels the task's context, which pipelines report as CANCELLED.
func (r *Runtime) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			r.Logger.Info("received signal, canceling task", logger.Fields("signal", sig.String()))
			cancel()
		case <-taskCtx.Done():
		}
	}()

	taskErr := task(taskCtx)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), r.shutdownTimeout)
	defer stopCancel()
	if stopErr := r.Shutdown(stopCtx); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

// Shutdown runs the OnStop hooks, detaches the pipeline metrics and flushes
// the telemetry providers. Calls after the first are no-ops.
func (r *Runtime) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return nil
	}
	r.stopped = true
	hooks := r.onStop
	r.mu.Unlock()

	var errs []error
	if err := runHooks(ctx, hooks); err != nil {
		r.Logger.Error("OnStop hook error", logger.Fields(logger.FieldError, err.Error()))
		errs = append(errs, err)
	}

	if r.Metrics != nil {
		pipeline.SetMetrics(nil)
	}
	errs = append(errs, r.shutdownProviders(ctx)...)

	r.Logger.Info("runtime shutdown complete")
	return stderrors.Join(errs...)
}

func (r *Runtime) shutdownProviders(ctx context.Context) []error {
	var errs []error
	if r.meterProvider != nil {
		if err := r.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider: %w", err))
		}
	}
	if r.tracerProvider != nil {
		if err := r.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider: %w", err))
		}
	}
	return errs
}
