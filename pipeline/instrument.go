package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/gostream/errors"
	"github.com/kbukum/gostream/logger"
	"github.com/kbukum/gostream/observability"
)

const component = "pipeline"

var (
	metricsMu sync.RWMutex
	metrics   *observability.PipelineMetrics
)

// SetMetrics installs the instruments terminal runs report to. Pass nil to
// stop recording.
func SetMetrics(m *observability.PipelineMetrics) {
	metricsMu.Lock()
	defer metricsMu.Unlock()
	metrics = m
}

func currentMetrics() *observability.PipelineMetrics {
	metricsMu.RLock()
	defer metricsMu.RUnlock()
	return metrics
}

// run tracks one terminal traversal for logging, tracing and metrics.
type run struct {
	ctx       context.Context
	span      trace.Span
	id        string
	operation string
	started   time.Time
	elements  int
}

func begin(ctx context.Context, operation string) *run {
	ctx, span := observability.StartSpan(ctx, "pipeline."+operation)
	return &run{
		ctx:       ctx,
		span:      span,
		id:        uuid.NewString(),
		operation: operation,
		started:   time.Now(),
	}
}

func (r *run) end(err error) {
	duration := time.Since(r.started)
	status := "ok"
	if err != nil {
		status = "error"
	}

	var code string
	if err != nil {
		code = string(errors.Wrap(err).Code)
	}

	r.span.SetAttributes(
		attribute.String(observability.AttrRunID, r.id),
		attribute.String(observability.AttrOperationName, r.operation),
		attribute.Int(observability.AttrElements, r.elements),
		attribute.String(observability.AttrStatus, status),
	)
	if err != nil {
		r.span.SetAttributes(attribute.String(observability.AttrErrorCode, code))
		r.span.RecordError(err)
		r.span.SetStatus(codes.Error, err.Error())
	}

	if m := currentMetrics(); m != nil {
		m.RecordRun(r.ctx, r.operation, status, r.elements, duration)
		if err != nil {
			m.RecordError(r.ctx, code, r.operation)
		}
	}

	fields := logger.MergeWithDuration(logger.Fields(
		logger.FieldRunID, r.id,
		logger.FieldOperation, r.operation,
		logger.FieldElements, r.elements,
		logger.FieldStatus, status,
	), duration)
	log := logger.Get(component).WithContext(r.ctx)
	r.span.End()
	if err != nil {
		fields[logger.FieldCode] = code
		log.WithError(err).Warn("pipeline run failed", fields)
		return
	}
	log.Debug("pipeline run finished", fields)
}

// drive starts p and hands each element to yield until yield stops, the
// pipeline ends or ctx is done. p is closed afterwards. A yield error fails p.
func drive[T any](r *run, p *Pipeline[T], yield func(T) (bool, error)) error {
	defer p.Close()
	if err := p.Rewind(); err != nil {
		return err
	}
	for {
		// Checked before Valid so no element is computed for a done context.
		if err := r.ctx.Err(); err != nil {
			return p.fail(errors.Cancelled(err))
		}
		if !p.Valid() {
			return p.Err()
		}
		r.elements++
		more, err := yield(p.Current())
		if err != nil {
			return p.fail(err)
		}
		if !more {
			return nil
		}
		p.Next()
	}
}
