// Package store holds the persistence adapters for todos. The subpackages
// each implement ports.TodoStore against one backend; this package wraps
// any of them with tracing and metrics.
package store

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/todo-backend/internal/domain"
	"github.com/jsamuelsen11/todo-backend/internal/domain/todo"
	"github.com/jsamuelsen11/todo-backend/internal/platform/telemetry"
	"github.com/jsamuelsen11/todo-backend/internal/ports"
)

// Operation names recorded on spans and metrics.
const (
	opFindAll    = "find_all"
	opFindByID   = "find_by_id"
	opSave       = "save"
	opDeleteByID = "delete_by_id"
)

var _ ports.TodoStore = (*Instrumented)(nil)

// Instrumented decorates a ports.TodoStore with a span and duration/count
// metrics per call. Errors pass through unchanged.
type Instrumented struct {
	next    ports.TodoStore
	driver  string
	metrics *telemetry.Metrics
}

// Instrument wraps next. driver labels the spans and metrics (for example
// "postgres"). If metrics is nil, only spans are recorded.
func Instrument(next ports.TodoStore, driver string, metrics *telemetry.Metrics) *Instrumented {
	return &Instrumented{next: next, driver: driver, metrics: metrics}
}

// FindAll delegates to the wrapped store.
func (s *Instrumented) FindAll(ctx context.Context) ([]todo.Todo, error) {
	ctx, done := s.observe(ctx, opFindAll, "")
	todos, err := s.next.FindAll(ctx)
	done(err)
	return todos, err
}

// FindByID delegates to the wrapped store.
func (s *Instrumented) FindByID(ctx context.Context, id string) (*todo.Todo, error) {
	ctx, done := s.observe(ctx, opFindByID, id)
	t, err := s.next.FindByID(ctx, id)
	done(err)
	return t, err
}

// Save delegates to the wrapped store.
func (s *Instrumented) Save(ctx context.Context, t *todo.Todo) (*todo.Todo, error) {
	ctx, done := s.observe(ctx, opSave, t.ID)
	saved, err := s.next.Save(ctx, t)
	done(err)
	return saved, err
}

// DeleteByID delegates to the wrapped store.
func (s *Instrumented) DeleteByID(ctx context.Context, id string) error {
	ctx, done := s.observe(ctx, opDeleteByID, id)
	err := s.next.DeleteByID(ctx, id)
	done(err)
	return err
}

// observe starts a span for op and returns a func that ends it and records
// metrics for the call's outcome.
func (s *Instrumented) observe(ctx context.Context, op, id string) (context.Context, func(error)) {
	start := time.Now()

	attrs := []attribute.KeyValue{
		telemetry.AttrStoreDriver.String(s.driver),
		telemetry.AttrStoreOperation.String(op),
	}
	spanAttrs := attrs
	if id != "" {
		spanAttrs = append(spanAttrs[:len(spanAttrs):len(spanAttrs)], attribute.String("todo.id", id))
	}

	tracer := otel.GetTracerProvider().Tracer("store")
	ctx, span := tracer.Start(ctx, "todo.store "+op,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(spanAttrs...),
	)

	return ctx, func(err error) {
		defer span.End()

		result := outcome(err)
		if result == "error" {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		if s.metrics == nil {
			return
		}
		opt := metric.WithAttributes(append(attrs, telemetry.AttrResult.String(result))...)
		s.metrics.StoreOperationDuration.Record(ctx, time.Since(start).Seconds(), opt)
		s.metrics.StoreOperationTotal.Add(ctx, 1, opt)
	}
}

// outcome classifies a store result for the result label. A missing record
// is an expected answer, not a failure.
func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
