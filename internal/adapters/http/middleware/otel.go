package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/todo-backend/internal/platform/telemetry"
)

const instrumentationName = "github.com/jsamuelsen11/todo-backend/internal/adapters/http/middleware"

// OpenTelemetry opens a server span per request, continuing any W3C trace
// context sent by the caller, and records the server request metrics unless
// metrics is nil. Once chi has matched a route the span and the metrics use
// its pattern, e.g. "GET /todo/{id}", so labels do not grow with every id.
func OpenTelemetry(metrics *telemetry.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := otel.Tracer(instrumentationName).Start(ctx, r.Method+" "+r.URL.Path,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					telemetry.AttrHTTPMethod.String(r.Method),
					attribute.String("url.path", r.URL.Path),
				),
			)
			defer span.End()

			rec := recordStatus(w)
			next.ServeHTTP(rec, r.WithContext(ctx))

			route, status := routePattern(r), rec.Status()
			if route != "" {
				span.SetName(r.Method + " " + route)
				span.SetAttributes(telemetry.AttrHTTPRoute.String(route))
			}
			span.SetAttributes(telemetry.AttrHTTPStatus.Int(status))
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			}

			if metrics == nil {
				return
			}
			result := "success"
			if status >= http.StatusBadRequest {
				result = "error"
			}
			attrs := metric.WithAttributes(
				telemetry.AttrHTTPMethod.String(r.Method),
				telemetry.AttrHTTPRoute.String(route),
				telemetry.AttrHTTPStatus.Int(status),
				telemetry.AttrResult.String(result),
			)
			metrics.ServerRequestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
			metrics.ServerRequestTotal.Add(ctx, 1, attrs)
		})
	}
}

// routePattern is the chi pattern r matched, or "" outside a chi router.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}
