// Package telemetry installs the OpenTelemetry tracer and meter providers
// and owns the instruments the todo service records into.
//
//	tp, err := telemetry.InitTracer(ctx, "todo-backend", telemetry.ExporterOTLP, "http://collector:4318")
//	mp, err := telemetry.InitMeter(ctx, "todo-backend", telemetry.ExporterOTLP, "http://collector:4318")
//	metrics, err := telemetry.NewMetrics(mp, "todo-backend")
//
// Both providers must be shut down on exit so buffered data is flushed.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
)

// Exporter names accepted by InitTracer and InitMeter.
const (
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// Attribute keys shared by spans and metrics.
var (
	AttrHTTPMethod     = attribute.Key("http.method")
	AttrHTTPRoute      = attribute.Key("http.route")
	AttrHTTPStatus     = attribute.Key("http.status_code")
	AttrPeerService    = attribute.Key("peer.service")
	AttrResult         = attribute.Key("result")
	AttrStoreDriver    = attribute.Key("todo.store.driver")
	AttrStoreOperation = attribute.Key("todo.store.operation")
)

var errEmptyEndpoint = errors.New("the otlp exporter needs an endpoint")

// InitTracer installs a global batching TracerProvider exporting to stdout
// or OTLP/HTTP, plus the W3C trace-context and baggage propagators.
func InitTracer(ctx context.Context, serviceName, exporter, endpoint string) (*sdktrace.TracerProvider, error) {
	res, err := serviceResource(serviceName)
	if err != nil {
		return nil, err
	}

	var exp sdktrace.SpanExporter
	switch exporter {
	case ExporterStdout:
		exp, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	case ExporterOTLP:
		var c collector
		if c, err = parseCollector(endpoint); err == nil {
			opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(c.host)}
			if c.plaintext {
				opts = append(opts, otlptracehttp.WithInsecure())
			}
			exp, err = otlptracehttp.New(ctx, opts...)
		}
	default:
		err = fmt.Errorf("unknown exporter %q", exporter)
	}
	if err != nil {
		return nil, fmt.Errorf("trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp), sdktrace.WithResource(res))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp, nil
}

// InitMeter installs a global MeterProvider that periodically exports to
// the same destinations as InitTracer.
func InitMeter(ctx context.Context, serviceName, exporter, endpoint string) (*sdkmetric.MeterProvider, error) {
	res, err := serviceResource(serviceName)
	if err != nil {
		return nil, err
	}

	var exp sdkmetric.Exporter
	switch exporter {
	case ExporterStdout:
		exp, err = stdoutmetric.New()
	case ExporterOTLP:
		var c collector
		if c, err = parseCollector(endpoint); err == nil {
			opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(c.host)}
			if c.plaintext {
				opts = append(opts, otlpmetrichttp.WithInsecure())
			}
			exp, err = otlpmetrichttp.New(ctx, opts...)
		}
	default:
		err = fmt.Errorf("unknown exporter %q", exporter)
	}
	if err != nil {
		return nil, fmt.Errorf("metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

func serviceResource(serviceName string) (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry resource: %w", err)
	}
	return res, nil
}

// collector is an OTLP/HTTP destination. Only an https:// endpoint gets TLS.
type collector struct {
	host      string
	plaintext bool
}

// parseCollector accepts "http://otel-collector:4318" as well as a bare
// "otel-collector:4318".
func parseCollector(endpoint string) (collector, error) {
	if endpoint == "" {
		return collector{}, errEmptyEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return collector{host: endpoint, plaintext: true}, nil
	}
	return collector{host: u.Host, plaintext: u.Scheme != "https"}, nil
}
