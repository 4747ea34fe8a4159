package main

import (
	"context"
	"errors"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/jsamuelsen11/todo-backend/internal/platform/config"
	"github.com/jsamuelsen11/todo-backend/internal/platform/telemetry"
)

// otelSetup holds whatever telemetry.enabled started. With telemetry off
// everything is nil and nothing is recorded.
type otelSetup struct {
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	metrics *telemetry.Metrics
}

// Shutdown flushes and stops the started providers.
func (o *otelSetup) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracer != nil {
		errs = append(errs, o.tracer.Shutdown(ctx))
	}
	if o.meter != nil {
		errs = append(errs, o.meter.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

func initTelemetry(ctx context.Context, cfg *config.Config) (_ *otelSetup, err error) {
	o := &otelSetup{}
	t := cfg.Telemetry
	if !t.Enabled {
		return o, nil
	}
	defer func() {
		if err != nil {
			_ = o.Shutdown(ctx)
		}
	}()

	if o.tracer, err = telemetry.InitTracer(ctx, t.ServiceName, t.Exporter, t.Endpoint); err != nil {
		return nil, err
	}
	if o.meter, err = telemetry.InitMeter(ctx, t.ServiceName, t.Exporter, t.Endpoint); err != nil {
		return nil, err
	}
	if o.metrics, err = telemetry.NewMetrics(o.meter, t.ServiceName); err != nil {
		return nil, err
	}
	return o, nil
}
