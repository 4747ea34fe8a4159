package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the service's instruments. Each measured activity gets a
// duration histogram in seconds and a counter.
type Metrics struct {
	ServerRequestDuration  metric.Float64Histogram
	ServerRequestTotal     metric.Int64Counter
	ClientRequestDuration  metric.Float64Histogram
	ClientRequestTotal     metric.Int64Counter
	StoreOperationDuration metric.Float64Histogram
	StoreOperationTotal    metric.Int64Counter
}

// NewMetrics creates every instrument on a meter scoped to serviceName:
// http.server.request.*, http.client.request.* and todo.store.operation.*.
func NewMetrics(mp metric.MeterProvider, serviceName string) (*Metrics, error) {
	meter := mp.Meter(serviceName)
	m := &Metrics{}

	activities := []struct {
		base, what, unit string
		duration         *metric.Float64Histogram
		total            *metric.Int64Counter
	}{
		{"http.server.request", "incoming HTTP requests", "{request}", &m.ServerRequestDuration, &m.ServerRequestTotal},
		{"http.client.request", "outgoing HTTP requests", "{request}", &m.ClientRequestDuration, &m.ClientRequestTotal},
		{"todo.store.operation", "todo store operations", "{operation}", &m.StoreOperationDuration, &m.StoreOperationTotal},
	}

	for _, a := range activities {
		var err error
		*a.duration, err = meter.Float64Histogram(a.base+".duration",
			metric.WithDescription("Duration of "+a.what),
			metric.WithUnit("s"),
		)
		if err != nil {
			return nil, fmt.Errorf("instrument %s.duration: %w", a.base, err)
		}
		*a.total, err = meter.Int64Counter(a.base+".total",
			metric.WithDescription("Count of "+a.what),
			metric.WithUnit(a.unit),
		)
		if err != nil {
			return nil, fmt.Errorf("instrument %s.total: %w", a.base, err)
		}
	}
	return m, nil
}
