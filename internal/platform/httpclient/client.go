// Package httpclient is the outbound HTTP client the remote store driver uses
// to reach another todo API. A call goes through
//
//	circuit breaker, rate limiter, client span, retry loop, transport
//
// and is counted in the http.client.request metrics whatever the outcome.
//
//	client := httpclient.New(&cfg.Client, "todo-store-api", metrics, logger)
//	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, client.BaseURL()+"/todo", http.NoBody)
//	resp, err := client.Do(ctx, req)
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/jsamuelsen11/todo-backend/internal/platform/config"
	"github.com/jsamuelsen11/todo-backend/internal/platform/telemetry"
)

const tracerName = "github.com/jsamuelsen11/todo-backend/internal/platform/httpclient"

type retryConfig struct {
	maxAttempts     int
	initialInterval time.Duration
	maxInterval     time.Duration
	multiplier      float64
}

// Client talks to one downstream service. It is safe for concurrent use.
type Client struct {
	transport   *http.Client
	baseURL     string
	serviceName string
	breaker     *gobreaker.CircuitBreaker[struct{}]
	limiter     *rate.Limiter
	retryCfg    retryConfig
	metrics     *telemetry.Metrics
}

// New returns a Client for the downstream named serviceName. metrics may be
// nil. The limiter exists only when cfg.RateLimit.RequestsPerSecond > 0.
func New(cfg *config.ClientConfig, serviceName string, metrics *telemetry.Metrics, logger *slog.Logger) *Client {
	c := &Client{
		transport:   &http.Client{Timeout: cfg.Timeout},
		baseURL:     cfg.BaseURL,
		serviceName: serviceName,
		breaker:     newBreaker(serviceName, cfg.CircuitBreaker, logger),
		retryCfg: retryConfig{
			maxAttempts:     cfg.Retry.MaxAttempts,
			initialInterval: cfg.Retry.InitialInterval,
			maxInterval:     cfg.Retry.MaxInterval,
			multiplier:      cfg.Retry.Multiplier,
		},
		metrics: metrics,
	}
	if cfg.RateLimit.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.BurstSize)
	}
	return c
}

// BaseURL is the configured downstream root.
func (c *Client) BaseURL() string { return c.baseURL }

// Name is the downstream service name.
func (c *Client) Name() string { return c.serviceName }

// Do sends req. A 429 or 5xx answer comes back as an error together with
// its response; whenever resp is non-nil the caller must close its body.
// resp is nil when the breaker or limiter refused the call or the
// transport failed.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()

	var resp *http.Response
	_, err := c.breaker.Execute(func() (struct{}, error) {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return struct{}{}, fmt.Errorf("rate limiter: %w", err)
			}
		}
		forwardIDs(ctx, req.Header)

		var err error
		resp, err = c.traced(ctx, req)
		return struct{}{}, err
	})

	c.record(ctx, req.Method, time.Since(start), resp, err)
	return resp, err
}

// traced runs the retry loop inside a client span and injects the span's
// context into the outbound headers.
func (c *Client) traced(ctx context.Context, req *http.Request) (*http.Response, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, req.Method+" "+c.serviceName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			telemetry.AttrHTTPMethod.String(req.Method),
			telemetry.AttrPeerService.String(c.serviceName),
			telemetry.AttrHTTPRoute.String(req.URL.Path),
		),
	)
	defer span.End()

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	var resp *http.Response
	err := c.doWithRetry(ctx, req.WithContext(ctx), &resp)
	if resp != nil {
		span.SetAttributes(telemetry.AttrHTTPStatus.Int(resp.StatusCode))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return resp, err
}

// record runs outside the breaker so refused calls are counted as well.
func (c *Client) record(ctx context.Context, method string, elapsed time.Duration, resp *http.Response, err error) {
	if c.metrics == nil {
		return
	}

	var status int
	if resp != nil {
		status = resp.StatusCode
	}

	result := "error"
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		result = "circuit_open"
	case status != 0 && status < http.StatusBadRequest:
		result = "success"
	}

	attrs := metric.WithAttributes(
		telemetry.AttrHTTPMethod.String(method),
		telemetry.AttrHTTPStatus.Int(status),
		telemetry.AttrPeerService.String(c.serviceName),
		telemetry.AttrResult.String(result),
	)
	c.metrics.ClientRequestDuration.Record(ctx, elapsed.Seconds(), attrs)
	c.metrics.ClientRequestTotal.Add(ctx, 1, attrs)
}
