package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jsamuelsen11/todo-backend/internal/platform/logging"
)

// jitterFraction bounds the random spread applied to each backoff delay.
const jitterFraction = 0.25

// replayableMethods may be sent again after the downstream has seen them.
// POST is missing on purpose: a second create would store a second todo.
var replayableMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodOptions: true,
	http.MethodPut:     true,
	http.MethodDelete:  true,
}

// doWithRetry sends req up to maxAttempts times.
//
// Any 429 or 5xx answer is reported as an error so the circuit breaker counts
// it. Only 429, 502, 503 and 504 are attempted again, and only for replayable
// methods. A request that never reached the downstream (dial failure) is
// retried regardless of method. The final response, if any, is written to
// resp with its body unread.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request, resp **http.Response) error {
	if c.retryCfg.maxAttempts <= 0 {
		return fmt.Errorf("httpclient: maxAttempts must be >= 1, got %d", c.retryCfg.maxAttempts)
	}

	body, err := bufferRequestBody(req)
	if err != nil {
		return err
	}

	replayable := replayableMethods[req.Method]
	last := c.retryCfg.maxAttempts - 1

	var (
		lastErr error
		hint    time.Duration
	)
	for attempt := 0; attempt <= last; attempt++ {
		if attempt > 0 {
			if err := c.waitForRetry(ctx, req, attempt, hint, lastErr); err != nil {
				return err
			}
		}

		resetRequestBody(req, body)

		r, err := c.transport.Do(req)
		if err != nil {
			lastErr = err
			if attempt == last || !retryableError(err, replayable) {
				return err
			}
			hint = 0
			continue
		}

		if !isFailureStatus(r.StatusCode) {
			*resp = r
			return nil
		}

		lastErr = fmt.Errorf("HTTP %d from %s", r.StatusCode, c.serviceName)
		if attempt == last || !replayable || !isRetryableStatus(r.StatusCode) {
			*resp = r
			return lastErr
		}

		hint = retryAfter(r.Header, c.retryCfg.maxInterval)
		drainResponseBody(r)
	}

	return lastErr
}

func bufferRequestBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}

	defer func() { _ = req.Body.Close() }()
	b, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("reading request body: %w", err)
	}
	return b, nil
}

func resetRequestBody(req *http.Request, body []byte) {
	if body == nil {
		return
	}
	req.Body = io.NopCloser(bytes.NewReader(body))
	req.ContentLength = int64(len(body))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
}

// drainResponseBody lets the transport reuse the connection.
func drainResponseBody(r *http.Response) {
	_, _ = io.Copy(io.Discard, r.Body)
	_ = r.Body.Close()
}

// waitForRetry sleeps for the larger of the computed backoff and the
// downstream's Retry-After hint, or until ctx is done.
func (c *Client) waitForRetry(ctx context.Context, req *http.Request, attempt int, hint time.Duration, lastErr error) error {
	delay := max(backoff(attempt, c.retryCfg), hint)

	logging.FromContext(ctx).WarnContext(ctx, "retrying todo store request",
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.String("peer_service", c.serviceName),
		slog.Int("attempt", attempt+1),
		slog.Int("max_attempts", c.retryCfg.maxAttempts),
		slog.Duration("backoff", delay),
		slog.Any("error", lastErr),
	)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// backoff returns the delay before retry number attempt (1 is the first
// retry): initialInterval * multiplier^(attempt-1), capped at maxInterval,
// then spread by up to jitterFraction either way.
func backoff(attempt int, cfg retryConfig) time.Duration {
	base := float64(cfg.initialInterval) * math.Pow(cfg.multiplier, float64(attempt-1))
	base = math.Min(base, float64(cfg.maxInterval))

	spread := base * jitterFraction * (2*rand.Float64() - 1)
	return time.Duration(math.Max(base+spread, 0))
}

// retryAfter reads a Retry-After header given either as delta-seconds or as
// an HTTP date. Missing or unparsable values yield zero. The result never
// exceeds limit.
func retryAfter(h http.Header, limit time.Duration) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}

	var d time.Duration
	if secs, err := strconv.Atoi(v); err == nil {
		d = time.Duration(secs) * time.Second
	} else if at, err := http.ParseTime(v); err == nil {
		d = time.Until(at)
	}

	return min(max(d, 0), limit)
}

// retryableError reports whether a transport error may be retried. Context
// errors never are. Non-replayable requests are only retried when the
// connection could not be established.
func retryableError(err error, replayable bool) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if replayable {
		return true
	}

	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// isFailureStatus reports whether the downstream answered with a failure the
// circuit breaker should count.
func isFailureStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// isRetryableStatus reports whether a failure status is transient.
func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
