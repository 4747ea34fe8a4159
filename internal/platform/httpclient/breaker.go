package httpclient

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/sony/gobreaker/v2"

	"github.com/jsamuelsen11/todo-backend/internal/platform/config"
)

func newBreaker(name string, cfg config.CircuitBreakerConfig, logger *slog.Logger) *gobreaker.CircuitBreaker[struct{}] {
	trip := toUint32(cfg.MaxFailures)
	return gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: toUint32(cfg.HalfOpenLimit),
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(c gobreaker.Counts) bool { return c.ConsecutiveFailures >= trip },
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("peer_service", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})
}

// HealthCheck reports the downstream from the breaker alone: closed is
// healthy, half-open is degraded and open is failing. It sends nothing.
func (c *Client) HealthCheck(context.Context) error {
	st := c.breaker.State()
	switch st {
	case gobreaker.StateClosed:
		return nil
	case gobreaker.StateHalfOpen:
		return fmt.Errorf("%s degraded: circuit breaker half-open", c.serviceName)
	default:
		return fmt.Errorf("%s failing: circuit breaker %s", c.serviceName, st)
	}
}

// CircuitBreakerState is "closed", "half-open" or "open".
func (c *Client) CircuitBreakerState() string {
	return c.breaker.State().String()
}

func toUint32(v int) uint32 {
	return uint32(min(max(v, 0), math.MaxUint32))
}
