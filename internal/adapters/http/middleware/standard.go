package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/jsamuelsen11/todo-backend/internal/platform/telemetry"
)

// Standard returns the service's middleware, outermost first:
//
//	Recovery → RequestID → CorrelationID → OpenTelemetry → Logging → Timeout
//
// Recovery sits outside everything so a panic in any later layer still gets
// a problem response. metrics may be nil.
func Standard(logger *slog.Logger, metrics *telemetry.Metrics, timeout time.Duration) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		Recovery(logger),
		RequestID(),
		CorrelationID(),
		OpenTelemetry(metrics),
		Logging(logger),
		Timeout(timeout),
	}
}
