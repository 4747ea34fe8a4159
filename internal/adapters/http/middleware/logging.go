package middleware

import (
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/jsamuelsen11/todo-backend/internal/platform/logging"
)

// Logging binds a request-scoped logger carrying request_id and
// correlation_id into the context (see logging.FromContext) and writes one
// "request completed" entry per request. Its level follows the status: ERROR
// for 5xx, WARN for 4xx, INFO otherwise. At DEBUG a "request started" entry
// with redacted headers is written first.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			log := logger.With(
				slog.String("request_id", RequestIDFromContext(r.Context())),
				slog.String("correlation_id", CorrelationIDFromContext(r.Context())),
			)
			ctx := logging.WithLogger(r.Context(), log)

			if log.Enabled(ctx, slog.LevelDebug) {
				log.LogAttrs(ctx, slog.LevelDebug, "request started",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("headers", headerGroup(r.Header)),
				)
			}

			sr := recordStatus(w)
			next.ServeHTTP(sr, r.WithContext(ctx))

			status := sr.Status()
			log.LogAttrs(ctx, completionLevel(status), "request completed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("route", routePattern(r)),
				slog.Int("status", status),
				slog.Int64("bytes", sr.bytes),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

func completionLevel(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// headerGroup renders h as a group sorted by name, with multiple values
// joined by commas. Values of logging.SensitiveHeaders are masked.
func headerGroup(h http.Header) slog.Value {
	attrs := make([]slog.Attr, 0, len(h))
	for _, name := range slices.Sorted(maps.Keys(h)) {
		v := strings.Join(h[name], ",")
		if logging.SensitiveHeaders[strings.ToLower(name)] {
			v = "[REDACTED]"
		}
		attrs = append(attrs, slog.String(name, v))
	}
	return slog.GroupValue(attrs...)
}
