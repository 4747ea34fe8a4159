package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/jsamuelsen11/todo-backend/internal/adapters/http/dto"
)

// errPanic never reaches the client; dto hides 500 details.
var errPanic = errors.New("handler panicked")

// Recovery turns a handler panic into a problem+json 500 and an ERROR log
// entry carrying the panic value and stack. When the handler already sent a
// status line, only the log entry is written. http.ErrAbortHandler is
// re-raised so net/http can abort the connection as intended.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sr := recordStatus(w)
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				logger.ErrorContext(r.Context(), "panic recovered",
					slog.String("panic", fmt.Sprint(v)),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("request_id", RequestIDFromContext(r.Context())),
					slog.String("stack", string(debug.Stack())),
				)
				if !sr.Committed() {
					dto.WriteError(sr, r, errPanic)
				}
			}()

			next.ServeHTTP(sr, r)
		})
	}
}
