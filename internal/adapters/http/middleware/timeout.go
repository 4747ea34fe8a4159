package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/jsamuelsen11/todo-backend/internal/adapters/http/dto"
	"github.com/jsamuelsen11/todo-backend/internal/platform/logging"
)

// Timeout gives every request a deadline of limit. The handler runs on its
// own goroutine against a buffered writer, so when the deadline passes first
// the client gets a clean 504 problem and whatever the handler wrote is
// dropped. Later handler writes fail with http.ErrHandlerTimeout. A handler
// panic is raised again on the serving goroutine for Recovery to handle.
func Timeout(limit time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), limit)
			defer cancel()

			dw := &deferredWriter{header: make(http.Header)}
			// Receives nil when the handler returns, or its panic value.
			finished := make(chan any, 1)

			go func() {
				defer func() { finished <- recover() }()
				next.ServeHTTP(dw, r.WithContext(ctx))
			}()

			select {
			case p := <-finished:
				if p != nil {
					panic(p)
				}
				dw.commit(w)
			case <-ctx.Done():
				dw.expire()
				logging.FromContext(r.Context()).WarnContext(r.Context(), "request timed out",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Duration("timeout", limit),
				)
				dto.WriteProblem(w, r, dto.NewProblem(r, http.StatusGatewayTimeout,
					"the request did not complete within "+limit.String()))
			}
		})
	}
}

// deferredWriter holds a handler's response until Timeout decides whether it
// is sent. header is only read after the handler has returned.
type deferredWriter struct {
	header http.Header

	mu      sync.Mutex
	status  int
	body    bytes.Buffer
	expired bool
}

func (d *deferredWriter) Header() http.Header { return d.header }

func (d *deferredWriter) WriteHeader(code int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.status == 0 {
		d.status = code
	}
}

func (d *deferredWriter) Write(b []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.expired {
		return 0, http.ErrHandlerTimeout
	}
	if d.status == 0 {
		d.status = http.StatusOK
	}
	return d.body.Write(b)
}

func (d *deferredWriter) expire() {
	d.mu.Lock()
	d.expired = true
	d.mu.Unlock()
}

// commit sends the buffered response to w. The handler must have returned.
func (d *deferredWriter) commit(w http.ResponseWriter) {
	maps.Copy(w.Header(), d.header)
	if d.status != 0 {
		w.WriteHeader(d.status)
	}
	_, _ = d.body.WriteTo(w)
}
