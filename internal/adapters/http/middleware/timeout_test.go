package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jsamuelsen11/todo-backend/internal/adapters/http/middleware"
)

func TestTimeout_PassesResponseThrough(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
		wantBody   string
		wantHeader string
	}{
		{
			name: "explicit status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(`{"id":"1"}`))
			},
			wantStatus: http.StatusCreated,
			wantBody:   `{"id":"1"}`,
			wantHeader: "application/json",
		},
		{
			name: "implicit 200",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("[]"))
			},
			wantStatus: http.StatusOK,
			wantBody:   "[]",
		},
		{
			name: "only the first status counts",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			middleware.Timeout(time.Second)(tt.handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/todo", http.NoBody))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
			if got := rec.Header().Get("Content-Type"); got != tt.wantHeader {
				t.Errorf("Content-Type = %q, want %q", got, tt.wantHeader)
			}
		})
	}
}

func TestTimeout_DeadlineExceeded(t *testing.T) {
	t.Parallel()

	lateWrite := make(chan error, 1)
	handler := middleware.Timeout(20 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Context().Deadline(); !ok {
			t.Error("handler context has no deadline")
		}
		w.WriteHeader(http.StatusOK)
		<-r.Context().Done()
		time.Sleep(10 * time.Millisecond)
		_, err := w.Write([]byte("too late"))
		lateWrite <- err
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/todo", http.NoBody))

	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want 504", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q, want application/problem+json", ct)
	}
	if body := rec.Body.String(); !strings.Contains(body, `"status":504`) || strings.Contains(body, "too late") {
		t.Errorf("body = %s, want only the 504 problem", body)
	}

	select {
	case err := <-lateWrite:
		if !errors.Is(err, http.ErrHandlerTimeout) {
			t.Errorf("late Write() error = %v, want http.ErrHandlerTimeout", err)
		}
	case <-time.After(time.Second):
		t.Error("handler never attempted its late write")
	}
}

func TestTimeout_RepanicsOnServingGoroutine(t *testing.T) {
	t.Parallel()

	handler := middleware.Timeout(time.Second)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("handler exploded")
	}))

	defer func() {
		if v := recover(); v != "handler exploded" {
			t.Errorf("recovered %v, want %q", v, "handler exploded")
		}
	}()

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/todo", http.NoBody))
	t.Error("ServeHTTP returned without panicking")
}
