package acl

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jsamuelsen11/todo-backend/internal/domain"
	domaintodo "github.com/jsamuelsen11/todo-backend/internal/domain/todo"
	"github.com/jsamuelsen11/todo-backend/internal/platform/config"
	"github.com/jsamuelsen11/todo-backend/internal/platform/httpclient"
)

// newTestClient creates an httpclient.Client pointing at the given test server
// with circuit breaker and retry configured for fast test execution.
func newTestClient(t *testing.T, baseURL string) *httpclient.Client {
	t.Helper()

	cfg := &config.ClientConfig{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     10 * time.Millisecond,
			Multiplier:      1,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       30 * time.Second,
			HalfOpenLimit: 1,
		},
	}

	return httpclient.New(cfg, ServiceName, nil, testLogger())
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestTodoClient(t *testing.T, h http.HandlerFunc) *TodoClient {
	t.Helper()

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	return NewTodoClient(newTestClient(t, ts.URL), testLogger())
}

// writeJSON encodes v as JSON to the response writer, failing the test on error.
func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

func readBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()

	b, err := io.ReadAll(r.Body)
	if err != nil {
		t.Errorf("reading request body: %v", err)
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Errorf("request body %q is not JSON: %v", b, err)
	}
	return m
}

// --- FindAll ---

func TestTodoClient_FindAll(t *testing.T) {
	t.Parallel()

	client := newTestTodoClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/todo" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		writeJSON(t, w, []map[string]any{
			{"id": "1", "name": "Buy milk", "done": false},
			{"id": "2", "name": "Walk dog", "done": true},
		})
	})

	todos, err := client.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	if len(todos) != 2 {
		t.Fatalf("len(todos) = %d, want 2", len(todos))
	}
	want := domaintodo.Todo{ID: "2", Name: "Walk dog", Done: true}
	if todos[1] != want {
		t.Errorf("todos[1] = %+v, want %+v", todos[1], want)
	}
}

func TestTodoClient_FindAll_Empty(t *testing.T) {
	t.Parallel()

	client := newTestTodoClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, []any{})
	})

	todos, err := client.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	if todos == nil || len(todos) != 0 {
		t.Errorf("FindAll() = %v, want empty non-nil slice", todos)
	}
}

// --- FindByID ---

func TestTodoClient_FindByID(t *testing.T) {
	t.Parallel()

	client := newTestTodoClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/todo/abc" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		writeJSON(t, w, map[string]any{"id": "abc", "name": "Buy milk", "done": true})
	})

	got, err := client.FindByID(context.Background(), "abc")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	want := domaintodo.Todo{ID: "abc", Name: "Buy milk", Done: true}
	if *got != want {
		t.Errorf("FindByID() = %+v, want %+v", got, want)
	}
}

func TestTodoClient_FindByID_EscapesPath(t *testing.T) {
	t.Parallel()

	client := newTestTodoClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/todo/a%2Fb" {
			t.Errorf("EscapedPath = %q, want %q", r.URL.EscapedPath(), "/todo/a%2Fb")
		}
		writeJSON(t, w, map[string]any{"id": "a/b", "name": "x"})
	})

	if _, err := client.FindByID(context.Background(), "a/b"); err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
}

func TestTodoClient_FindByID_NotFound(t *testing.T) {
	t.Parallel()

	client := newTestTodoClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.FindByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("FindByID() error = %v, want ErrNotFound", err)
	}
}

func TestTodoClient_FindByID_ServerError(t *testing.T) {
	t.Parallel()

	client := newTestTodoClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.FindByID(context.Background(), "1")
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("FindByID() error = %v, want ErrUnavailable", err)
	}
}

// --- Save ---

func TestTodoClient_Save_PostsWhenIDMissing(t *testing.T) {
	t.Parallel()

	client := newTestTodoClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/todo" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		body := readBody(t, r)
		if _, ok := body["id"]; ok {
			t.Errorf("request body = %v, want no id", body)
		}
		if body["name"] != "Buy milk" {
			t.Errorf("body name = %v, want %q", body["name"], "Buy milk")
		}
		writeJSON(t, w, map[string]any{"id": "assigned", "name": body["name"], "done": body["done"]})
	})

	got, err := client.Save(context.Background(), &domaintodo.Todo{Name: "Buy milk"})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got.ID != "assigned" {
		t.Errorf("Save().ID = %q, want %q", got.ID, "assigned")
	}
}

func TestTodoClient_Save_PutsWhenIDPresent(t *testing.T) {
	t.Parallel()

	client := newTestTodoClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/todo/9" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		body := readBody(t, r)
		if body["id"] != "9" || body["done"] != true {
			t.Errorf("request body = %v, want id 9 and done true", body)
		}
		writeJSON(t, w, body)
	})

	got, err := client.Save(context.Background(), &domaintodo.Todo{ID: "9", Name: "x", Done: true})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	want := domaintodo.Todo{ID: "9", Name: "x", Done: true}
	if *got != want {
		t.Errorf("Save() = %+v, want %+v", got, want)
	}
}

func TestTodoClient_Save_ValidationError(t *testing.T) {
	t.Parallel()

	client := newTestTodoClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"detail":"bad","errors":[{"location":"body.name","message":"is required"}]}`)
	})

	_, err := client.Save(context.Background(), &domaintodo.Todo{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Save() error = %v, want ErrValidation", err)
	}

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Save() error is not *ValidationError: %v", err)
	}
	if verr.Fields["name"] != "is required" {
		t.Errorf("Fields[name] = %q, want %q", verr.Fields["name"], "is required")
	}
}

// --- DeleteByID ---

func TestTodoClient_DeleteByID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
	}{
		{name: "204 no content", status: http.StatusNoContent},
		{name: "200 ok", status: http.StatusOK},
		{name: "404 treated as already deleted", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newTestTodoClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodDelete || r.URL.Path != "/todo/1" {
					t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
				}
				w.WriteHeader(tt.status)
			})

			if err := client.DeleteByID(context.Background(), "1"); err != nil {
				t.Errorf("DeleteByID() error = %v, want nil", err)
			}
		})
	}
}

func TestTodoClient_DeleteByID_ServerError(t *testing.T) {
	t.Parallel()

	client := newTestTodoClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	err := client.DeleteByID(context.Background(), "1")
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("DeleteByID() error = %v, want ErrUnavailable", err)
	}
}

// --- Transport failures ---

func TestTodoClient_UnreachableDownstream(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	client := NewTodoClient(newTestClient(t, url), testLogger())

	_, err := client.FindAll(context.Background())
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("FindAll() error = %v, want ErrUnavailable", err)
	}
}

func TestTodoClient_CanceledContextIsNotUnavailable(t *testing.T) {
	t.Parallel()

	client := newTestTodoClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, []any{})
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FindAll(ctx)
	if err == nil {
		t.Fatal("FindAll() error = nil, want context error")
	}
	if errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("FindAll() error = %v, want no ErrUnavailable for canceled context", err)
	}
}

// --- Health ---

func TestTodoClient_Health(t *testing.T) {
	t.Parallel()

	client := NewTodoClient(newTestClient(t, "http://localhost"), testLogger())

	if client.Name() != ServiceName {
		t.Errorf("Name() = %q, want %q", client.Name(), ServiceName)
	}
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() = %v, want nil for fresh breaker", err)
	}
}

func TestTodoClient_HealthAfterBreakerTrips(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(ts.Close)

	cfg := &config.ClientConfig{
		BaseURL:        ts.URL,
		Timeout:        time.Second,
		Retry:          config.RetryConfig{MaxAttempts: 1, Multiplier: 1},
		CircuitBreaker: config.CircuitBreakerConfig{MaxFailures: 1, Timeout: time.Minute, HalfOpenLimit: 1},
	}
	client := NewTodoClient(httpclient.New(cfg, ServiceName, nil, testLogger()), testLogger())

	_, _ = client.FindAll(context.Background())

	err := client.HealthCheck(context.Background())
	if err == nil || !strings.Contains(err.Error(), "open") {
		t.Errorf("HealthCheck() = %v, want open breaker error", err)
	}
}
