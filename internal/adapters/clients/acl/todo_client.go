package acl

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/jsamuelsen11/todo-backend/internal/adapters/clients/acl/todo"
	"github.com/jsamuelsen11/todo-backend/internal/domain"
	domaintodo "github.com/jsamuelsen11/todo-backend/internal/domain/todo"
	"github.com/jsamuelsen11/todo-backend/internal/platform/httpclient"
	"github.com/jsamuelsen11/todo-backend/internal/ports"
)

var (
	_ ports.TodoStore     = (*TodoClient)(nil)
	_ ports.HealthChecker = (*TodoClient)(nil)
)

// ServiceName labels the downstream todo API in traces, metrics and
// readiness output.
const ServiceName = "todo-store-api"

const collectionPath = "/todo"

// TodoClient stores todos in another service that speaks the same /todo API.
// Breaking, limiting, retries and tracing all come from the
// httpclient.Client underneath.
type TodoClient struct {
	client *httpclient.Client
	logger *slog.Logger
}

// NewTodoClient returns a TodoClient sending through client, whose BaseURL
// is the downstream root, e.g. "http://todo-store:8080".
func NewTodoClient(client *httpclient.Client, logger *slog.Logger) *TodoClient {
	return &TodoClient{client: client, logger: logger}
}

// FindAll fetches GET /todo.
func (c *TodoClient) FindAll(ctx context.Context) ([]domaintodo.Todo, error) {
	var items []todo.TodoDTO
	if err := c.exchange(ctx, call{method: http.MethodGet, path: collectionPath, want: http.StatusOK, out: &items}); err != nil {
		return nil, err
	}
	return todo.ToDomainTodoList(items), nil
}

// FindByID fetches GET /todo/{id}; a downstream 404 is domain.ErrNotFound.
func (c *TodoClient) FindByID(ctx context.Context, id string) (*domaintodo.Todo, error) {
	var item todo.TodoDTO
	if err := c.exchange(ctx, call{method: http.MethodGet, path: itemPath(id), want: http.StatusOK, out: &item}); err != nil {
		return nil, err
	}
	t := todo.ToDomainTodo(&item)
	return &t, nil
}

// Save POSTs a todo without an id so the downstream assigns one, and PUTs
// one with an id. The downstream PUT creates missing records, which makes
// Save an upsert.
func (c *TodoClient) Save(ctx context.Context, t *domaintodo.Todo) (*domaintodo.Todo, error) {
	req := call{method: http.MethodPost, path: collectionPath, want: http.StatusOK, in: todo.ToTodoDTO(t)}
	if t.HasID() {
		req.method, req.path = http.MethodPut, itemPath(t.ID)
	}

	var saved todo.TodoDTO
	req.out = &saved
	if err := c.exchange(ctx, req); err != nil {
		return nil, err
	}
	result := todo.ToDomainTodo(&saved)
	return &result, nil
}

// DeleteByID sends DELETE /todo/{id}. A downstream 404 means the todo is
// already gone, which is success.
func (c *TodoClient) DeleteByID(ctx context.Context, id string) error {
	err := c.exchange(ctx, call{method: http.MethodDelete, path: itemPath(id), want: http.StatusNoContent})
	if errors.Is(err, domain.ErrNotFound) {
		c.logger.DebugContext(ctx, "todo already absent downstream", slog.String("id", id))
		return nil
	}
	return err
}

// Name implements ports.HealthChecker.
func (c *TodoClient) Name() string { return ServiceName }

// HealthCheck reads the circuit breaker; it makes no request.
func (c *TodoClient) HealthCheck(ctx context.Context) error {
	return c.client.HealthCheck(ctx)
}

// itemPath escapes id as one path segment.
func itemPath(id string) string {
	return collectionPath + "/" + url.PathEscape(id)
}
