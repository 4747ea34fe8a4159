package ports

import (
	"context"

	"github.com/jsamuelsen11/todo-backend/internal/domain/todo"
)

// TodoService defines the service port for todo operations.
// Implemented by the application layer; called by inbound adapters (handlers).
type TodoService interface {
	// List returns all todos. There is no pagination.
	List(ctx context.Context) ([]todo.Todo, error)

	// Get returns a single todo by ID.
	// Returns domain.ErrNotFound if the todo does not exist.
	Get(ctx context.Context, id string) (*todo.Todo, error)

	// Create stores the todo as given. If it has no ID the store assigns one.
	Create(ctx context.Context, todo *todo.Todo) (*todo.Todo, error)

	// ReplaceOrCreate replaces the name and done flag of the todo with the
	// given ID, keeping its ID. If no such todo exists, the replacement is
	// stored under the given ID instead.
	ReplaceOrCreate(ctx context.Context, id string, replacement *todo.Todo) (*todo.Todo, error)

	// Delete removes the todo with the given ID. Missing IDs are not an error.
	Delete(ctx context.Context, id string) error
}
