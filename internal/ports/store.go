package ports

import (
	"context"

	"github.com/jsamuelsen11/todo-backend/internal/domain/todo"
)

// TodoStore defines the persistence port for todo records. Implemented by the
// store adapters (memory, postgres, mongo, and the remote ACL client); called
// by the application layer.
type TodoStore interface {
	// FindAll returns every stored todo in the store's natural order.
	// An empty store yields an empty, non-nil slice.
	FindAll(ctx context.Context) ([]todo.Todo, error)

	// FindByID returns a single todo by ID.
	// Returns domain.ErrNotFound if the todo does not exist.
	FindByID(ctx context.Context, id string) (*todo.Todo, error)

	// Save upserts a todo. When the todo has no ID the store assigns one;
	// otherwise the record with that ID is overwritten (or created).
	// Returns the stored entity including the assigned ID.
	Save(ctx context.Context, todo *todo.Todo) (*todo.Todo, error)

	// DeleteByID removes the todo with the given ID. Deleting an ID that
	// does not exist is not an error.
	DeleteByID(ctx context.Context, id string) error
}
