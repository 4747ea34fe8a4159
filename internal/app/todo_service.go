// Package app provides application services that orchestrate use cases by
// coordinating between domain logic and infrastructure through port interfaces.
package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jsamuelsen11/todo-backend/internal/domain"
	"github.com/jsamuelsen11/todo-backend/internal/domain/todo"
	"github.com/jsamuelsen11/todo-backend/internal/ports"
)

// Compile-time check that TodoService implements ports.TodoService.
var _ ports.TodoService = (*TodoService)(nil)

// TodoService implements ports.TodoService on top of a ports.TodoStore. It
// holds no per-request state; consistency between concurrent calls is the
// store's responsibility.
type TodoService struct {
	store  ports.TodoStore
	logger *slog.Logger
}

// NewTodoService creates a TodoService backed by the given store. A nil
// logger is replaced with one that discards output.
func NewTodoService(store ports.TodoStore, logger *slog.Logger) *TodoService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &TodoService{
		store:  store,
		logger: logger,
	}
}

// List returns every todo known to the store.
func (s *TodoService) List(ctx context.Context) ([]todo.Todo, error) {
	s.logger.InfoContext(ctx, "listing todos")

	todos, err := s.store.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list todos",
			slog.String("operation", "List"),
			slog.Any("error", err),
		)
		return nil, err
	}

	if todos == nil {
		todos = []todo.Todo{}
	}
	return todos, nil
}

// Get returns a single todo by ID.
func (s *TodoService) Get(ctx context.Context, id string) (*todo.Todo, error) {
	s.logger.InfoContext(ctx, "fetching todo", slog.String("id", id))

	t, err := s.store.FindByID(ctx, id)
	if err != nil {
		s.logError(ctx, "failed to fetch todo", "Get", id, err)
		return nil, err
	}

	return t, nil
}

// Create hands the todo to the store unchanged.
func (s *TodoService) Create(ctx context.Context, t *todo.Todo) (*todo.Todo, error) {
	s.logger.InfoContext(ctx, "creating todo", slog.String("id", t.ID))

	created, err := s.store.Save(ctx, t)
	if err != nil {
		s.logError(ctx, "failed to create todo", "Create", t.ID, err)
		return nil, err
	}

	return created, nil
}

// ReplaceOrCreate copies Name and Done from replacement onto the stored todo
// with the given ID. When no such todo exists, replacement itself is saved
// with its ID forced to id.
func (s *TodoService) ReplaceOrCreate(ctx context.Context, id string, replacement *todo.Todo) (*todo.Todo, error) {
	s.logger.InfoContext(ctx, "replacing todo", slog.String("id", id))

	target, err := s.store.FindByID(ctx, id)
	switch {
	case err == nil:
		target.ApplyReplacement(replacement)
	case errors.Is(err, domain.ErrNotFound):
		s.logger.DebugContext(ctx, "todo not found, creating it", slog.String("id", id))
		created := replacement.WithID(id)
		target = &created
	default:
		s.logError(ctx, "failed to look up todo", "ReplaceOrCreate", id, err)
		return nil, err
	}

	saved, err := s.store.Save(ctx, target)
	if err != nil {
		s.logError(ctx, "failed to save todo", "ReplaceOrCreate", id, err)
		return nil, err
	}

	return saved, nil
}

// Delete asks the store to remove the todo. No existence check is made.
func (s *TodoService) Delete(ctx context.Context, id string) error {
	s.logger.InfoContext(ctx, "deleting todo", slog.String("id", id))

	if err := s.store.DeleteByID(ctx, id); err != nil {
		s.logError(ctx, "failed to delete todo", "Delete", id, err)
		return err
	}

	return nil
}

func (s *TodoService) logError(ctx context.Context, msg, operation, id string, err error) {
	s.logger.ErrorContext(ctx, msg,
		slog.String("operation", operation),
		slog.String("id", id),
		slog.Any("error", err),
	)
}
