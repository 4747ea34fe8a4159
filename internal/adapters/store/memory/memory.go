// Package memory provides an in-process implementation of ports.TodoStore.
// Records live in a map guarded by a read/write mutex; insertion order is
// tracked separately so FindAll returns todos in the order they were first
// saved.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/todo-backend/internal/domain"
	"github.com/jsamuelsen11/todo-backend/internal/domain/todo"
	"github.com/jsamuelsen11/todo-backend/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.TodoStore     = (*Store)(nil)
	_ ports.HealthChecker = (*Store)(nil)
)

// Store is a thread-safe, non-durable todo store. The zero value is not
// usable; construct with New.
type Store struct {
	mu    sync.RWMutex
	byID  map[string]todo.Todo
	order []string
	newID func() string
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides the function used to assign IDs to todos saved
// without one. Defaults to random UUIDs.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		byID:  make(map[string]todo.Todo),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindAll returns copies of every stored todo in insertion order.
func (s *Store) FindAll(_ context.Context) ([]todo.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	todos := make([]todo.Todo, 0, len(s.order))
	for _, id := range s.order {
		todos = append(todos, s.byID[id])
	}
	return todos, nil
}

// FindByID returns a copy of the todo with the given ID.
func (s *Store) FindByID(_ context.Context, id string) (*todo.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("todo %q: %w", id, domain.ErrNotFound)
	}
	return &t, nil
}

// Save upserts t, assigning a new ID when t has none. The caller's value is
// never retained, so later mutations do not leak into the store.
func (s *Store) Save(_ context.Context, t *todo.Todo) (*todo.Todo, error) {
	stored := *t

	s.mu.Lock()
	defer s.mu.Unlock()

	if !stored.HasID() {
		stored.ID = s.nextFreeID()
	}
	if _, exists := s.byID[stored.ID]; !exists {
		s.order = append(s.order, stored.ID)
	}
	s.byID[stored.ID] = stored

	return &stored, nil
}

// DeleteByID removes the todo with the given ID. Unknown IDs are ignored.
func (s *Store) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return nil
	}
	delete(s.byID, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Name identifies the store in readiness reports.
func (s *Store) Name() string {
	return "memory"
}

// HealthCheck always succeeds; the store has no external dependency.
func (s *Store) HealthCheck(_ context.Context) error {
	return nil
}

// nextFreeID draws IDs until one is not already taken. Must be called with
// s.mu held for writing.
func (s *Store) nextFreeID() string {
	for {
		id := s.newID()
		if _, taken := s.byID[id]; !taken {
			return id
		}
	}
}
