package mongo_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/todo-backend/internal/adapters/store/mongo"
	"github.com/jsamuelsen11/todo-backend/internal/domain"
	"github.com/jsamuelsen11/todo-backend/internal/domain/todo"
	"github.com/jsamuelsen11/todo-backend/internal/platform/config"
)

// openTestStore connects to the server named by APP_TEST_MONGO_URI using a
// throwaway collection, and skips the test when the variable is unset.
func openTestStore(t *testing.T) *mongo.Store {
	t.Helper()

	uri := os.Getenv("APP_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("APP_TEST_MONGO_URI not set")
	}

	s, err := mongo.Open(context.Background(), config.MongoConfig{
		URI:            uri,
		Database:       "todo_test",
		Collection:     "todos_" + uuid.NewString(),
		ConnectTimeout: 10 * time.Second,
	}, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestStore_SaveAndFind(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	saved, err := s.Save(ctx, &todo.Todo{Name: "Buy milk", Done: true})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := uuid.Parse(saved.ID); err != nil {
		t.Errorf("Save().ID = %q, want a UUID", saved.ID)
	}

	got, err := s.FindByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if *got != *saved {
		t.Errorf("FindByID() = %+v, want %+v", got, saved)
	}
}

func TestStore_SaveOverwritesAndKeepsOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, _ = s.Save(ctx, &todo.Todo{ID: "a", Name: "first"})
	_, _ = s.Save(ctx, &todo.Todo{ID: "b", Name: "second"})
	if _, err := s.Save(ctx, &todo.Todo{ID: "a", Name: "first again", Done: true}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	all, err := s.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	want := []todo.Todo{
		{ID: "a", Name: "first again", Done: true},
		{ID: "b", Name: "second"},
	}
	if len(all) != len(want) {
		t.Fatalf("FindAll() len = %d, want %d", len(all), len(want))
	}
	for i := range want {
		if all[i] != want[i] {
			t.Errorf("FindAll()[%d] = %+v, want %+v", i, all[i], want[i])
		}
	}
}

func TestStore_FindByIDMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.FindByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("FindByID() error = %v, want ErrNotFound", err)
	}
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, _ = s.Save(ctx, &todo.Todo{ID: "1", Name: "gone"})
	for i := range 2 {
		if err := s.DeleteByID(ctx, "1"); err != nil {
			t.Fatalf("DeleteByID() call %d error = %v", i+1, err)
		}
	}

	all, _ := s.FindAll(ctx)
	if len(all) != 0 {
		t.Errorf("FindAll() len = %d, want 0", len(all))
	}
}

func TestStore_HealthCheck(t *testing.T) {
	s := openTestStore(t)

	if s.Name() != "mongo" {
		t.Errorf("Name() = %q, want %q", s.Name(), "mongo")
	}
	if err := s.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() = %v, want nil", err)
	}
}
