// Package postgres implements ports.TodoStore on PostgreSQL using
// database/sql with the lib/pq driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/jsamuelsen11/todo-backend/internal/domain"
	"github.com/jsamuelsen11/todo-backend/internal/domain/todo"
	"github.com/jsamuelsen11/todo-backend/internal/platform/config"
	"github.com/jsamuelsen11/todo-backend/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.TodoStore     = (*Store)(nil)
	_ ports.HealthChecker = (*Store)(nil)
)

const schema = `
	CREATE TABLE IF NOT EXISTS todos (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL DEFAULT '',
		done       BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// pgClassConnectionException is the SQLSTATE class for connection failures.
const pgClassConnectionException = "08"

// Store is a PostgreSQL-backed todo store.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open connects to PostgreSQL using cfg, verifies the connection, and makes
// sure the todos table exists.
func Open(ctx context.Context, cfg config.PostgresConfig, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxOpenConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	s := New(db, logger)
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing *sql.DB. The caller owns the schema.
func New(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{db: db, logger: logger}
}

// EnsureSchema creates the todos table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating todos table: %w", translate(err))
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// FindAll returns all todos ordered by creation time.
func (s *Store) FindAll(ctx context.Context) ([]todo.Todo, error) {
	query := `
		SELECT id, name, done
		FROM todos
		ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", translate(err))
	}
	defer rows.Close()

	todos := []todo.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", translate(err))
	}

	return todos, nil
}

// FindByID returns the todo with the given ID.
func (s *Store) FindByID(ctx context.Context, id string) (*todo.Todo, error) {
	query := `
		SELECT id, name, done
		FROM todos
		WHERE id = $1`

	t, err := scanTodo(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Save inserts t or overwrites the row with the same ID. The original
// created_at is kept on overwrite so FindAll order stays stable.
func (s *Store) Save(ctx context.Context, t *todo.Todo) (*todo.Todo, error) {
	id := t.ID
	if !t.HasID() {
		id = uuid.NewString()
	}

	query := `
		INSERT INTO todos (id, name, done)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, done = EXCLUDED.done
		RETURNING id, name, done`

	saved, err := scanTodo(s.db.QueryRowContext(ctx, query, id, t.Name, t.Done))
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// DeleteByID removes the row with the given ID. Zero affected rows is not
// an error.
func (s *Store) DeleteByID(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", translate(err))
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		s.logger.DebugContext(ctx, "delete matched no rows", slog.String("id", id))
	}
	return nil
}

// Name identifies the store in readiness reports.
func (s *Store) Name() string {
	return "postgres"
}

// HealthCheck pings the database.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanTodo(row scannable) (todo.Todo, error) {
	var t todo.Todo
	if err := row.Scan(&t.ID, &t.Name, &t.Done); err != nil {
		return todo.Todo{}, fmt.Errorf("failed to scan todo: %w", translate(err))
	}
	return t, nil
}

// translate maps driver errors onto domain sentinels. sql.ErrNoRows becomes
// domain.ErrNotFound and connection-class failures become
// domain.ErrUnavailable; anything else is returned unchanged.
func translate(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code.Class()) == pgClassConnectionException {
		return fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
	}

	return err
}
