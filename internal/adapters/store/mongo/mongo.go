// Package mongo implements ports.TodoStore on a MongoDB collection.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

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

// document is the stored shape of a todo.
type document struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Done      bool      `bson:"done"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d document) toDomain() todo.Todo {
	return todo.Todo{ID: d.ID, Name: d.Name, Done: d.Done}
}

// Store is a MongoDB-backed todo store.
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *slog.Logger
	now        func() time.Time
}

// Open connects to MongoDB using cfg and pings the primary.
func Open(ctx context.Context, cfg config.MongoConfig, logger *slog.Logger) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	return New(client, client.Database(cfg.Database).Collection(cfg.Collection), logger), nil
}

// New wraps an existing client and collection.
func New(client *mongo.Client, collection *mongo.Collection, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		client:     client,
		collection: collection,
		logger:     logger,
		now:        time.Now,
	}
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// FindAll returns all todos ordered by creation time.
func (s *Store) FindAll(ctx context.Context) ([]todo.Todo, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: 1},
		{Key: "_id", Value: 1},
	})

	cursor, err := s.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", translate(err))
	}

	var docs []document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode todos: %w", translate(err))
	}

	todos := make([]todo.Todo, 0, len(docs))
	for _, d := range docs {
		todos = append(todos, d.toDomain())
	}
	return todos, nil
}

// FindByID returns the todo with the given ID.
func (s *Store) FindByID(ctx context.Context, id string) (*todo.Todo, error) {
	var d document
	if err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to find todo %q: %w", id, translate(err))
	}

	t := d.toDomain()
	return &t, nil
}

// Save upserts t by ID. created_at is only written on insert.
func (s *Store) Save(ctx context.Context, t *todo.Todo) (*todo.Todo, error) {
	id := t.ID
	if !t.HasID() {
		id = uuid.NewString()
	}

	update := bson.M{
		"$set":         bson.M{"name": t.Name, "done": t.Done},
		"$setOnInsert": bson.M{"created_at": s.now().UTC()},
	}
	opts := options.Update().SetUpsert(true)

	if _, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, update, opts); err != nil {
		return nil, fmt.Errorf("failed to save todo %q: %w", id, translate(err))
	}

	return &todo.Todo{ID: id, Name: t.Name, Done: t.Done}, nil
}

// DeleteByID removes the document with the given ID. A missing document is
// not an error.
func (s *Store) DeleteByID(ctx context.Context, id string) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete todo %q: %w", id, translate(err))
	}

	if result.DeletedCount == 0 {
		s.logger.DebugContext(ctx, "delete matched no documents", slog.String("id", id))
	}
	return nil
}

// Name identifies the store in readiness reports.
func (s *Store) Name() string {
	return "mongo"
}

// HealthCheck pings the primary.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo: %w", err)
	}
	return nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	case mongo.IsNetworkError(err), mongo.IsTimeout(err):
		return fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
	default:
		return err
	}
}
