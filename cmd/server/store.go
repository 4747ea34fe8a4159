package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen11/todo-backend/internal/adapters/clients/acl"
	"github.com/jsamuelsen11/todo-backend/internal/adapters/store"
	"github.com/jsamuelsen11/todo-backend/internal/adapters/store/memory"
	"github.com/jsamuelsen11/todo-backend/internal/adapters/store/mongo"
	"github.com/jsamuelsen11/todo-backend/internal/adapters/store/postgres"
	"github.com/jsamuelsen11/todo-backend/internal/platform/config"
	"github.com/jsamuelsen11/todo-backend/internal/platform/httpclient"
	"github.com/jsamuelsen11/todo-backend/internal/platform/telemetry"
	"github.com/jsamuelsen11/todo-backend/internal/ports"
)

// storeBinding is the persistence store selected by store.driver, along with
// its health checker and the func that releases its connections.
type storeBinding struct {
	store   ports.TodoStore
	checker ports.HealthChecker
	close   func(context.Context) error
}

// backend is what every store driver provides.
type backend interface {
	ports.TodoStore
	ports.HealthChecker
}

// openStore connects the store named by cfg.Store.Driver and wraps it with
// tracing and metrics.
func openStore(ctx context.Context, cfg *config.Config, metrics *telemetry.Metrics, logger *slog.Logger) (*storeBinding, error) {
	var (
		b       backend
		closeFn = func(context.Context) error { return nil }
	)

	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		b = memory.New()

	case config.StoreDriverPostgres:
		s, err := postgres.Open(ctx, cfg.Store.Postgres, logger)
		if err != nil {
			return nil, err
		}
		b = s
		closeFn = func(context.Context) error { return s.Close() }

	case config.StoreDriverMongo:
		s, err := mongo.Open(ctx, cfg.Store.Mongo, logger)
		if err != nil {
			return nil, err
		}
		b = s
		closeFn = s.Close

	case config.StoreDriverRemote:
		client := httpclient.New(&cfg.Client, acl.ServiceName, metrics, logger)
		b = acl.NewTodoClient(client, logger)

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	logger.Info("todo store ready", slog.String("driver", cfg.Store.Driver))

	return &storeBinding{
		store:   store.Instrument(b, cfg.Store.Driver, metrics),
		checker: b,
		close:   closeFn,
	}, nil
}
