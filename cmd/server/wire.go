package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/samber/do/v2"

	adapthttp "github.com/jsamuelsen11/todo-backend/internal/adapters/http"
	"github.com/jsamuelsen11/todo-backend/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/todo-backend/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/todo-backend/internal/app"
	"github.com/jsamuelsen11/todo-backend/internal/platform/config"
	"github.com/jsamuelsen11/todo-backend/internal/platform/health"
	"github.com/jsamuelsen11/todo-backend/internal/platform/telemetry"
	"github.com/jsamuelsen11/todo-backend/internal/ports"
)

// registerDependencies declares the object graph. Nothing is built until the
// server is invoked.
func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(i do.Injector) (*storeBinding, error) {
		ctx, cancel := context.WithTimeout(context.Background(), storeOpenTimeout)
		defer cancel()
		return openStore(ctx, cfg, do.MustInvoke[*telemetry.Metrics](i), logger)
	})

	do.Provide(injector, func(i do.Injector) (ports.TodoService, error) {
		return app.NewTodoService(do.MustInvoke[*storeBinding](i).store, logger), nil
	})

	// Readiness covers the configured store.
	do.Provide(injector, func(i do.Injector) (ports.HealthRegistry, error) {
		registry := health.New()
		registry.Register(do.MustInvoke[*storeBinding](i).checker)
		return registry, nil
	})

	do.Provide(injector, func(i do.Injector) (http.Handler, error) {
		return adapthttp.NewRouter(
			handlers.NewTodoHandler(do.MustInvoke[ports.TodoService](i)),
			handlers.NewHealthHandler(do.MustInvoke[ports.HealthRegistry](i)),
			middleware.Standard(logger, do.MustInvoke[*telemetry.Metrics](i), cfg.Server.HandlerTimeout)...,
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		return adapthttp.NewServer(cfg.Server, do.MustInvoke[http.Handler](i), logger), nil
	})
}
