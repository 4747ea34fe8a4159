// Command server runs the todo HTTP API. Configuration comes from
// configs/{APP_PROFILE}.yaml layered over configs/base.yaml and APP_*
// variables; see internal/platform/config.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"

	adapthttp "github.com/jsamuelsen11/todo-backend/internal/adapters/http"
	"github.com/jsamuelsen11/todo-backend/internal/platform/config"
	"github.com/jsamuelsen11/todo-backend/internal/platform/logging"
)

const (
	storeOpenTimeout = 30 * time.Second
	drainTimeout     = 15 * time.Second
	closeTimeout     = 5 * time.Second
)

// stopStep is one stage of shutdown. Stages run in order, each with its own
// budget, and a failing stage does not skip the rest.
type stopStep struct {
	name   string
	budget time.Duration
	fn     func(context.Context) error
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "todo server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE must name a config profile (local, dev, qa, prod)")
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	otel, err := initTelemetry(context.Background(), cfg)
	if err != nil {
		return err
	}
	// Telemetry is flushed last, after the store has closed.
	stops := []stopStep{{"telemetry", closeTimeout, otel.Shutdown}}
	defer func() { stopAll(logger, stops) }()

	injector := do.New()
	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.metrics)
	registerDependencies(injector, cfg, logger)

	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("wiring server: %w", err)
	}
	stops = append([]stopStep{{"store", closeTimeout, do.MustInvoke[*storeBinding](injector).close}}, stops...)

	if err := server.Listen(); err != nil {
		return err
	}

	served := make(chan error, 1)
	go func() { served <- server.Serve() }()
	// Drain HTTP before anything else so no request reaches a closed store.
	stops = append([]stopStep{{"http", drainTimeout, func(ctx context.Context) error {
		err := server.Shutdown(ctx)
		<-served
		return err
	}}}, stops...)

	logger.Info("todo service started",
		slog.String("profile", profile),
		slog.String("addr", server.Addr()),
		slog.String("store", cfg.Store.Driver),
		slog.Bool("telemetry", cfg.Telemetry.Enabled),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		logger.Info("stop signal received")
		return nil
	case err := <-served:
		// Serve already returned; skip the drain step's wait on it.
		served <- err
		return err
	}
}

func stopAll(logger *slog.Logger, steps []stopStep) {
	for _, s := range steps {
		ctx, cancel := context.WithTimeout(context.Background(), s.budget)
		if err := s.fn(ctx); err != nil {
			logger.Error("shutdown step failed", slog.String("step", s.name), slog.Any("error", err))
		}
		cancel()
	}
	logger.Info("shutdown complete")
}
