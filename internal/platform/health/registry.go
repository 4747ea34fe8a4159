// Package health keeps the set of readiness checks for the service and runs
// them together.
package health

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/jsamuelsen11/todo-backend/internal/platform/fanout"
	"github.com/jsamuelsen11/todo-backend/internal/ports"
)

var _ ports.HealthRegistry = (*Registry)(nil)

// Registry holds checkers by name. Registering a second checker under a name
// already in use replaces the first.
type Registry struct {
	mu       sync.Mutex
	checkers map[string]ports.HealthChecker
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{checkers: make(map[string]ports.HealthChecker)}
}

// Register adds checker. It may be called while checks are running.
func (r *Registry) Register(checker ports.HealthChecker) {
	r.mu.Lock()
	r.checkers[checker.Name()] = checker
	r.mu.Unlock()
}

// CheckAll runs every checker concurrently against ctx. Checks run outside
// the lock, so a slow one never blocks Register.
func (r *Registry) CheckAll(ctx context.Context) map[string]error {
	r.mu.Lock()
	names := slices.Sorted(maps.Keys(r.checkers))
	checkers := make([]ports.HealthChecker, len(names))
	for i, name := range names {
		checkers[i] = r.checkers[name]
	}
	r.mu.Unlock()

	outcomes := fanout.Run(ctx, 0, checkers, func(ctx context.Context, c ports.HealthChecker) (struct{}, error) {
		return struct{}{}, c.HealthCheck(ctx)
	})

	results := make(map[string]error, len(names))
	for i, name := range names {
		results[name] = outcomes[i].Err
	}
	return results
}
