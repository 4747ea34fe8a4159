package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/jsamuelsen11/todo-backend/internal/platform/logging"
	"github.com/jsamuelsen11/todo-backend/internal/ports"
)

// readinessBudget bounds one readiness probe across all checks.
const readinessBudget = 2 * time.Second

// Readiness reports one entry per checker, "ok" or "unavailable". Failure
// causes only go to the log since they can name hosts and credentials.
type Readiness struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	registry ports.HealthRegistry
	budget   time.Duration
}

// NewHealthHandler returns a HealthHandler that asks registry on every
// readiness probe.
func NewHealthHandler(registry ports.HealthRegistry) *HealthHandler {
	return &HealthHandler{registry: registry, budget: readinessBudget}
}

// Liveness serves GET /health/live. The process answering is enough.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness serves GET /health/ready: 200 "ready" when every check passes,
// otherwise 503 "not_ready". Each failing check is logged.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.budget)
	defer cancel()

	report := Readiness{Status: "ready", Checks: map[string]string{}}
	code := http.StatusOK

	for name, err := range h.registry.CheckAll(ctx) {
		if err == nil {
			report.Checks[name] = "ok"
			continue
		}
		report.Checks[name] = "unavailable"
		report.Status, code = "not_ready", http.StatusServiceUnavailable
		logging.FromContext(ctx).WarnContext(ctx, "readiness check failed",
			slog.String("checker", name),
			slog.Any("error", err),
		)
	}

	writeJSON(w, r, code, report)
}
