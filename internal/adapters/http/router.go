// Package http is the inbound HTTP adapter: routes, server lifecycle and the
// middleware and handlers they mount.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/todo-backend/internal/adapters/http/dto"
	"github.com/jsamuelsen11/todo-backend/internal/adapters/http/handlers"
)

// NewRouter mounts the todo and health endpoints behind mw, applied in the
// given order. Unknown paths and methods are answered with problem details.
func NewRouter(todos *handlers.TodoHandler, health *handlers.HealthHandler, mw ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(mw...)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		dto.WriteProblem(w, req, dto.NewProblem(req, http.StatusNotFound, "no route matches "+req.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		dto.WriteProblem(w, req, dto.NewProblem(req, http.StatusMethodNotAllowed, req.Method+" is not supported on "+req.URL.Path))
	})

	for _, rt := range []struct {
		method, pattern string
		handle          http.HandlerFunc
	}{
		{http.MethodGet, "/health/live", health.Liveness},
		{http.MethodGet, "/health/ready", health.Readiness},
		{http.MethodGet, "/todo", todos.ListTodos},
		{http.MethodPost, "/todo", todos.CreateTodo},
		{http.MethodGet, "/todo/{id}", todos.GetTodo},
		{http.MethodPut, "/todo/{id}", todos.ReplaceTodo},
		{http.MethodDelete, "/todo/{id}", todos.DeleteTodo},
	} {
		r.Method(rt.method, rt.pattern, rt.handle)
	}

	return r
}
