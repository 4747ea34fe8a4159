// Package handlers turns HTTP requests into todo service calls and service
// results into JSON.
package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/todo-backend/internal/adapters/http/dto"
	"github.com/jsamuelsen11/todo-backend/internal/domain/todo"
	"github.com/jsamuelsen11/todo-backend/internal/ports"
)

// TodoHandler serves /todo and /todo/{id}.
type TodoHandler struct {
	service ports.TodoService
}

// NewTodoHandler returns a TodoHandler backed by service.
func NewTodoHandler(service ports.TodoService) *TodoHandler {
	return &TodoHandler{service: service}
}

// ListTodos serves GET /todo as a bare JSON array.
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.service.List(r.Context())
	if err != nil {
		dto.WriteError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ToTodoListResponse(todos))
}

// GetTodo serves GET /todo/{id}.
func (h *TodoHandler) GetTodo(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	t, err := h.service.Get(r.Context(), id)
	reply(w, r, t, err)
}

// CreateTodo serves POST /todo and answers 200 with the stored todo.
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeTodo(w, r)
	if !ok {
		return
	}
	t, err := h.service.Create(r.Context(), in)
	reply(w, r, t, err)
}

// ReplaceTodo serves PUT /todo/{id}. The path id wins over any id in the
// body.
func (h *TodoHandler) ReplaceTodo(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	in, ok := decodeTodo(w, r)
	if !ok {
		return
	}
	t, err := h.service.ReplaceOrCreate(r.Context(), id, in)
	reply(w, r, t, err)
}

// DeleteTodo serves DELETE /todo/{id}. A missing id is still a 204.
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if err := h.service.Delete(r.Context(), id); err != nil {
		dto.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// reply answers with t as JSON, or with the problem for err.
func reply(w http.ResponseWriter, r *http.Request, t *todo.Todo, err error) {
	if err != nil {
		dto.WriteError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ToTodoResponse(t))
}
