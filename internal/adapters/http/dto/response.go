// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
package dto

import "github.com/jsamuelsen11/todo-backend/internal/domain/todo"

// TodoResponse represents a single ToDo item in HTTP responses.
type TodoResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Done bool   `json:"done"`
}

// ToTodoResponse converts a domain Todo to an HTTP response DTO.
func ToTodoResponse(t *todo.Todo) TodoResponse {
	return TodoResponse{
		ID:   t.ID,
		Name: t.Name,
		Done: t.Done,
	}
}

// ToTodoListResponse converts domain todos to the bare JSON array returned by
// GET /todo. It never returns nil, so an empty store encodes as [].
func ToTodoListResponse(todos []todo.Todo) []TodoResponse {
	items := make([]TodoResponse, len(todos))
	for i := range todos {
		items[i] = ToTodoResponse(&todos[i])
	}
	return items
}
