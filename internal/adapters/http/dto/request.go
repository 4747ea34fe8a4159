package dto

import "github.com/jsamuelsen11/todo-backend/internal/domain/todo"

// TodoRequest is the JSON body accepted by POST /todo and PUT /todo/{id}.
// Absent fields decode to their zero values. ID is optional on create and
// ignored on replace.
type TodoRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Done bool   `json:"done"`
}

// ToDomain converts the request body to a domain Todo.
func (r *TodoRequest) ToDomain() *todo.Todo {
	return &todo.Todo{
		ID:   r.ID,
		Name: r.Name,
		Done: r.Done,
	}
}
