package todo

import (
	domaintodo "github.com/jsamuelsen11/todo-backend/internal/domain/todo"
)

// ToDomainTodo converts a downstream TodoDTO to a domain Todo.
func ToDomainTodo(dto *TodoDTO) domaintodo.Todo {
	return domaintodo.Todo{
		ID:   dto.ID,
		Name: dto.Name,
		Done: dto.Done,
	}
}

// ToDomainTodoList converts a downstream list response to domain todos.
// A nil or empty input yields an empty, non-nil slice.
func ToDomainTodoList(dtos []TodoDTO) []domaintodo.Todo {
	todos := make([]domaintodo.Todo, len(dtos))
	for i := range dtos {
		todos[i] = ToDomainTodo(&dtos[i])
	}
	return todos
}

// ToTodoDTO converts a domain Todo to the downstream request body. An empty
// ID is omitted so the downstream assigns one.
func ToTodoDTO(t *domaintodo.Todo) TodoDTO {
	dto := TodoDTO{
		Name: t.Name,
		Done: t.Done,
	}
	if t.HasID() {
		dto.ID = t.ID
	}
	return dto
}
