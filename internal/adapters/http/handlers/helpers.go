package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/todo-backend/internal/adapters/http/dto"
	"github.com/jsamuelsen11/todo-backend/internal/domain"
	"github.com/jsamuelsen11/todo-backend/internal/domain/todo"
	"github.com/jsamuelsen11/todo-backend/internal/platform/logging"
)

// maxBodyBytes caps a todo request body.
const maxBodyBytes = 1 << 20

// pathID is the {id} segment as sent. chi never matches an empty segment,
// and any other value, whitespace included, is a valid id.
func pathID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// decodeTodo reads a todo body. On failure it has already answered with a
// 400 problem.
func decodeTodo(w http.ResponseWriter, r *http.Request) (*todo.Todo, bool) {
	var body dto.TodoRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		dto.WriteError(w, r, bodyError(err))
		return nil, false
	}
	// The body must hold exactly one JSON value.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		dto.WriteError(w, r, fmt.Errorf("%w: unexpected data after the JSON body", domain.ErrValidation))
		return nil, false
	}
	return body.ToDomain(), true
}

func bodyError(err error) error {
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig):
		return fmt.Errorf("%w: request body exceeds %d bytes", domain.ErrValidation, tooBig.Limit)
	case errors.Is(err, io.EOF):
		return fmt.Errorf("%w: request body is empty", domain.ErrValidation)
	default:
		return fmt.Errorf("%w: malformed JSON body: %v", domain.ErrValidation, err)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "writing response body", slog.Any("error", err))
	}
}
