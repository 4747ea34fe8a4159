package dto

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/jsamuelsen11/todo-backend/internal/domain"
	"github.com/jsamuelsen11/todo-backend/internal/platform/logging"
)

// Problem is an RFC 9457 problem details body. Every failed request is
// answered with one, served as application/problem+json.
type Problem struct {
	Type     string       `json:"type"`
	Title    string       `json:"title"`
	Status   int          `json:"status"`
	Detail   string       `json:"detail,omitempty"`
	Instance string       `json:"instance,omitempty"`
	Errors   []FieldError `json:"errors,omitempty"`
}

// FieldError names one rejected request field, e.g. "body.name".
type FieldError struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

// errorStatuses is checked in order; the first kind err matches decides the
// status. Anything unmatched is a 500.
var errorStatuses = []struct {
	kind   error
	status int
}{
	{domain.ErrValidation, http.StatusBadRequest},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrConflict, http.StatusConflict},
	{domain.ErrUnavailable, http.StatusBadGateway},
	{context.DeadlineExceeded, http.StatusGatewayTimeout},
}

// fixedDetails replace the error text for statuses where that text may carry
// driver messages or connection strings.
var fixedDetails = map[int]string{
	http.StatusInternalServerError: "the todo store failed to complete the request",
	http.StatusGatewayTimeout:      "the request did not complete before its deadline",
}

// StatusFor returns the HTTP status err is reported with.
func StatusFor(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.kind) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// ProblemFor describes err for the client. Field errors from a
// *domain.ValidationError are listed under errors, sorted by location.
func ProblemFor(r *http.Request, err error) Problem {
	status := StatusFor(err)

	detail, fixed := fixedDetails[status]
	if !fixed {
		detail = err.Error()
	}
	p := NewProblem(r, status, detail)

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		for field, msg := range verr.Fields {
			p.Errors = append(p.Errors, FieldError{Location: "body." + field, Message: msg})
		}
		slices.SortFunc(p.Errors, func(a, b FieldError) int {
			return strings.Compare(a.Location, b.Location)
		})
	}
	return p
}

// NewProblem builds a Problem that does not come from an error, such as a
// middleware timeout or an unknown route.
func NewProblem(r *http.Request, status int, detail string) Problem {
	return Problem{
		Type:     "about:blank",
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: r.RequestURI,
	}
}

// WriteError answers r with the problem for err. Handlers and middleware
// never choose error statuses themselves.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	WriteProblem(w, r, ProblemFor(r, err))
}

// WriteProblem serves p with its own status. A failed body write is logged
// through the request's logger.
func WriteProblem(w http.ResponseWriter, r *http.Request, p Problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)

	if err := json.NewEncoder(w).Encode(p); err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "writing problem response", slog.Any("error", err))
	}
}
