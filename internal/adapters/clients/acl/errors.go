// Package acl lets a downstream todo API act as the persistence store. Wire
// translators live in acl/todo; the mapping from downstream failures to
// domain errors lives here.
package acl

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/jsamuelsen11/todo-backend/internal/domain"
)

// maxProblemBytes caps how much of an error body is read.
const maxProblemBytes = 64 << 10

// statusErrors maps downstream client-error statuses onto domain sentinels.
// Every 5xx and 429 becomes domain.ErrUnavailable.
var statusErrors = map[int]error{
	http.StatusBadRequest:          domain.ErrValidation,
	http.StatusUnprocessableEntity: domain.ErrValidation,
	http.StatusUnauthorized:        domain.ErrForbidden,
	http.StatusForbidden:           domain.ErrForbidden,
	http.StatusNotFound:            domain.ErrNotFound,
	http.StatusConflict:            domain.ErrConflict,
	http.StatusTooManyRequests:     domain.ErrUnavailable,
}

// remoteProblem is the subset of an RFC 9457 body the store cares about.
type remoteProblem struct {
	Detail string `json:"detail"`
	Errors []struct {
		Location string `json:"location"`
		Message  string `json:"message"`
	} `json:"errors"`
}

// TranslateHTTPError turns a failed downstream response into a domain error.
// The problem body's detail, when present, prefixes the message. A 400 or 422
// carrying field errors becomes a *domain.ValidationError with the "body."
// location prefix stripped.
func TranslateHTTPError(resp *http.Response) error {
	p := readProblem(resp)

	detail := p.Detail
	if detail == "" {
		detail = http.StatusText(resp.StatusCode)
	}

	sentinel, ok := statusErrors[resp.StatusCode]
	if !ok && resp.StatusCode >= http.StatusInternalServerError {
		sentinel, ok = domain.ErrUnavailable, true
	}
	if !ok {
		return fmt.Errorf("todo store answered with unexpected status %d: %s", resp.StatusCode, detail)
	}

	if sentinel == domain.ErrValidation && len(p.Errors) > 0 {
		fields := make(map[string]string, len(p.Errors))
		for _, e := range p.Errors {
			fields[strings.TrimPrefix(e.Location, "body.")] = e.Message
		}
		return &domain.ValidationError{Fields: fields}
	}

	return fmt.Errorf("%s: %w", detail, sentinel)
}

// readProblem decodes a problem+json (or plain JSON) error body. Anything it
// cannot read yields the zero value.
func readProblem(resp *http.Response) remoteProblem {
	var p remoteProblem
	if resp.Body == nil {
		return p
	}

	mt, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || (mt != "application/problem+json" && mt != "application/json") {
		return p
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxProblemBytes)).Decode(&p); err != nil {
		return remoteProblem{}
	}
	return p
}
