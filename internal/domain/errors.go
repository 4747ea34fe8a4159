package domain

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

// Error kinds. Every layer wraps its failures around one of these, and the
// HTTP adapter picks the response status with errors.Is.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation error")
	ErrConflict    = errors.New("conflict")
	ErrForbidden   = errors.New("forbidden")
	ErrUnavailable = errors.New("unavailable")
)

// ValidationError is an ErrValidation that names the offending fields.
// Fields maps a todo field name to what is wrong with it.
type ValidationError struct {
	Fields map[string]string
}

// Error lists the fields in name order so messages are stable.
func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(ErrValidation.Error())
	for i, field := range slices.Sorted(maps.Keys(e.Fields)) {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(field + ": " + e.Fields[field])
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
