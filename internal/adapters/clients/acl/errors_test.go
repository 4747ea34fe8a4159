package acl

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/jsamuelsen11/todo-backend/internal/domain"
)

func response(status int, contentType, body string) *http.Response {
	h := http.Header{}
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &http.Response{
		StatusCode: status,
		Header:     h,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

var sentinels = []error{
	domain.ErrNotFound,
	domain.ErrValidation,
	domain.ErrConflict,
	domain.ErrForbidden,
	domain.ErrUnavailable,
}

func TestTranslateHTTPError_Sentinels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, domain.ErrValidation},
		{http.StatusUnauthorized, domain.ErrForbidden},
		{http.StatusForbidden, domain.ErrForbidden},
		{http.StatusNotFound, domain.ErrNotFound},
		{http.StatusConflict, domain.ErrConflict},
		{http.StatusUnprocessableEntity, domain.ErrValidation},
		{http.StatusTooManyRequests, domain.ErrUnavailable},
		{http.StatusInternalServerError, domain.ErrUnavailable},
		{http.StatusBadGateway, domain.ErrUnavailable},
		{http.StatusServiceUnavailable, domain.ErrUnavailable},
		{http.StatusGatewayTimeout, domain.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			t.Parallel()

			got := TranslateHTTPError(response(tt.status, "", ""))
			if !errors.Is(got, tt.want) {
				t.Fatalf("TranslateHTTPError(%d) = %v, want %v", tt.status, got, tt.want)
			}
			for _, other := range sentinels {
				if other != tt.want && errors.Is(got, other) {
					t.Errorf("TranslateHTTPError(%d) also matches %v", tt.status, other)
				}
			}
		})
	}
}

func TestTranslateHTTPError_Detail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		want        string
	}{
		{
			name:        "problem detail",
			status:      http.StatusNotFound,
			contentType: "application/problem+json",
			body:        `{"type":"about:blank","status":404,"detail":"todo abc-42 not found"}`,
			want:        "todo abc-42 not found",
		},
		{
			name:        "plain json with charset",
			status:      http.StatusConflict,
			contentType: "application/json; charset=utf-8",
			body:        `{"detail":"name already taken"}`,
			want:        "name already taken",
		},
		{
			name:        "text body ignored",
			status:      http.StatusNotFound,
			contentType: "text/plain",
			body:        "todo abc-42 not found",
			want:        "Not Found",
		},
		{
			name:        "malformed problem ignored",
			status:      http.StatusServiceUnavailable,
			contentType: "application/problem+json",
			body:        `{"detail":`,
			want:        "Service Unavailable",
		},
		{
			name:   "empty body",
			status: http.StatusConflict,
			want:   "Conflict",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := TranslateHTTPError(response(tt.status, tt.contentType, tt.body))
			if !strings.HasPrefix(got.Error(), tt.want) {
				t.Errorf("error = %q, want prefix %q", got, tt.want)
			}
		})
	}
}

func TestTranslateHTTPError_FieldErrors(t *testing.T) {
	t.Parallel()

	body := `{
		"status": 400,
		"detail": "validation failed",
		"errors": [
			{"location": "body.name", "message": "is required"},
			{"location": "id", "message": "must not be empty"}
		]
	}`

	got := TranslateHTTPError(response(http.StatusBadRequest, "application/problem+json", body))

	var verr *domain.ValidationError
	if !errors.As(got, &verr) {
		t.Fatalf("error = %v, want *domain.ValidationError", got)
	}
	if !errors.Is(got, domain.ErrValidation) {
		t.Errorf("error = %v, want errors.Is ErrValidation", got)
	}

	want := map[string]string{"name": "is required", "id": "must not be empty"}
	if len(verr.Fields) != len(want) {
		t.Fatalf("Fields = %v, want %v", verr.Fields, want)
	}
	for k, v := range want {
		if verr.Fields[k] != v {
			t.Errorf("Fields[%q] = %q, want %q", k, verr.Fields[k], v)
		}
	}
}

func TestTranslateHTTPError_FieldErrorsIgnoredOutsideValidation(t *testing.T) {
	t.Parallel()

	body := `{"detail":"gone","errors":[{"location":"body.name","message":"x"}]}`
	got := TranslateHTTPError(response(http.StatusNotFound, "application/problem+json", body))

	var verr *domain.ValidationError
	if errors.As(got, &verr) {
		t.Errorf("error = %v, want no ValidationError for 404", got)
	}
	if !errors.Is(got, domain.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", got)
	}
}

func TestTranslateHTTPError_UnexpectedStatus(t *testing.T) {
	t.Parallel()

	got := TranslateHTTPError(response(http.StatusTeapot, "", ""))

	for _, s := range sentinels {
		if errors.Is(got, s) {
			t.Errorf("TranslateHTTPError(418) matches %v, want no domain error", s)
		}
	}
	if !strings.Contains(got.Error(), "418") {
		t.Errorf("error = %q, want the status code in the message", got)
	}
}

func TestTranslateHTTPError_NilBody(t *testing.T) {
	t.Parallel()

	resp := &http.Response{
		StatusCode: http.StatusNotFound,
		Header:     http.Header{"Content-Type": []string{"application/problem+json"}},
	}

	if got := TranslateHTTPError(resp); !errors.Is(got, domain.ErrNotFound) {
		t.Errorf("TranslateHTTPError() = %v, want ErrNotFound", got)
	}
}
