package acl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen11/todo-backend/internal/domain"
)

// call is one request to the downstream todo API.
type call struct {
	method string
	path   string
	// want is the success status; a 200 also satisfies a 204.
	want int
	in   any
	out  any
}

// exchange sends op through the resilient client and decodes the answer into
// op.out. Status failures become domain errors through TranslateHTTPError.
// A transport failure is domain.ErrUnavailable unless the caller's own
// context ended it.
func (c *TodoClient) exchange(ctx context.Context, op call) error {
	var body io.Reader = http.NoBody
	if op.in != nil {
		b, err := json.Marshal(op.in)
		if err != nil {
			return fmt.Errorf("encoding %s %s body: %w", op.method, op.path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, op.method, c.client.BaseURL()+op.path, body)
	if err != nil {
		return fmt.Errorf("building %s %s: %w", op.method, op.path, err)
	}
	if op.in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(ctx, req)
	if resp != nil {
		defer func() { _ = resp.Body.Close() }()
	}

	switch {
	case resp != nil && !accepts(op.want, resp.StatusCode):
		c.logger.Log(ctx, missLevel(resp.StatusCode), "todo store rejected request",
			slog.String("method", op.method),
			slog.String("path", op.path),
			slog.Int("status", resp.StatusCode),
		)
		return TranslateHTTPError(resp)
	case err != nil:
		c.logger.ErrorContext(ctx, "todo store request failed",
			slog.String("method", op.method),
			slog.String("path", op.path),
			slog.Any("error", err),
		)
		if ctx.Err() != nil {
			return fmt.Errorf("%s %s: %w", op.method, op.path, err)
		}
		return fmt.Errorf("%s %s: %w: %w", op.method, op.path, domain.ErrUnavailable, err)
	}

	if op.out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(op.out); err != nil {
		return fmt.Errorf("decoding %s %s answer: %w", op.method, op.path, err)
	}
	return nil
}

func accepts(want, got int) bool {
	return got == want || (want == http.StatusNoContent && got == http.StatusOK)
}

// missLevel keeps expected 404s out of warning logs.
func missLevel(status int) slog.Level {
	switch {
	case status == http.StatusNotFound:
		return slog.LevelDebug
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
