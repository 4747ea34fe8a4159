package httpclient

import (
	"context"
	"net/http"
)

type (
	requestIDKey     struct{}
	correlationIDKey struct{}
)

// forwardedIDs are copied from the context onto every outbound request so
// the downstream logs line up with ours.
var forwardedIDs = []struct {
	key    any
	header string
}{
	{requestIDKey{}, "X-Request-ID"},
	{correlationIDKey{}, "X-Correlation-ID"},
}

// WithRequestID marks ctx so Do sends id as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// WithCorrelationID marks ctx so Do sends id as X-Correlation-ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

func forwardIDs(ctx context.Context, h http.Header) {
	for _, f := range forwardedIDs {
		if id, _ := ctx.Value(f.key).(string); id != "" {
			h.Set(f.header, id)
		}
	}
}
