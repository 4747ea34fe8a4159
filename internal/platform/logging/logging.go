// Package logging builds the service's slog logger and carries a
// request-scoped logger through context.
//
//	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
//	ctx = logging.WithLogger(ctx, logger.With("request_id", id))
//	logging.FromContext(ctx).InfoContext(ctx, "todo created", slog.String("id", id))
//
// Errors are logged with slog.Any("error", err) so the whole chain is kept.
// Attributes that look like credentials are masked before they reach the
// writer; see redact_handler.go.
package logging

import (
	"context"
	"io"
	"log/slog"
)

type loggerKey struct{}

// handlers maps a log.format value onto its slog handler constructor.
// Unknown formats fall back to JSON.
var handlers = map[string]func(io.Writer, *slog.HandlerOptions) slog.Handler{
	"json": func(w io.Writer, o *slog.HandlerOptions) slog.Handler { return slog.NewJSONHandler(w, o) },
	"text": func(w io.Writer, o *slog.HandlerOptions) slog.Handler { return slog.NewTextHandler(w, o) },
}

// New returns a logger writing to w. level accepts the names slog itself
// understands ("debug", "INFO", "warn+2"); anything else means info. Debug
// logging also records the call site.
func New(level, format string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	build, ok := handlers[format]
	if !ok {
		build = handlers["json"]
	}

	return slog.New(build(w, &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   lvl <= slog.LevelDebug,
		ReplaceAttr: newRedactAttr(),
	}))
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stored by WithLogger, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
