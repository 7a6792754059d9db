// Package ctxlog carries a *slog.Logger through context.Context so that the
// loaders, the scheduler and the publisher log with the logger the app
// configured, without threading it through every signature.
package ctxlog

import (
	"context"
	"io"
	"log/slog"
)

// key is unexported to avoid collisions with other packages' context keys.
type key struct{}

// WithLogger returns a copy of ctx that carries logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, key{}, logger)
}

// FromContext returns the logger stored in ctx, or slog.Default() if there
// is none.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(key{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// Discard returns a context whose logger drops every record. Tests use it to
// keep output quiet.
func Discard(ctx context.Context) context.Context {
	return WithLogger(ctx, slog.New(slog.NewTextHandler(io.Discard, nil)))
}
