package logger

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// With derives a request-scoped logger carrying the given fields and
// stores it in the returned context. Fields accumulate across calls.
func With(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, ctxKey{}, From(ctx).With(fields...))
}

// From extracts the request-scoped logger, falling back to the process
// logger when the context carries none.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return LoggerWrapper()
}
