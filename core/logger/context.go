package logger

import (
	"context"
	"log/slog"
)

type runIDKey struct{}

// WithRunID stores the run identifier in the context.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunIDFromContext returns the run identifier stored by WithRunID.
func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// RunIDExtractor is a ContextExtractor for the run identifier.
func RunIDExtractor(ctx context.Context) (slog.Attr, bool) {
	id := RunIDFromContext(ctx)
	if id == "" {
		return slog.Attr{}, false
	}
	return RunID(id), true
}
