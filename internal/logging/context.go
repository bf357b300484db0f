package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldSessionID is the standardized structured logging key for browse session identifiers.
	FieldSessionID = "session_id"
	// FieldListKey is the standardized structured logging key for paginated list keys.
	FieldListKey = "list_key"
	// FieldTitle is the standardized structured logging key for movie titles.
	FieldTitle = "title"
	// FieldAttempt is the standardized structured logging key for fetch attempt counters.
	FieldAttempt = "attempt"
)

type contextKey int

const (
	sessionIDKey contextKey = iota
	listKeyKey
)

// WithSessionID stores a browse session identifier on the context.
func WithSessionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey, id)
}

// WithListKey stores the active list key on the context.
func WithListKey(ctx context.Context, key string) context.Context {
	if key == "" {
		return ctx
	}
	return context.WithValue(ctx, listKeyKey, key)
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := ctx.Value(sessionIDKey).(string); ok && id != "" {
		fields = append(fields, slog.String(FieldSessionID, id))
	}
	if key, ok := ctx.Value(listKeyKey).(string); ok && key != "" {
		fields = append(fields, slog.String(FieldListKey, key))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from
// the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}

type noopHandler struct{}

func (noopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (noopHandler) Handle(context.Context, slog.Record) error { return nil }
func (noopHandler) WithAttrs([]slog.Attr) slog.Handler        { return noopHandler{} }
func (noopHandler) WithGroup(string) slog.Handler             { return noopHandler{} }
