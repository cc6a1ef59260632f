package logging

import (
	"context"

	"go.uber.org/zap"
)

type requestCtxKey struct{}

// WithRequestID returns a copy of ctx carrying the request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestCtxKey{}, id)
}

// RequestIDFromContext returns the request id, or "" if none is set.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestCtxKey{}).(string); ok {
		return id
	}
	return ""
}

// ContextFields extracts correlation data from context.
func ContextFields(ctx context.Context) []zap.Field {
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		return []zap.Field{zap.String("request_id", requestID)}
	}
	return nil
}
