package common

import "context"

// Context keys for storing values in context
type contextKey string

const contextKeyRequestID contextKey = "request_id"

// WithRequestID adds a correlation id to the context; the remote client
// reuses it in request logs so one document's calls group together.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID, requestID)
}

// RequestIDFromContext extracts the correlation id, or "" when unset.
func RequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(contextKeyRequestID).(string); ok {
		return requestID
	}
	return ""
}
