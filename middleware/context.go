package middleware

import (
	"context"

	"github.com/upb/logbridge/observability"
)

// Context key type to avoid collisions
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"

	// LoggerKey is the context key for the request logger
	LoggerKey contextKey = "logger"
)

// GetRequestIDFromContext retrieves the request ID from context
func GetRequestIDFromContext(ctx context.Context) string {
	if val := ctx.Value(RequestIDKey); val != nil {
		if requestID, ok := val.(string); ok {
			return requestID
		}
	}
	return ""
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// LoggerFromContext retrieves the request logger from context. Without one it
// returns an unbound logger, which drops every call.
func LoggerFromContext(ctx context.Context) *observability.ContextLogger {
	if val := ctx.Value(LoggerKey); val != nil {
		if logger, ok := val.(*observability.ContextLogger); ok {
			return logger
		}
	}
	return observability.New(nil, nil)
}

// WithLogger adds a request logger to the context
func WithLogger(ctx context.Context, logger *observability.ContextLogger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}
