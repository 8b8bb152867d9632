package middleware

import "context"

// Context keys for request-scoped values set by middleware.
type (
	contextKeyRequestID struct{}
	contextKeyUserID    struct{}
	contextKeyRole      struct{}
)

var (
	ContextKeyRequestID = contextKeyRequestID{}
	ContextKeyUserID    = contextKeyUserID{}
	ContextKeyRole      = contextKeyRole{}
)

// GetRequestID retrieves the correlation ID injected by RequestID.
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return v
	}
	return ""
}

// GetUserID retrieves the authenticated subject ID from the context.
func GetUserID(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyUserID).(string); ok {
		return v
	}
	return ""
}

// GetRole retrieves the authenticated role ("passenger" or "driver").
func GetRole(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyRole).(string); ok {
		return v
	}
	return ""
}
