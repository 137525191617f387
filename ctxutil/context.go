package ctxutil

import (
	"context"

	"github.com/ncobase/socialhub/consts"

	"github.com/google/uuid"
)

type ctxKey string

const (
	userIDKey  ctxKey = consts.UserKey
	traceIDKey ctxKey = "trace_id"
)

// getValue retrieves a string value from the context.
func getValue(ctx context.Context, key ctxKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// setValue sets a value to the context.
func setValue(ctx context.Context, key ctxKey, val string) context.Context {
	return context.WithValue(ctx, key, val)
}

// SetUserID sets user id to context.Context.
func SetUserID(ctx context.Context, uid string) context.Context {
	return setValue(ctx, userIDKey, uid)
}

// GetUserID gets user id from context.Context.
func GetUserID(ctx context.Context) string {
	return getValue(ctx, userIDKey)
}

// GetTraceID gets trace id from context.Context.
func GetTraceID(ctx context.Context) string {
	return getValue(ctx, traceIDKey)
}

// SetTraceID sets trace id to context.Context.
func SetTraceID(ctx context.Context, traceID string) context.Context {
	return setValue(ctx, traceIDKey, traceID)
}

// EnsureTraceID ensures that a trace ID exists in the context.
func EnsureTraceID(ctx context.Context) (context.Context, string) {
	if traceID := GetTraceID(ctx); traceID != "" {
		return ctx, traceID
	}
	traceID := uuid.NewString()
	return SetTraceID(ctx, traceID), traceID
}
