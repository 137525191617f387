package ctxutil

import (
	"context"
	"time"
)

// DefaultAsyncTimeout bounds work that outlives the request, such as event
// publishing after a commit.
const DefaultAsyncTimeout = 5 * time.Second

// WithAsyncContext derives a context that keeps the parent's values (trace
// and user ids) but is not cancelled with the request.
func WithAsyncContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout == 0 {
		timeout = DefaultAsyncTimeout
	}
	return context.WithTimeout(context.WithoutCancel(parent), timeout)
}
