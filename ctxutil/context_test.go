package ctxutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetUserID(ctx))
	assert.Equal(t, "u1", GetUserID(SetUserID(ctx, "u1")))
}

func TestEnsureTraceID(t *testing.T) {
	ctx, id := EnsureTraceID(context.Background())
	assert.NotEmpty(t, id)
	assert.Equal(t, id, GetTraceID(ctx))

	same, again := EnsureTraceID(ctx)
	assert.Equal(t, id, again)
	assert.Equal(t, id, GetTraceID(same))

	assert.Equal(t, "t1", GetTraceID(SetTraceID(context.Background(), "t1")))
}

func TestWithAsyncContextKeepsValuesNotCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(SetUserID(context.Background(), "u1"))
	ctx, done := WithAsyncContext(parent, 0)
	defer done()
	cancel()

	assert.NoError(t, ctx.Err())
	assert.Equal(t, "u1", GetUserID(ctx))
	_, ok := ctx.Deadline()
	assert.True(t, ok)
}
