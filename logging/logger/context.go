package logger

import (
	"context"

	"github.com/ncobase/socialhub/ctxutil"

	"github.com/sirupsen/logrus"
)

const (
	traceKey = "trace_id"
	userKey  = "user_id"
)

// fieldsFromContext collects request scoped fields.
func fieldsFromContext(ctx context.Context) logrus.Fields {
	fields := logrus.Fields{}
	if ctx == nil {
		return fields
	}
	if traceID := ctxutil.GetTraceID(ctx); traceID != "" {
		fields[traceKey] = traceID
	}
	if uid := ctxutil.GetUserID(ctx); uid != "" {
		fields[userKey] = uid
	}
	return fields
}
