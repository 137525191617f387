package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ncobase/socialhub/consts"
	"github.com/ncobase/socialhub/ctxutil"
	"github.com/ncobase/socialhub/logging/logger"
	"github.com/ncobase/socialhub/logging/observes"
	"github.com/ncobase/socialhub/net/resp"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// TraceHeader carries the request trace id in both directions.
const TraceHeader = consts.TraceKey

// Trace puts a trace id into the request context, reusing the caller's.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if id := c.GetHeader(TraceHeader); id != "" {
			ctx = ctxutil.SetTraceID(ctx, id)
		}
		ctx, id := ctxutil.EnsureTraceID(ctx)
		c.Request = c.Request.WithContext(ctx)
		c.Header(TraceHeader, id)
		c.Next()
	}
}

// Tracing opens a server span per request. Without a configured exporter
// the global provider is a no-op.
func Tracing() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		ctx, span := observes.StartSpan(c.Request.Context(), c.Request.Method+" "+route,
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
			attribute.String("trace_id", ctxutil.GetTraceID(c.Request.Context())),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}

// AccessLog logs one entry per request.
func AccessLog(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		ctx := c.Request.Context()
		fields := []any{
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		}
		if id := observes.SpanTraceID(ctx); id != "" {
			fields = append(fields, "otel_trace_id", id)
		}
		log.Info(ctx, "HTTP request", fields...)
	}
}

// Recovery turns a panic into a 500 and reports it.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if v := recover(); v != nil {
				observes.CapturePanic(v)
				log.Error(c.Request.Context(), "Panic recovered", "error", fmt.Sprint(v), "path", c.Request.URL.Path)
				if !c.Writer.Written() {
					resp.Fail(c.Writer, resp.InternalServer("internal server error"))
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}

// BodyLimit caps request bodies at limit bytes. A non-positive limit
// disables the cap.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
