package middleware

import (
	"Clipper/internal/pkg/logger"
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	traceHeader     = "X-Trace-ID"
	maxTraceIDBytes = 64
)

// TraceMiddleware 沿用上游 trace id，缺失或过长时重新生成
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(traceHeader)
		if traceID == "" || len(traceID) > maxTraceIDBytes {
			traceID = uuid.NewString()
		}

		c.Set(logger.TraceIDKey, traceID)
		ctx := context.WithValue(c.Request.Context(), logger.TraceIDKey, traceID)
		c.Request = c.Request.WithContext(ctx)

		c.Header(traceHeader, traceID)
		c.Next()
	}
}
