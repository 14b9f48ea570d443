package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Trace ID plumbing. An incoming X-Trace-ID is honored so callers can
// correlate their own logs with ours; otherwise a fresh UUID is minted. The
// ID is echoed back in the response header either way.
const (
	TraceIDKey    = "trace_id"
	TraceIDHeader = "X-Trace-ID"
)

func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(TraceIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(TraceIDKey, id)
		c.Header(TraceIDHeader, id)
		c.Next()
	}
}

// GetTraceID returns the request's trace ID, or "" outside the middleware.
func GetTraceID(c *gin.Context) string {
	return c.GetString(TraceIDKey)
}
