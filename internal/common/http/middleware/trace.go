package middleware

import (
	"context"
	"strings"

	"cfanalyzer/pkg/utils/contextkey"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	TraceIDHeader   = "X-Trace-Id"
	RequestIDHeader = "X-Request-Id"
	SessionIDHeader = "X-Session-Id"

	TraceIDContextKey   = "trace_id"
	RequestIDContextKey = "request_id"
	SessionIDContextKey = "session_id"

	maxSessionIDLen = 128
)

// TraceContextMiddleware ensures trace and request ids are in context and
// response headers. A client session id is carried along when present.
func TraceContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := strings.TrimSpace(c.GetHeader(TraceIDHeader))
		if traceID == "" {
			traceID = uuid.NewString()
		}
		c.Set(TraceIDContextKey, traceID)
		ctx := context.WithValue(c.Request.Context(), contextkey.TraceID, traceID)
		c.Writer.Header().Set(TraceIDHeader, traceID)

		requestID := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDContextKey, requestID)
		ctx = context.WithValue(ctx, contextkey.RequestID, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)

		if sessionID := strings.TrimSpace(c.GetHeader(SessionIDHeader)); sessionID != "" && len(sessionID) <= maxSessionIDLen {
			c.Set(SessionIDContextKey, sessionID)
			ctx = context.WithValue(ctx, contextkey.SessionID, sessionID)
			c.Writer.Header().Set(SessionIDHeader, sessionID)
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// SessionID returns the client session id set by TraceContextMiddleware.
func SessionID(c *gin.Context) string {
	return c.GetString(SessionIDContextKey)
}
