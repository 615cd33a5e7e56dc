package ctxutil

import (
	"context"

	"pizzeria/api/response"
	"pizzeria/infrastructure/persistence"
	"pizzeria/pkg/tracing"

	"github.com/gin-gonic/gin"
)

// WithRequestID returns the request context carrying the gin request id.
func WithRequestID(c *gin.Context) context.Context {
	return persistence.ContextWithRequestID(c.Request.Context(), response.GetRequestID(c))
}

// TraceID 返回当前请求所在 span 的 trace id
func TraceID(c *gin.Context) string {
	return tracing.TraceID(c.Request.Context())
}
