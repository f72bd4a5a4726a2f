package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"docsum-backend/internal/shared/telemetry"
)

// DocumentIDKey is set by handlers so the request log can carry the document id.
const DocumentIDKey = "documentId"

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		documentID, _ := c.Get(DocumentIDKey)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		telemetry.Info("request.complete", map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       route,
			"status":      c.Writer.Status(),
			"bytes":       c.Writer.Size(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"document_id": documentID,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})
	}
}
