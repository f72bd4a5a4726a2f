package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"docsum-backend/internal/shared/server/respond"
	"docsum-backend/internal/shared/telemetry"
)

// Recovery recovers from panics and returns a standardized error response.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				documentID, _ := c.Get(DocumentIDKey)
				telemetry.Error("panic", map[string]any{
					"request_id":  RequestIDFromContext(c),
					"document_id": documentID,
					"error":       rec,
					"stack":       string(debug.Stack()),
					"path":        c.Request.URL.Path,
					"method":      c.Request.Method,
				})
				respond.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected server error", nil)
				c.Abort()
			}
		}()
		c.Next()
	}
}
