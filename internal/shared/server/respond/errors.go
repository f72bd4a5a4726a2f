package respond

import (
	"github.com/gin-gonic/gin"

	"docsum-backend/internal/shared/telemetry"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if documentID := c.GetString("documentId"); documentID != "" {
		fields["document_id"] = documentID
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// Internal logs cause and responds with a generic 500 that carries no internal detail.
func Internal(c *gin.Context, cause error) {
	fields := map[string]any{
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
		"error":      cause,
	}
	if documentID := c.GetString("documentId"); documentID != "" {
		fields["document_id"] = documentID
	}
	telemetry.Error("http.internal", fields)
	Error(c, 500, "internal_error", "internal server error", nil)
}
