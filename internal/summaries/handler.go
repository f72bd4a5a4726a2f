package summaries

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docsum-backend/internal/documents"
	"docsum-backend/internal/llm"
	"docsum-backend/internal/shared/server/middleware"
	"docsum-backend/internal/shared/server/respond"
)

// Handler exposes summary generation over HTTP.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// GenerateResponse is returned after a summary is generated.
type GenerateResponse struct {
	Summary  string                     `json:"summary"`
	Source   Source                     `json:"source"`
	Document documents.DocumentResponse `json:"document"`
}

// RegisterRoutes attaches summary routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/:id/summary", h.generate)
}

func (h *Handler) generate(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	c.Set(middleware.DocumentIDKey, id)

	res, err := h.Svc.Generate(c.Request.Context(), id)
	if err != nil {
		var apiErr *llm.APIError
		switch {
		case errors.Is(err, ErrNoTextContent):
			respond.Error(c, http.StatusUnprocessableEntity, "no_text_content", "No text content found in document", nil)
		case errors.Is(err, ErrMisconfiguredCredential):
			respond.Error(c, http.StatusServiceUnavailable, "misconfigured_credential", "summarizer credential is not configured", nil)
		case errors.Is(err, ErrSummarizationAPI):
			details := gin.H{}
			if errors.As(err, &apiErr) {
				details["upstreamStatus"] = apiErr.Status
				details["upstreamMessage"] = apiErr.Message
			}
			respond.Error(c, http.StatusBadGateway, "summarization_api_error", "summarization service request failed", details)
		default:
			documents.RespondError(c, err)
		}
		return
	}

	respond.OK(c, GenerateResponse{
		Summary:  res.Summary,
		Source:   res.Source,
		Document: documents.ToResponse(res.Document),
	})
}
