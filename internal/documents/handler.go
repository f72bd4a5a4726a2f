package documents

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"docsum-backend/internal/extract"
	"docsum-backend/internal/shared/server/middleware"
	"docsum-backend/internal/shared/server/respond"
	"docsum-backend/internal/shared/telemetry"
)

const defaultMaxUploadSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc           *Service
	MaxUploadSize int64
}

// NewHandler constructs a Handler. A non-positive maxUploadSize selects the 10MB default.
func NewHandler(svc *Service, maxUploadSize int64) *Handler {
	if maxUploadSize <= 0 {
		maxUploadSize = defaultMaxUploadSize
	}
	return &Handler{Svc: svc, MaxUploadSize: maxUploadSize}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents", h.upload)
	rg.GET("/documents", h.list)
	rg.GET("/documents/:id", h.get)
	rg.PATCH("/documents/:id", h.updateSummary)
	rg.DELETE("/documents/:id", h.delete)
	rg.GET("/documents/:id/content", h.content)
	rg.GET("/documents/:id/text", h.text)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "file exceeds the upload limit", gin.H{
				"limitBytes": h.MaxUploadSize,
			})
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	mediaType := strings.TrimSpace(c.PostForm("mediaType"))
	if mediaType == "" {
		mediaType = fileHeader.Header.Get("Content-Type")
	}
	if !extract.Supported(mediaType) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unsupported media type", gin.H{
			"supported": extract.SupportedMediaTypes(),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	result, err := h.Svc.Ingest(c.Request.Context(), IngestInput{
		FileName:  fileHeader.Filename,
		MediaType: mediaType,
		Body:      file,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	c.Set(middleware.DocumentIDKey, result.Document.ID)
	respond.JSON(c, http.StatusCreated, ToResponse(result.Document))
}

func (h *Handler) list(c *gin.Context) {
	docs, err := h.Svc.List(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}

	resp := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		resp = append(resp, ToResponse(doc))
	}
	respond.OK(c, resp)
}

func (h *Handler) get(c *gin.Context) {
	id := documentID(c)
	doc, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	respond.OK(c, ToResponse(doc))
}

func (h *Handler) updateSummary(c *gin.Context) {
	id := documentID(c)

	var req updateSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.Summary == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "summary is required", nil)
		return
	}

	doc, err := h.Svc.UpdateSummary(c.Request.Context(), id, *req.Summary)
	if err != nil {
		RespondError(c, err)
		return
	}
	respond.OK(c, ToResponse(doc))
}

func (h *Handler) delete(c *gin.Context) {
	id := documentID(c)
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, err)
		return
	}
	respond.NoContent(c)
}

func (h *Handler) content(c *gin.Context) {
	id := documentID(c)

	disposition := DispositionInline
	if queryBool(c, "download") || queryBool(c, "attachment") {
		disposition = DispositionAttachment
	}

	blob, err := h.Svc.Fetch(c.Request.Context(), id, disposition)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.Header("Content-Disposition", blob.ContentDisposition())
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("Cache-Control", "private, no-store")
	c.Data(http.StatusOK, blob.Document.MediaType, blob.Data)
}

func (h *Handler) text(c *gin.Context) {
	id := documentID(c)
	doc, text, err := h.Svc.ExtractText(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	respond.OK(c, TextResponse{DocumentID: doc.ID, Text: text})
}

func documentID(c *gin.Context) string {
	id := strings.TrimSpace(c.Param("id"))
	c.Set(middleware.DocumentIDKey, id)
	return id
}

func queryBool(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}

// RespondError maps document, storage and extraction errors to HTTP responses.
// Unknown errors are logged in full and reported as a generic internal error.
func RespondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, extract.ErrUnsupportedMediaType):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	case errors.Is(err, extract.ErrExtractionFailed):
		respond.Error(c, http.StatusUnprocessableEntity, "extraction_failed", err.Error(), nil)
	case errors.Is(err, ErrStorageWrite):
		logCause(c, err)
		respond.Error(c, http.StatusServiceUnavailable, "storage_write_failed", "failed to store document", nil)
	case errors.Is(err, ErrStorageRead):
		logCause(c, err)
		respond.Error(c, http.StatusServiceUnavailable, "storage_read_failed", "failed to read document content", nil)
	case errors.Is(err, ErrMetadataWrite):
		logCause(c, err)
		respond.Error(c, http.StatusServiceUnavailable, "metadata_write_failed", "failed to save document metadata", nil)
	default:
		respond.Internal(c, err)
	}
}

func logCause(c *gin.Context, err error) {
	telemetry.Error("documents.backend_failure", map[string]any{
		"request_id":  middleware.RequestIDFromContext(c),
		"document_id": c.GetString(middleware.DocumentIDKey),
		"error":       err,
	})
}
