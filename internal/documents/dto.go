package documents

import "time"

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	ID            string    `json:"id"`
	FileName      string    `json:"fileName"`
	MediaType     string    `json:"mediaType"`
	FileSizeBytes int64     `json:"fileSizeBytes"`
	Summary       *string   `json:"summary"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TextResponse carries extracted text.
type TextResponse struct {
	DocumentID string `json:"documentId"`
	Text       string `json:"text"`
}

type updateSummaryRequest struct {
	Summary *string `json:"summary"`
}

// ToResponse maps a Document to its JSON shape.
func ToResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		ID:            doc.ID,
		FileName:      doc.FileName,
		MediaType:     doc.MediaType,
		FileSizeBytes: doc.FileSizeBytes,
		Summary:       doc.Summary,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}
