package documents

import "time"

// Document is the metadata record for one uploaded file.
// StorageKey locates the blob and is never exposed to clients.
type Document struct {
	ID            string
	FileName      string
	MediaType     string
	FileSizeBytes int64
	StorageKey    string
	Summary       *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
