package documents

import (
	"context"
	"time"
)

// Repo defines persistence operations for document metadata.
// Lookups of a missing id return ErrNotFound.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, id string) (Document, error)
	List(ctx context.Context) ([]Document, error)
	UpdateSummary(ctx context.Context, id, summary string, updatedAt time.Time) (Document, error)
	Delete(ctx context.Context, id string) error
}
