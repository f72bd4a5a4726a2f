package documents

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo used in dev and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Document
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Document),
	}
}

// Create stores a new document. Ids must be unique.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.data[doc.ID]; exists {
		return fmt.Errorf("document %s already exists", doc.ID)
	}
	r.data[doc.ID] = cloneDocument(doc)
	return nil
}

// GetByID returns a document by id.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.data[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return cloneDocument(doc), nil
}

// List returns all documents, newest first.
func (r *MemoryRepo) List(ctx context.Context) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	docs := make([]Document, 0, len(r.data))
	for _, doc := range r.data {
		docs = append(docs, cloneDocument(doc))
	}
	r.mu.RUnlock()

	sort.Slice(docs, func(i, j int) bool {
		if docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].ID > docs[j].ID
		}
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	return docs, nil
}

// UpdateSummary overwrites the summary unconditionally.
func (r *MemoryRepo) UpdateSummary(ctx context.Context, id, summary string, updatedAt time.Time) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.data[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	doc.Summary = &summary
	doc.UpdatedAt = updatedAt
	r.data[id] = doc
	return cloneDocument(doc), nil
}

// Delete removes the record.
func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

func cloneDocument(doc Document) Document {
	if doc.Summary != nil {
		s := *doc.Summary
		doc.Summary = &s
	}
	return doc
}

var _ Repo = (*MemoryRepo)(nil)
