package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"docsum-backend/internal/extract"
	"docsum-backend/internal/shared/metrics"
	"docsum-backend/internal/shared/storage/object"
	"docsum-backend/internal/shared/telemetry"
	"docsum-backend/internal/shared/util"
)

// Service contains business logic for documents. Fetch is the only path that
// reads blob content; extraction and summarization go through it.
type Service struct {
	Store object.ObjectStore
	Repo  Repo
	Now   func() time.Time
}

// IngestInput is one uploaded file as declared by the client.
type IngestInput struct {
	FileName  string
	MediaType string
	Body      io.Reader
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Ingest writes the blob, then the metadata record. If the record write fails
// the blob is deleted again; a failure of that delete is logged and counted but
// never returned, the caller sees ErrMetadataWrite either way.
func (s *Service) Ingest(ctx context.Context, in IngestInput) (IngestResult, error) {
	fileName, err := util.CleanFileName(in.FileName)
	if err != nil {
		return IngestResult{Outcome: OutcomeFailed}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}
	ex, err := extract.For(in.MediaType)
	if err != nil {
		return IngestResult{Outcome: OutcomeFailed}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if in.Body == nil {
		return IngestResult{Outcome: OutcomeFailed}, fmt.Errorf("%w: file body is required", ErrInvalidInput)
	}

	now := s.now()
	key := storageKey(now, fileName, ex.Extension())

	size, err := s.Store.Put(ctx, key, ex.MediaType(), in.Body)
	if err != nil {
		s.recordOutcome(OutcomeFailed)
		return IngestResult{Outcome: OutcomeFailed}, fmt.Errorf("%w: %w", ErrStorageWrite, err)
	}

	doc := Document{
		ID:            uuid.NewString(),
		FileName:      fileName,
		MediaType:     ex.MediaType(),
		FileSizeBytes: size,
		StorageKey:    key,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		result := s.compensate(ctx, key, err)
		s.recordOutcome(result.Outcome)
		return result, fmt.Errorf("%w: %w", ErrMetadataWrite, err)
	}

	s.recordOutcome(OutcomeCommitted)
	return IngestResult{Document: doc, Outcome: OutcomeCommitted}, nil
}

func (s *Service) compensate(ctx context.Context, key string, cause error) IngestResult {
	// The request context may already be canceled; the blob still has to go.
	delCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := s.Store.Delete(delCtx, key); err != nil {
		metrics.OrphanedBlobs.WithLabelValues("ingest").Inc()
		telemetry.Error("documents.ingest.compensation_failed", map[string]any{
			"storage_key": key,
			"cause":       cause,
			"error":       err,
		})
		return IngestResult{Outcome: OutcomeFailed, OrphanKey: key}
	}
	telemetry.Warn("documents.ingest.compensated", map[string]any{
		"storage_key": key,
		"cause":       cause,
	})
	return IngestResult{Outcome: OutcomeCompensated}
}

func (s *Service) recordOutcome(outcome Outcome) {
	metrics.IngestOutcomes.WithLabelValues(string(outcome)).Inc()
}

// storageKey builds a collision-free key: a nanosecond timestamp plus a random uuid.
func storageKey(now time.Time, fileName, fallbackExt string) string {
	ext := util.Extension(fileName)
	if ext == "" {
		ext = fallbackExt
	}
	return fmt.Sprintf("uploads/%d-%s.%s", now.UnixNano(), uuid.NewString(), ext)
}

// Get returns one document's metadata.
func (s *Service) Get(ctx context.Context, id string) (Document, error) {
	id, err := normalizeID(id)
	if err != nil {
		return Document{}, err
	}
	return s.Repo.GetByID(ctx, id)
}

// List returns all documents, newest first.
func (s *Service) List(ctx context.Context) ([]Document, error) {
	return s.Repo.List(ctx)
}

// Fetch looks up the record and downloads its blob.
func (s *Service) Fetch(ctx context.Context, id string, disposition Disposition) (Blob, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return Blob{}, err
	}

	rc, err := s.Store.Open(ctx, doc.StorageKey)
	if err != nil {
		return Blob{}, fmt.Errorf("%w: %w", ErrStorageRead, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return Blob{}, fmt.Errorf("%w: %w", ErrStorageRead, err)
	}
	if disposition != DispositionAttachment {
		disposition = DispositionInline
	}
	return Blob{Document: doc, Data: data, Disposition: disposition}, nil
}

// ExtractText fetches the blob and returns its plain text.
func (s *Service) ExtractText(ctx context.Context, id string) (Document, string, error) {
	blob, err := s.Fetch(ctx, id, DispositionInline)
	if err != nil {
		return Document{}, "", err
	}
	text, err := extract.Text(ctx, blob.Data, blob.Document.MediaType)
	if err != nil {
		return blob.Document, "", err
	}
	return blob.Document, text, nil
}

// UpdateSummary overwrites the summary with any string, including an empty one.
// NUL bytes are dropped since Postgres text columns cannot hold them.
func (s *Service) UpdateSummary(ctx context.Context, id, summary string) (Document, error) {
	id, err := normalizeID(id)
	if err != nil {
		return Document{}, err
	}
	summary = strings.ReplaceAll(summary, "\x00", "")
	doc, err := s.Repo.UpdateSummary(ctx, id, summary, s.now())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Document{}, err
		}
		return Document{}, fmt.Errorf("%w: %w", ErrMetadataWrite, err)
	}
	return doc, nil
}

// Delete removes the blob best-effort, then the record. A second delete of the
// same id returns ErrNotFound.
func (s *Service) Delete(ctx context.Context, id string) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.Store.Delete(ctx, doc.StorageKey); err != nil {
		metrics.OrphanedBlobs.WithLabelValues("delete").Inc()
		telemetry.Error("documents.delete.blob_failed", map[string]any{
			"document_id": doc.ID,
			"storage_key": doc.StorageKey,
			"error":       err,
		})
	}

	if err := s.Repo.Delete(ctx, doc.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrMetadataWrite, err)
	}
	return nil
}

// normalizeID rejects ids that cannot name a document so they never reach the store.
func normalizeID(id string) (string, error) {
	id = strings.TrimSpace(id)
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", ErrNotFound
	}
	return parsed.String(), nil
}
