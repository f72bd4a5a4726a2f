package documents

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `id, file_name, media_type, file_size_bytes, storage_key, summary, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var summary sql.NullString
	if err := row.Scan(
		&doc.ID,
		&doc.FileName,
		&doc.MediaType,
		&doc.FileSizeBytes,
		&doc.StorageKey,
		&summary,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	); err != nil {
		return Document{}, err
	}
	if summary.Valid {
		s := summary.String
		doc.Summary = &s
	}
	return doc, nil
}

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    file_name,
    media_type,
    file_size_bytes,
    storage_key,
    summary,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	var summary sql.NullString
	if doc.Summary != nil {
		summary = sql.NullString{String: *doc.Summary, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.FileName,
		doc.MediaType,
		doc.FileSizeBytes,
		doc.StorageKey,
		summary,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return err
}

// GetByID fetches a document by id.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Document, error) {
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE id = $1
LIMIT 1`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// List lists all documents ordered newest-first.
func (r *PGRepo) List(ctx context.Context) ([]Document, error) {
	const query = `
SELECT ` + documentColumns + `
FROM documents
ORDER BY created_at DESC, id DESC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// UpdateSummary overwrites the summary and returns the updated row.
func (r *PGRepo) UpdateSummary(ctx context.Context, id, summary string, updatedAt time.Time) (Document, error) {
	const query = `
UPDATE documents
SET summary = $1, updated_at = $2
WHERE id = $3
RETURNING ` + documentColumns
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, summary, updatedAt, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// Delete removes the record.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM documents WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
