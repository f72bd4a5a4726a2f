package documents

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var pgColumns = []string{"id", "file_name", "media_type", "file_size_bytes", "storage_key", "summary", "created_at", "updated_at"}

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	doc := Document{
		ID:            "6f1c1f0e-2b8a-4d7e-9d5a-1b1b1b1b1b1b",
		FileName:      "a.txt",
		MediaType:     "text/plain",
		FileSizeBytes: 11,
		StorageKey:    "uploads/1-a.txt",
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(doc.ID, doc.FileName, doc.MediaType, doc.FileSizeBytes, doc.StorageKey, nil, now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDScansNullableSummary(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = \\$1").
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows(pgColumns).
			AddRow("doc-1", "a.txt", "text/plain", int64(3), "uploads/k.txt", nil, now, now))

	doc, err := repo.GetByID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if doc.Summary != nil {
		t.Fatalf("expected nil summary, got %q", *doc.Summary)
	}
	if doc.StorageKey != "uploads/k.txt" {
		t.Fatalf("unexpected storage key %q", doc.StorageKey)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT (.+) FROM documents").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoListOrdersNewestFirst(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	summary := "short"

	mock.ExpectQuery("SELECT (.+) FROM documents ORDER BY created_at DESC").
		WillReturnRows(sqlmock.NewRows(pgColumns).
			AddRow("doc-2", "b.pdf", "application/pdf", int64(9), "uploads/2.pdf", summary, now, now).
			AddRow("doc-1", "a.txt", "text/plain", int64(3), "uploads/1.txt", nil, now.Add(-time.Hour), now))

	docs, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 2 || docs[0].ID != "doc-2" {
		t.Fatalf("unexpected docs: %+v", docs)
	}
	if docs[0].Summary == nil || *docs[0].Summary != summary {
		t.Fatalf("expected summary %q", summary)
	}
}

func TestPGRepoUpdateSummary(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery("UPDATE documents SET summary = \\$1, updated_at = \\$2 WHERE id = \\$3 RETURNING").
		WithArgs("X", now, "doc-1").
		WillReturnRows(sqlmock.NewRows(pgColumns).
			AddRow("doc-1", "a.txt", "text/plain", int64(3), "uploads/1.txt", "X", now, now))

	doc, err := repo.UpdateSummary(context.Background(), "doc-1", "X", now)
	if err != nil {
		t.Fatalf("UpdateSummary: %v", err)
	}
	if doc.Summary == nil || *doc.Summary != "X" {
		t.Fatalf("expected summary X")
	}

	mock.ExpectQuery("UPDATE documents").
		WithArgs("X", now, "missing").
		WillReturnError(sql.ErrNoRows)
	if _, err := repo.UpdateSummary(context.Background(), "missing", "X", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoDelete(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM documents WHERE id = \\$1").
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM documents WHERE id = \\$1").
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "doc-1"); err != nil {
		t.Fatalf("first Delete: %v", err)
	}
	if err := repo.Delete(context.Background(), "doc-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
