package documents

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"docgate-backend/internal/identity"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &PGRepo{DB: db}, mock
}

func documentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "owner_id", "file_name", "file_type", "file_size_bytes",
		"storage_url", "storage_id", "status", "uploaded_at",
	})
}

func TestPGCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectExec("INSERT INTO documents").
		WithArgs("doc-1", "owner-1", "report.pdf", "application/pdf", int64(2048),
			"https://store.local/documents/abc", "documents/abc", "pending", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), Document{
		ID:         "doc-1",
		OwnerID:    identity.ID("owner-1"),
		FileName:   "report.pdf",
		FileType:   "application/pdf",
		SizeBytes:  2048,
		StorageURL: "https://store.local/documents/abc",
		StorageID:  "documents/abc",
		Status:     StatusPending,
		UploadedAt: now,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGListByOwner(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT id, owner_id, file_name").
		WithArgs("owner-1").
		WillReturnRows(documentRows().
			AddRow("doc-2", "owner-1", "b.pdf", "application/pdf", int64(10), "u2", "s2", "approved", now).
			AddRow("doc-1", "owner-1", "a.png", "image/png", int64(5), "u1", "s1", "pending", now.Add(-time.Hour)))

	docs, err := repo.ListByOwner(context.Background(), identity.ID("owner-1"))
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].Status != StatusApproved || docs[1].FileType != "image/png" {
		t.Fatalf("unexpected rows: %+v", docs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGUpdateStatusReturnsRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery("UPDATE documents").
		WithArgs("doc-1", "approved").
		WillReturnRows(documentRows().
			AddRow("doc-1", "owner-1", "a.pdf", "application/pdf", int64(5), "u1", "s1", "approved", now))

	doc, err := repo.UpdateStatus(context.Background(), "doc-1", StatusApproved)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if doc.Status != StatusApproved {
		t.Fatalf("unexpected status: %s", doc.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGUpdateStatusNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("UPDATE documents").
		WithArgs("ghost", "approved").
		WillReturnRows(documentRows())

	_, err := repo.UpdateStatus(context.Background(), "ghost", StatusApproved)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGDeleteNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM documents").
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGListAllWithOwner(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "owner_id", "file_name", "file_type", "file_size_bytes",
		"storage_url", "storage_id", "status", "uploaded_at", "email", "full_name", "role",
	}).AddRow("doc-1", "owner-1", "a.pdf", "application/pdf", int64(5),
		"u1", "s1", "pending", now, "alice@example.com", nil, "customer")

	mock.ExpectQuery("SELECT d.id, d.owner_id").WillReturnRows(rows)

	out, err := repo.ListAllWithOwner(context.Background())
	if err != nil {
		t.Fatalf("ListAllWithOwner: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 row, got %d", len(out))
	}
	if out[0].OwnerEmail != "alice@example.com" || out[0].OwnerName != "" {
		t.Fatalf("unexpected owner details: %+v", out[0])
	}
	if out[0].OwnerRole != identity.RoleCustomer {
		t.Fatalf("expected customer owner role, got %q", out[0].OwnerRole)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
