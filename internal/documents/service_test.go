package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"testing"
	"time"

	"docgate-backend/internal/identity"
	"docgate-backend/internal/shared/storage/object"
)

type fakeStore struct {
	puts    int
	deletes []string
	putErr  error
	delErr  error
}

func (f *fakeStore) Put(ctx context.Context, folder, key, contentType string, r io.Reader) (object.PutResult, error) {
	if f.putErr != nil {
		return object.PutResult{}, f.putErr
	}
	f.puts++
	n, err := io.Copy(io.Discard, r)
	if err != nil {
		return object.PutResult{}, err
	}
	storageID := path.Join(folder, key)
	return object.PutResult{
		URL:       "https://store.local/" + storageID,
		StorageID: storageID,
		SizeBytes: n,
	}, nil
}

func (f *fakeStore) Delete(ctx context.Context, storageID string) error {
	f.deletes = append(f.deletes, storageID)
	return f.delErr
}

func newDocFixture() (*Service, *MemoryRepo, *fakeStore) {
	repo := NewMemoryRepo(nil)
	store := &fakeStore{}
	return NewService(repo, store), repo, store
}

func pdfInput(owner, name, content string) UploadInput {
	return UploadInput{
		OwnerID:     identity.ID(owner),
		FileName:    name,
		ContentType: "application/pdf",
		SizeBytes:   int64(len(content)),
		Reader:      strings.NewReader(content),
	}
}

func TestUploadStoresPendingDocument(t *testing.T) {
	svc, repo, store := newDocFixture()
	ctx := context.Background()

	doc, err := svc.Upload(ctx, pdfInput("owner-1", "report.pdf", "%PDF-1.4 content"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if doc.Status != StatusPending {
		t.Fatalf("expected pending status, got %s", doc.Status)
	}
	if doc.SizeBytes != int64(len("%PDF-1.4 content")) {
		t.Fatalf("unexpected size: %d", doc.SizeBytes)
	}
	if !strings.HasPrefix(doc.StorageID, "documents/") {
		t.Fatalf("unexpected storage id: %s", doc.StorageID)
	}
	if store.puts != 1 {
		t.Fatalf("expected one store put, got %d", store.puts)
	}

	stored, err := repo.GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetByID after upload: %v", err)
	}
	if stored.OwnerID != identity.ID("owner-1") {
		t.Fatalf("unexpected owner: %s", stored.OwnerID)
	}
}

func TestUploadNormalizesContentType(t *testing.T) {
	svc, _, _ := newDocFixture()

	in := pdfInput("owner-1", "scan.jpg", "jpeg-bytes")
	in.ContentType = "image/jpg; charset=binary"
	doc, err := svc.Upload(context.Background(), in)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if doc.FileType != "image/jpeg" {
		t.Fatalf("expected image/jpeg, got %s", doc.FileType)
	}
}

func TestUploadRejectsUnsupportedTypeBeforeStorage(t *testing.T) {
	svc, _, store := newDocFixture()

	in := pdfInput("owner-1", "notes.txt", "plain text")
	in.ContentType = "text/plain"
	_, err := svc.Upload(context.Background(), in)
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if store.puts != 0 {
		t.Fatalf("storage must not be touched for a rejected type")
	}
}

func TestUploadRejectsDeclaredOversizeBeforeStorage(t *testing.T) {
	svc, _, store := newDocFixture()

	in := pdfInput("owner-1", "big.pdf", "x")
	in.SizeBytes = MaxUploadBytes + 1
	_, err := svc.Upload(context.Background(), in)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if store.puts != 0 {
		t.Fatalf("storage must not be touched for an oversize declaration")
	}
}

func TestUploadCleansUpWhenBodyExceedsDeclaredSize(t *testing.T) {
	svc, _, store := newDocFixture()

	in := UploadInput{
		OwnerID:     identity.ID("owner-1"),
		FileName:    "liar.pdf",
		ContentType: "application/pdf",
		SizeBytes:   128,
		Reader:      bytes.NewReader(make([]byte, MaxUploadBytes+2)),
	}
	_, err := svc.Upload(context.Background(), in)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if len(store.deletes) != 1 {
		t.Fatalf("expected the partial object to be deleted, deletes=%v", store.deletes)
	}
}

func TestUploadRejectsTraversalFileName(t *testing.T) {
	svc, _, store := newDocFixture()

	_, err := svc.Upload(context.Background(), pdfInput("owner-1", "../../etc/passwd.pdf", "data"))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if store.puts != 0 {
		t.Fatalf("storage must not be touched for an invalid name")
	}
}

func TestUploadRemovesObjectWhenRecordFails(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(failingRepo{}, store)

	_, err := svc.Upload(context.Background(), pdfInput("owner-1", "doc.pdf", "data"))
	if err == nil {
		t.Fatalf("expected error from repo")
	}
	if len(store.deletes) != 1 {
		t.Fatalf("expected orphaned object to be deleted, deletes=%v", store.deletes)
	}
}

func TestListOwnedNewestFirst(t *testing.T) {
	svc, repo, _ := newDocFixture()
	ctx := context.Background()
	base := time.Now().UTC()

	for i := 0; i < 3; i++ {
		doc := Document{
			ID:         fmt.Sprintf("doc-%d", i),
			OwnerID:    identity.ID("owner-1"),
			FileName:   fmt.Sprintf("file-%d.pdf", i),
			FileType:   "application/pdf",
			Status:     StatusPending,
			UploadedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Create(ctx, doc); err != nil {
			t.Fatalf("seed doc: %v", err)
		}
	}
	if err := repo.Create(ctx, Document{ID: "other", OwnerID: identity.ID("owner-2"), UploadedAt: base}); err != nil {
		t.Fatalf("seed other owner: %v", err)
	}

	docs, err := svc.ListOwned(ctx, identity.ID("owner-1"))
	if err != nil {
		t.Fatalf("ListOwned: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}
	if docs[0].ID != "doc-2" || docs[2].ID != "doc-0" {
		t.Fatalf("expected newest first, got %s..%s", docs[0].ID, docs[2].ID)
	}
}

func TestSetStatus(t *testing.T) {
	svc, repo, _ := newDocFixture()
	ctx := context.Background()
	if err := repo.Create(ctx, Document{ID: "doc-1", OwnerID: identity.ID("owner-1"), Status: StatusPending}); err != nil {
		t.Fatalf("seed doc: %v", err)
	}

	doc, err := svc.SetStatus(ctx, "doc-1", "approved")
	if err != nil {
		t.Fatalf("SetStatus approved: %v", err)
	}
	if doc.Status != StatusApproved {
		t.Fatalf("expected approved, got %s", doc.Status)
	}

	// The current status is not consulted.
	if _, err := svc.SetStatus(ctx, "doc-1", "rejected"); err != nil {
		t.Fatalf("SetStatus rejected after approved: %v", err)
	}

	if _, err := svc.SetStatus(ctx, "doc-1", "archived"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}
	if _, err := svc.SetStatus(ctx, "doc-1", "pending"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for pending target, got %v", err)
	}
	if _, err := svc.SetStatus(ctx, "ghost", "approved"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteOwnershipScoped(t *testing.T) {
	svc, repo, store := newDocFixture()
	ctx := context.Background()
	if err := repo.Create(ctx, Document{ID: "doc-1", OwnerID: identity.ID("owner-1"), StorageID: "documents/abc"}); err != nil {
		t.Fatalf("seed doc: %v", err)
	}

	if err := svc.Delete(ctx, identity.ID("owner-2"), "doc-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected foreign delete to be forbidden, got %v", err)
	}
	if _, err := repo.GetByID(ctx, "doc-1"); err != nil {
		t.Fatalf("document must survive a foreign delete: %v", err)
	}

	if err := svc.Delete(ctx, identity.ID("owner-1"), "doc-1"); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, "doc-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected record to be gone, got %v", err)
	}
	if len(store.deletes) != 1 || store.deletes[0] != "documents/abc" {
		t.Fatalf("expected stored object to be deleted, deletes=%v", store.deletes)
	}
}

func TestDeleteSucceedsWhenStorageDeleteFails(t *testing.T) {
	repo := NewMemoryRepo(nil)
	store := &fakeStore{delErr: errors.New("s3 down")}
	svc := NewService(repo, store)
	ctx := context.Background()

	if err := repo.Create(ctx, Document{ID: "doc-1", OwnerID: identity.ID("owner-1"), StorageID: "documents/abc"}); err != nil {
		t.Fatalf("seed doc: %v", err)
	}
	if err := svc.Delete(ctx, identity.ID("owner-1"), "doc-1"); err != nil {
		t.Fatalf("delete must succeed despite storage failure: %v", err)
	}
}

type failingRepo struct{}

func (failingRepo) Create(ctx context.Context, doc Document) error { return errors.New("db down") }
func (failingRepo) GetByID(ctx context.Context, id string) (Document, error) {
	return Document{}, ErrNotFound
}
func (failingRepo) ListByOwner(ctx context.Context, owner identity.ID) ([]Document, error) {
	return nil, nil
}
func (failingRepo) ListAllWithOwner(ctx context.Context) ([]DocumentWithOwner, error) {
	return nil, nil
}
func (failingRepo) UpdateStatus(ctx context.Context, id string, status Status) (Document, error) {
	return Document{}, ErrNotFound
}
func (failingRepo) Delete(ctx context.Context, id string) error { return ErrNotFound }
