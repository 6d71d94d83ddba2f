package documents

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"docgate-backend/internal/identity"
	"docgate-backend/internal/shared/storage/object"
	"docgate-backend/internal/shared/telemetry"
	"docgate-backend/internal/shared/util"
)

// MaxUploadBytes caps the accepted file size.
const MaxUploadBytes = 10 << 20 // 10 MiB

const storageFolder = "documents"

var allowedTypes = map[string]string{
	"application/pdf": "application/pdf",
	"image/png":       "image/png",
	"image/jpeg":      "image/jpeg",
	"image/jpg":       "image/jpeg",
}

// Service contains business logic for documents.
type Service struct {
	Repo  Repo
	Store object.ObjectStore
}

func NewService(repo Repo, store object.ObjectStore) *Service {
	return &Service{Repo: repo, Store: store}
}

// UploadInput carries an incoming file. SizeBytes is the declared size;
// validation runs against it before any storage I/O.
type UploadInput struct {
	OwnerID     identity.ID
	FileName    string
	ContentType string
	SizeBytes   int64
	Reader      io.Reader
}

// Upload validates the file, stores it, and records a pending document.
func (s *Service) Upload(ctx context.Context, in UploadInput) (Document, error) {
	if in.OwnerID == "" || in.Reader == nil {
		return Document{}, ErrInvalidInput
	}
	fileName, err := util.SanitizeFileName(in.FileName)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	fileType, ok := normalizeContentType(in.ContentType)
	if !ok {
		return Document{}, ErrUnsupportedType
	}
	if in.SizeBytes <= 0 {
		return Document{}, ErrInvalidInput
	}
	if in.SizeBytes > MaxUploadBytes {
		return Document{}, ErrTooLarge
	}

	id := uuid.NewString()
	key := util.HashOwnerKey(string(in.OwnerID)) + "/" + id + "_" + fileName

	// The declared size is capped above; the limit reader guards
	// against a body that lies about its length.
	res, err := s.Store.Put(ctx, storageFolder, key, fileType, io.LimitReader(in.Reader, MaxUploadBytes+1))
	if err != nil {
		return Document{}, fmt.Errorf("store document: %w", err)
	}
	if res.SizeBytes > MaxUploadBytes {
		if delErr := s.Store.Delete(ctx, res.StorageID); delErr != nil {
			telemetry.Warn("documents.storage_delete_failed", map[string]any{
				"storage_id": res.StorageID,
				"error":      delErr.Error(),
			})
		}
		return Document{}, ErrTooLarge
	}

	doc := Document{
		ID:         id,
		OwnerID:    in.OwnerID,
		FileName:   fileName,
		FileType:   fileType,
		SizeBytes:  res.SizeBytes,
		StorageURL: res.URL,
		StorageID:  res.StorageID,
		Status:     StatusPending,
		UploadedAt: time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		if delErr := s.Store.Delete(ctx, res.StorageID); delErr != nil {
			telemetry.Warn("documents.storage_delete_failed", map[string]any{
				"storage_id": res.StorageID,
				"error":      delErr.Error(),
			})
		}
		return Document{}, fmt.Errorf("record document: %w", err)
	}
	return doc, nil
}

// ListOwned returns the caller's documents, newest first.
func (s *Service) ListOwned(ctx context.Context, owner identity.ID) ([]Document, error) {
	if owner == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByOwner(ctx, owner)
}

// ListAll returns every document with owner details, newest first.
func (s *Service) ListAll(ctx context.Context) ([]DocumentWithOwner, error) {
	return s.Repo.ListAllWithOwner(ctx)
}

// SetStatus moves a document to approved or rejected. The current
// status is not consulted; an admin may re-approve a rejected document.
func (s *Service) SetStatus(ctx context.Context, id, rawStatus string) (Document, error) {
	if strings.TrimSpace(id) == "" {
		return Document{}, ErrInvalidInput
	}
	status, ok := ParseStatus(rawStatus)
	if !ok || status == StatusPending {
		return Document{}, fmt.Errorf("%w: status %q is not assignable", ErrInvalidInput, rawStatus)
	}
	return s.Repo.UpdateStatus(ctx, id, status)
}

// Delete removes an owned document. The stored object is removed on a
// best-effort basis; a storage failure does not resurrect the record.
func (s *Service) Delete(ctx context.Context, owner identity.ID, id string) error {
	if owner == "" || strings.TrimSpace(id) == "" {
		return ErrInvalidInput
	}
	doc, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if doc.OwnerID != owner {
		return ErrForbidden
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, doc.StorageID); err != nil {
		telemetry.Warn("documents.storage_delete_failed", map[string]any{
			"document_id": id,
			"storage_id":  doc.StorageID,
			"error":       err.Error(),
		})
	}
	return nil
}

func normalizeContentType(raw string) (string, bool) {
	ct := strings.ToLower(strings.TrimSpace(raw))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	normalized, ok := allowedTypes[ct]
	return normalized, ok
}
