package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"docgate-backend/internal/shared/storage/object"
)

// Store implements ObjectStore using the local filesystem.
type Store struct {
	baseDir string
}

// New creates a new local object store rooted at baseDir.
func New(baseDir string) object.ObjectStore {
	return &Store{baseDir: baseDir}
}

// Put writes the reader to disk under folder/key.
func (s *Store) Put(ctx context.Context, folder, key, contentType string, r io.Reader) (object.PutResult, error) {
	if err := ctx.Err(); err != nil {
		return object.PutResult{}, err
	}

	dirPath := filepath.Join(s.baseDir, folder)
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return object.PutResult{}, fmt.Errorf("mkdir: %w", err)
	}

	fullPath := filepath.Join(dirPath, key)
	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return object.PutResult{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		return object.PutResult{}, fmt.Errorf("write file: %w", err)
	}

	storageID := filepath.ToSlash(filepath.Join(folder, key))
	return object.PutResult{
		URL:       "file://" + fullPath,
		StorageID: storageID,
		SizeBytes: size,
	}, nil
}

// Delete removes a stored object by its storage id.
func (s *Store) Delete(ctx context.Context, storageID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(storageID))
	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

var _ object.ObjectStore = (*Store)(nil)
