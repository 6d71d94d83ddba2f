package documents

import (
	"context"

	"docgate-backend/internal/identity"
)

// Repo persists document records.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, id string) (Document, error)
	// ListByOwner returns the owner's documents, newest first.
	ListByOwner(ctx context.Context, owner identity.ID) ([]Document, error)
	// ListAllWithOwner returns every document with owner details,
	// newest first.
	ListAllWithOwner(ctx context.Context) ([]DocumentWithOwner, error)
	// UpdateStatus moves a document to the given status and returns
	// the updated row.
	UpdateStatus(ctx context.Context, id string, status Status) (Document, error)
	Delete(ctx context.Context, id string) error
}
