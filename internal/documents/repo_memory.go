package documents

import (
	"context"
	"sort"
	"sync"

	"docgate-backend/internal/identity"
)

// OwnerLookup resolves owner details for moderation listings. The
// in-memory repo uses it in place of a SQL join.
type OwnerLookup func(ctx context.Context, owner identity.ID) (email, name string, role identity.Role, err error)

// MemoryRepo is an in-memory Repo for local development and tests.
type MemoryRepo struct {
	mu     sync.RWMutex
	docs   map[string]Document
	owners OwnerLookup
}

func NewMemoryRepo(owners OwnerLookup) *MemoryRepo {
	return &MemoryRepo{docs: make(map[string]Document), owners: owners}
}

func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = doc
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

func (r *MemoryRepo) ListByOwner(ctx context.Context, owner identity.ID) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Document
	for _, doc := range r.docs {
		if doc.OwnerID == owner {
			out = append(out, doc)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryRepo) ListAllWithOwner(ctx context.Context) ([]DocumentWithOwner, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	docs := make([]Document, 0, len(r.docs))
	for _, doc := range r.docs {
		docs = append(docs, doc)
	}
	r.mu.RUnlock()
	sortNewestFirst(docs)

	out := make([]DocumentWithOwner, 0, len(docs))
	for _, doc := range docs {
		item := DocumentWithOwner{Document: doc}
		if r.owners != nil {
			email, name, role, err := r.owners(ctx, doc.OwnerID)
			if err != nil {
				return nil, err
			}
			item.OwnerEmail = email
			item.OwnerName = name
			item.OwnerRole = role
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, id string, status Status) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	doc.Status = status
	r.docs[id] = doc
	return doc, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

func sortNewestFirst(docs []Document) {
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].UploadedAt.Equal(docs[j].UploadedAt) {
			return docs[i].ID > docs[j].ID
		}
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})
}

var _ Repo = (*MemoryRepo)(nil)
