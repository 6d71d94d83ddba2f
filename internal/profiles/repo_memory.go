package profiles

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"docgate-backend/internal/identity"
)

// MemoryRepo is an in-memory Repo for local development and tests.
type MemoryRepo struct {
	mu       sync.RWMutex
	profiles map[identity.ID]Profile

	// DocumentCounts lets tests seed per-owner counts for listings.
	DocumentCounts map[identity.ID]int
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		profiles:       make(map[identity.ID]Profile),
		DocumentCounts: make(map[identity.ID]int),
	}
}

func (r *MemoryRepo) Insert(ctx context.Context, p Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflictsLocked(p) {
		return ErrConflict
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	r.profiles[p.ID] = p
	return nil
}

func (r *MemoryRepo) Ensure(ctx context.Context, p Profile) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.profiles[p.ID]; ok {
		return existing, nil
	}
	if r.conflictsLocked(p) {
		return Profile{}, ErrConflict
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	r.profiles[p.ID] = p
	return p, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id identity.ID) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[id]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryRepo) GetByEmail(ctx context.Context, email string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.profiles {
		if strings.EqualFold(p.Email, email) {
			return p, nil
		}
	}
	return Profile{}, ErrNotFound
}

func (r *MemoryRepo) SetResetOTP(ctx context.Context, id identity.ID, code string, expiry time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return ErrNotFound
	}
	p.ResetOTP = code
	p.ResetOTPExpiry = expiry
	p.UpdatedAt = time.Now().UTC()
	r.profiles[id] = p
	return nil
}

func (r *MemoryRepo) CompletePasswordReset(ctx context.Context, id identity.ID, passwordHash string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return ErrNotFound
	}
	p.PasswordHash = passwordHash
	p.ResetOTP = ""
	p.ResetOTPExpiry = time.Time{}
	p.UpdatedAt = time.Now().UTC()
	r.profiles[id] = p
	return nil
}

func (r *MemoryRepo) ListWithDocumentCounts(ctx context.Context) ([]ProfileWithDocuments, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ProfileWithDocuments, 0, len(r.profiles))
	for id, p := range r.profiles {
		out = append(out, ProfileWithDocuments{Profile: p, DocumentCount: r.DocumentCounts[id]})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) conflictsLocked(p Profile) bool {
	if _, ok := r.profiles[p.ID]; ok {
		return true
	}
	for _, existing := range r.profiles {
		if strings.EqualFold(existing.Email, p.Email) {
			return true
		}
	}
	return false
}

var _ Repo = (*MemoryRepo)(nil)
