package profiles

import (
	"context"
	"time"

	"docgate-backend/internal/identity"
)

// Repo persists profiles.
type Repo interface {
	// Insert creates a new profile, failing with ErrConflict when one
	// already exists for the id or email.
	Insert(ctx context.Context, p Profile) error
	// Ensure creates the profile if absent and returns the stored row
	// either way. Safe under concurrent provisioning of the same id.
	Ensure(ctx context.Context, p Profile) (Profile, error)
	GetByID(ctx context.Context, id identity.ID) (Profile, error)
	GetByEmail(ctx context.Context, email string) (Profile, error)
	// SetResetOTP stores a pending reset code and its expiry.
	SetResetOTP(ctx context.Context, id identity.ID, code string, expiry time.Time) error
	// CompletePasswordReset stores the new password hash and clears any
	// pending reset code.
	CompletePasswordReset(ctx context.Context, id identity.ID, passwordHash string) error
	ListWithDocumentCounts(ctx context.Context) ([]ProfileWithDocuments, error)
}
