package profiles

import (
	"time"

	"docgate-backend/internal/identity"
)

// Profile is the application-side record for a verified identity. The
// identity provider owns authentication; the profile owns role and
// password-reset state.
type Profile struct {
	ID             identity.ID
	Email          string
	FullName       string
	Role           identity.Role
	PasswordHash   string
	ResetOTP       string
	ResetOTPExpiry time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProfileWithDocuments pairs a profile with its document count for
// admin listings.
type ProfileWithDocuments struct {
	Profile
	DocumentCount int
}
