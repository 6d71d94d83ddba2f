package profiles

import "errors"

var (
	// ErrNotFound indicates no profile exists for the given identity or email.
	ErrNotFound = errors.New("profile not found")
	// ErrConflict indicates a profile already exists for the identity or email.
	ErrConflict = errors.New("profile already exists")
	// ErrInvalidRole indicates a requested role outside the known set.
	ErrInvalidRole = errors.New("unknown role")
)
