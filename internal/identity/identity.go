package identity

import (
	"context"
	"errors"
)

// ID is an opaque subject identifier issued by the identity provider.
// Comparing two IDs with == is the only supported equality.
type ID string

func (id ID) String() string { return string(id) }

// Role gates access to admin-only operations.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// ParseRole maps a raw string onto a known role, defaulting to customer.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleCustomer, "":
		return RoleCustomer, true
	default:
		return RoleCustomer, false
	}
}

// Identity is the externally-verified subject of a bearer credential.
type Identity struct {
	ID       ID
	Email    string
	Metadata map[string]any
}

// FullName extracts a display name from provider metadata, if present.
func (i Identity) FullName() string {
	if i.Metadata == nil {
		return ""
	}
	for _, key := range []string{"full_name", "name"} {
		if v, ok := i.Metadata[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

var (
	// ErrMissingCredential is returned when no bearer credential was supplied.
	ErrMissingCredential = errors.New("missing credential")
	// ErrInvalidCredential is returned when the provider rejects the credential.
	ErrInvalidCredential = errors.New("invalid or expired credential")
	// ErrUpstream is returned when the provider cannot be reached or fails.
	ErrUpstream = errors.New("identity provider unavailable")
)

// Verifier validates bearer credentials against the identity provider.
type Verifier interface {
	VerifyToken(ctx context.Context, bearer string) (Identity, error)
}

// CredentialUpdater propagates a new password to the identity provider.
type CredentialUpdater interface {
	UpdateCredential(ctx context.Context, id ID, newPassword string) error
}
