package profiles

import (
	"context"
	"errors"
	"strings"
	"time"

	"docgate-backend/internal/identity"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// GetOrCreate returns the profile for a verified identity, provisioning
// one on first contact. The role comes from provider metadata when it
// names a known role, otherwise customer.
func (s *Service) GetOrCreate(ctx context.Context, ident identity.Identity) (Profile, error) {
	if s == nil || s.Repo == nil {
		return Profile{}, errors.New("profiles service not configured")
	}
	if strings.TrimSpace(string(ident.ID)) == "" || strings.TrimSpace(ident.Email) == "" {
		return Profile{}, errors.New("identity id and email are required")
	}
	return s.Repo.Ensure(ctx, profileFromIdentity(ident, ""))
}

// Create provisions a profile explicitly, failing with ErrConflict when
// one already exists. fullName and rawRole, when set, override what the
// provider metadata carries.
func (s *Service) Create(ctx context.Context, ident identity.Identity, fullName, rawRole string) (Profile, error) {
	if s == nil || s.Repo == nil {
		return Profile{}, errors.New("profiles service not configured")
	}
	if strings.TrimSpace(string(ident.ID)) == "" || strings.TrimSpace(ident.Email) == "" {
		return Profile{}, errors.New("identity id and email are required")
	}
	p := profileFromIdentity(ident, strings.TrimSpace(fullName))
	if rawRole = strings.TrimSpace(rawRole); rawRole != "" {
		role, known := identity.ParseRole(rawRole)
		if !known {
			return Profile{}, ErrInvalidRole
		}
		p.Role = role
	}
	if err := s.Repo.Insert(ctx, p); err != nil {
		return Profile{}, err
	}
	return s.Repo.GetByID(ctx, p.ID)
}

func (s *Service) GetByID(ctx context.Context, id identity.ID) (Profile, error) {
	if s == nil || s.Repo == nil {
		return Profile{}, errors.New("profiles service not configured")
	}
	return s.Repo.GetByID(ctx, id)
}

func (s *Service) FindByEmail(ctx context.Context, email string) (Profile, error) {
	if s == nil || s.Repo == nil {
		return Profile{}, errors.New("profiles service not configured")
	}
	if strings.TrimSpace(email) == "" {
		return Profile{}, ErrNotFound
	}
	return s.Repo.GetByEmail(ctx, email)
}

// RoleFor implements the middleware profile gate. A missing profile is
// not an error; ok is false.
func (s *Service) RoleFor(ctx context.Context, id identity.ID) (identity.Role, bool, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return p.Role, true, nil
}

func (s *Service) SetResetOTP(ctx context.Context, id identity.ID, code string, expiry time.Time) error {
	if s == nil || s.Repo == nil {
		return errors.New("profiles service not configured")
	}
	return s.Repo.SetResetOTP(ctx, id, code, expiry)
}

func (s *Service) CompletePasswordReset(ctx context.Context, id identity.ID, passwordHash string) error {
	if s == nil || s.Repo == nil {
		return errors.New("profiles service not configured")
	}
	return s.Repo.CompletePasswordReset(ctx, id, passwordHash)
}

func (s *Service) ListWithDocumentCounts(ctx context.Context) ([]ProfileWithDocuments, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("profiles service not configured")
	}
	return s.Repo.ListWithDocumentCounts(ctx)
}

func profileFromIdentity(ident identity.Identity, fullName string) Profile {
	if fullName == "" {
		fullName = ident.FullName()
	}
	role := identity.RoleCustomer
	if raw, ok := ident.Metadata["role"].(string); ok {
		if parsed, known := identity.ParseRole(raw); known {
			role = parsed
		}
	}
	return Profile{
		ID:       ident.ID,
		Email:    ident.Email,
		FullName: fullName,
		Role:     role,
	}
}
