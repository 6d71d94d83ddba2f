package passwordreset

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"docgate-backend/internal/identity"
	"docgate-backend/internal/profiles"
	"docgate-backend/internal/shared/telemetry"
)

const minPasswordLength = 6

// Service runs the OTP-based password reset flow. The provider write
// comes first; the local hash is only stored once the provider has
// accepted the new credential.
type Service struct {
	Profiles *profiles.Service
	Updater  identity.CredentialUpdater
	Sender   Sender
	TTL      time.Duration

	now func() time.Time
}

func NewService(profileSvc *profiles.Service, updater identity.CredentialUpdater, sender Sender, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Service{
		Profiles: profileSvc,
		Updater:  updater,
		Sender:   sender,
		TTL:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RequestReset issues a fresh code for the profile behind email and
// hands it to the sender. A repeat request replaces the pending code.
func (s *Service) RequestReset(ctx context.Context, email string) error {
	profile, err := s.lookup(ctx, email)
	if err != nil {
		return err
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}
	expiry := s.now().Add(s.TTL)

	if err := s.Profiles.SetResetOTP(ctx, profile.ID, code, expiry); err != nil {
		return fmt.Errorf("store reset code: %w", err)
	}
	if err := s.Sender.Send(ctx, profile.Email, code, expiry); err != nil {
		return fmt.Errorf("deliver reset code: %w", err)
	}

	telemetry.Info("password_reset.requested", map[string]any{
		"identity_id": string(profile.ID),
		"expires_at":  expiry.Format(time.RFC3339),
	})
	return nil
}

// ConfirmReset checks the code and writes the new password to the
// provider, then locally. A used or replaced code never verifies twice.
func (s *Service) ConfirmReset(ctx context.Context, email, code, newPassword string) error {
	profile, err := s.lookup(ctx, email)
	if err != nil {
		return err
	}

	if len(newPassword) < minPasswordLength {
		return ErrWeakPassword
	}
	if profile.ResetOTP == "" || subtle.ConstantTimeCompare([]byte(profile.ResetOTP), []byte(code)) != 1 {
		return ErrInvalidOTP
	}
	if s.now().After(profile.ResetOTPExpiry) {
		return ErrExpiredOTP
	}

	if err := s.Updater.UpdateCredential(ctx, profile.ID, newPassword); err != nil {
		return fmt.Errorf("update provider credential: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.Profiles.CompletePasswordReset(ctx, profile.ID, string(hash)); err != nil {
		return fmt.Errorf("store password hash: %w", err)
	}

	telemetry.Info("password_reset.completed", map[string]any{
		"identity_id": string(profile.ID),
	})
	return nil
}

func (s *Service) lookup(ctx context.Context, email string) (profiles.Profile, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return profiles.Profile{}, ErrUnknownEmail
	}
	profile, err := s.Profiles.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			return profiles.Profile{}, ErrUnknownEmail
		}
		return profiles.Profile{}, err
	}
	return profile, nil
}
