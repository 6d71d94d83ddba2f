package passwordreset

import "errors"

var (
	// ErrUnknownEmail indicates no profile exists for the given email.
	ErrUnknownEmail = errors.New("no profile for email")
	// ErrInvalidOTP indicates the supplied code does not match the pending one.
	ErrInvalidOTP = errors.New("invalid reset code")
	// ErrExpiredOTP indicates the pending code's validity window has passed.
	ErrExpiredOTP = errors.New("reset code expired")
	// ErrWeakPassword indicates the new password fails the minimum length.
	ErrWeakPassword = errors.New("password too short")
)
