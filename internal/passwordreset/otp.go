package passwordreset

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const otpDigits = 6

var otpMax = big.NewInt(1_000_000)

// generateOTP returns a zero-padded 6-digit code from crypto/rand.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpMax)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}
