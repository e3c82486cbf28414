package auth

import (
	"regexp"

	"github.com/cropcure/agrichat/internal/config"
)

var nonDigits = regexp.MustCompile(`[^0-9]`)

// SanitizeOTP normalizes code input on every keystroke: non-digit characters
// are stripped rather than rejected, and the result is capped at the OTP
// length. The stored code therefore always matches ^[0-9]{0,6}$.
func SanitizeOTP(input string) string {
	digits := nonDigits.ReplaceAllString(input, "")
	if len(digits) > config.OTPLength {
		digits = digits[:config.OTPLength]
	}
	return digits
}

// ValidOTP reports whether code is a complete 6-digit OTP.
func ValidOTP(code string) bool {
	return len(code) == config.OTPLength && nonDigits.FindStringIndex(code) == nil
}
