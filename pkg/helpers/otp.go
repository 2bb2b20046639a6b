package helpers

import (
	"crypto/rand"
	"fmt"
)

// OTP code lengths. The reset code is shorter because it travels together
// with the email and a new password in the same request; the verification
// code stands alone and gets the longer form.
const (
	VerifyOTPDigits = 6
	ResetOTPDigits  = 4
)

// GenOTPCode generates a random numeric code of the given length as a
// zero-padded string.
func GenOTPCode(digits int) (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	n := int(b[0])<<24 | int(b[1])<<16 | int(b[2])<<8 | int(b[3])
	if n < 0 {
		n = -n
	}
	mod := 1
	for i := 0; i < digits; i++ {
		mod *= 10
	}
	return fmt.Sprintf("%0*d", digits, n%mod), nil
}
