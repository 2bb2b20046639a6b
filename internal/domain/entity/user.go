package entity

import (
	"time"
)

// User is the aggregate root for the authentication domain.
// Password holds a bcrypt hash and must never be logged or serialized out.
//
// The OTP fields embed at most one outstanding code per purpose; an empty
// code string means no code is outstanding. Consuming a code clears it in
// the same persisted update that applies its effect, so codes are
// single-use by construction.
type User struct {
	ID                 string
	Name               string
	Email              string
	Password           string
	IsVerified         bool
	IsActive           bool
	VerifyOTP          string
	VerifyOTPExpiresAt time.Time
	ResetOTP           string
	ResetOTPExpiresAt  time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
