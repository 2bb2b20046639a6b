package application

import (
	"context"
	"time"

	"github.com/wastedx7/Secure-User-Authentication/internal/domain/entity"
	"github.com/wastedx7/Secure-User-Authentication/pkg/helpers"
)

// OTP lifecycle. Issuing overwrites any outstanding code for the same
// purpose; consuming clears the code in the same Update that applies its
// effect. Expiry is checked lazily at consumption, never swept.

// SendVerifyOTP stores a fresh 6-digit verification code and enqueues the
// notification. Already-verified accounts are a no-op: nothing is stored,
// nothing is sent.
func (s *Service) SendVerifyOTP(ctx context.Context, email string) error {
	u, err := s.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u.IsVerified {
		return nil
	}

	code, err := helpers.GenOTPCode(helpers.VerifyOTPDigits)
	if err != nil {
		return err
	}
	u.VerifyOTP = code
	u.VerifyOTPExpiresAt = s.now().Add(s.VerifyOTPTTL)
	if err := s.Repo.Update(u); err != nil {
		return err
	}
	if s.Sender == nil {
		return nil
	}

	return s.notify(ctx, u, code, u.VerifyOTPExpiresAt, s.Sender.SendVerificationCode)
}

// ConfirmVerifyOTP consumes a verification code and marks the account
// verified. A rejected code is left outstanding.
func (s *Service) ConfirmVerifyOTP(ctx context.Context, email, code string) error {
	u, err := s.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := checkCode(u.VerifyOTP, u.VerifyOTPExpiresAt, code, s.now()); err != nil {
		return err
	}

	u.VerifyOTP = ""
	u.VerifyOTPExpiresAt = time.Time{}
	u.IsVerified = true
	return s.Repo.Update(u)
}

// SendResetOTP stores a fresh 4-digit reset code and enqueues the
// notification.
func (s *Service) SendResetOTP(ctx context.Context, email string) error {
	u, err := s.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	code, err := helpers.GenOTPCode(helpers.ResetOTPDigits)
	if err != nil {
		return err
	}
	u.ResetOTP = code
	u.ResetOTPExpiresAt = s.now().Add(s.ResetOTPTTL)
	if err := s.Repo.Update(u); err != nil {
		return err
	}
	if s.Sender == nil {
		return nil
	}

	return s.notify(ctx, u, code, u.ResetOTPExpiresAt, s.Sender.SendResetCode)
}

// ResetPassword consumes a reset code and writes the new password hash in
// the same update that clears the code, so a consumed code can never
// remain valid and a rotated password never leaves a live code behind.
func (s *Service) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	u, err := s.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := checkCode(u.ResetOTP, u.ResetOTPExpiresAt, code, s.now()); err != nil {
		return err
	}

	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	u.Password = hash
	u.ResetOTP = ""
	u.ResetOTPExpiresAt = time.Time{}
	return s.Repo.Update(u)
}

// checkCode applies the shared consumption ladder: outstanding, exact
// match, then unexpired.
func checkCode(stored string, expiresAt time.Time, presented string, now time.Time) error {
	if stored == "" {
		return ErrNoOutstandingOTP
	}
	if stored != presented {
		return ErrOTPMismatch
	}
	if !now.Before(expiresAt) {
		return ErrOTPExpired
	}
	return nil
}

// notify sends the code email. The code stays persisted even when sending
// fails; the caller just learns delivery did not happen.
func (s *Service) notify(ctx context.Context, u *entity.User, code string, expiresAt time.Time,
	send func(ctx context.Context, email, name, code string, expiresAt time.Time) error) error {
	if err := send(ctx, u.Email, u.Name, code, expiresAt); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("email", u.Email).Warn("otp email failed")
		}
		return ErrNotifyFailed
	}
	return nil
}
