package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wastedx7/Secure-User-Authentication/pkg/helpers"
)

func TestSendVerifyOTP(t *testing.T) {
	svc, repo, sender := newTestService(t)
	mustRegister(t, svc, "alice@example.com", "secret123")

	require.NoError(t, svc.SendVerifyOTP(context.Background(), "alice@example.com"))

	u, err := repo.GetByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Len(t, u.VerifyOTP, helpers.VerifyOTPDigits)
	assert.Equal(t, testBase.Add(24*time.Hour), u.VerifyOTPExpiresAt)

	require.Len(t, sender.Verifies, 1)
	assert.Equal(t, u.VerifyOTP, sender.Verifies[0].Code)
	assert.Equal(t, u.VerifyOTPExpiresAt, sender.Verifies[0].ExpiresAt)
}

func TestSendVerifyOTP_OverwritesOutstandingCode(t *testing.T) {
	svc, repo, _ := newTestService(t)
	mustRegister(t, svc, "alice@example.com", "secret123")

	require.NoError(t, svc.SendVerifyOTP(context.Background(), "alice@example.com"))
	first, _ := repo.GetByEmail("alice@example.com")

	svc.now = func() time.Time { return testBase.Add(time.Hour) }
	require.NoError(t, svc.SendVerifyOTP(context.Background(), "alice@example.com"))
	second, _ := repo.GetByEmail("alice@example.com")

	assert.Equal(t, testBase.Add(25*time.Hour), second.VerifyOTPExpiresAt)

	// The earlier code is dead once replaced.
	if first.VerifyOTP != second.VerifyOTP {
		err := svc.ConfirmVerifyOTP(context.Background(), "alice@example.com", first.VerifyOTP)
		assert.ErrorIs(t, err, ErrOTPMismatch)
	}
}

func TestSendVerifyOTP_AlreadyVerified(t *testing.T) {
	svc, repo, sender := newTestService(t)
	u := mustRegister(t, svc, "alice@example.com", "secret123")

	u.IsVerified = true
	u.ResetOTP = "4321"
	u.ResetOTPExpiresAt = testBase.Add(10 * time.Minute)
	require.NoError(t, repo.Update(u))

	require.NoError(t, svc.SendVerifyOTP(context.Background(), "alice@example.com"))

	after, _ := repo.GetByEmail("alice@example.com")
	assert.Empty(t, after.VerifyOTP, "no code stored for a verified account")
	assert.Equal(t, "4321", after.ResetOTP, "reset code untouched")
	assert.Empty(t, sender.Verifies, "nothing sent for a verified account")
}

func TestSendVerifyOTP_SendFailureKeepsCode(t *testing.T) {
	svc, repo, sender := newTestService(t)
	mustRegister(t, svc, "alice@example.com", "secret123")
	sender.Fail = errors.New("broker unreachable")

	err := svc.SendVerifyOTP(context.Background(), "alice@example.com")
	assert.ErrorIs(t, err, ErrNotifyFailed)

	u, _ := repo.GetByEmail("alice@example.com")
	assert.Len(t, u.VerifyOTP, helpers.VerifyOTPDigits, "code stays persisted when delivery fails")

	// The undelivered code is still consumable.
	sender.Fail = nil
	require.NoError(t, svc.ConfirmVerifyOTP(context.Background(), "alice@example.com", u.VerifyOTP))
}

func TestConfirmVerifyOTP_SingleUse(t *testing.T) {
	svc, repo, _ := newTestService(t)
	mustRegister(t, svc, "alice@example.com", "secret123")
	require.NoError(t, svc.SendVerifyOTP(context.Background(), "alice@example.com"))
	u, _ := repo.GetByEmail("alice@example.com")
	code := u.VerifyOTP

	require.NoError(t, svc.ConfirmVerifyOTP(context.Background(), "alice@example.com", code))

	after, _ := repo.GetByEmail("alice@example.com")
	assert.True(t, after.IsVerified)
	assert.Empty(t, after.VerifyOTP)

	err := svc.ConfirmVerifyOTP(context.Background(), "alice@example.com", code)
	assert.ErrorIs(t, err, ErrNoOutstandingOTP)
}

func TestConfirmVerifyOTP_MismatchDoesNotConsume(t *testing.T) {
	svc, repo, _ := newTestService(t)
	mustRegister(t, svc, "alice@example.com", "secret123")
	require.NoError(t, svc.SendVerifyOTP(context.Background(), "alice@example.com"))
	u, _ := repo.GetByEmail("alice@example.com")

	err := svc.ConfirmVerifyOTP(context.Background(), "alice@example.com", "000000")
	if u.VerifyOTP == "000000" {
		t.Skip("generated code collided with the probe value")
	}
	assert.ErrorIs(t, err, ErrOTPMismatch)

	// The real code still works after a failed guess.
	require.NoError(t, svc.ConfirmVerifyOTP(context.Background(), "alice@example.com", u.VerifyOTP))
}

func TestConfirmVerifyOTP_NoOutstanding(t *testing.T) {
	svc, _, _ := newTestService(t)
	mustRegister(t, svc, "alice@example.com", "secret123")

	err := svc.ConfirmVerifyOTP(context.Background(), "alice@example.com", "123456")
	assert.ErrorIs(t, err, ErrNoOutstandingOTP)
}

func TestConfirmVerifyOTP_UnknownUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.ConfirmVerifyOTP(context.Background(), "nobody@example.com", "123456")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSendResetOTP(t *testing.T) {
	svc, repo, sender := newTestService(t)
	mustRegister(t, svc, "alice@example.com", "secret123")

	require.NoError(t, svc.SendResetOTP(context.Background(), "alice@example.com"))

	u, _ := repo.GetByEmail("alice@example.com")
	assert.Len(t, u.ResetOTP, helpers.ResetOTPDigits)
	assert.Equal(t, testBase.Add(15*time.Minute), u.ResetOTPExpiresAt)
	require.Len(t, sender.Resets, 1)
	assert.Equal(t, u.ResetOTP, sender.Resets[0].Code)
}

func TestResetPassword(t *testing.T) {
	svc, repo, _ := newTestService(t)
	mustRegister(t, svc, "alice@example.com", "secret123")
	require.NoError(t, svc.SendResetOTP(context.Background(), "alice@example.com"))
	u, _ := repo.GetByEmail("alice@example.com")

	require.NoError(t, svc.ResetPassword(context.Background(), "alice@example.com", u.ResetOTP, "brand-new-pass"))

	_, _, _, err := svc.Login(context.Background(), "alice@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "old password no longer valid")
	_, _, _, err = svc.Login(context.Background(), "alice@example.com", "brand-new-pass")
	require.NoError(t, err)

	// Consumption cleared the code in the same update.
	err = svc.ResetPassword(context.Background(), "alice@example.com", u.ResetOTP, "yet-another")
	assert.ErrorIs(t, err, ErrNoOutstandingOTP)
}

func TestResetPassword_ExpiredCode(t *testing.T) {
	svc, repo, _ := newTestService(t)
	mustRegister(t, svc, "alice@example.com", "secret123")
	require.NoError(t, svc.SendResetOTP(context.Background(), "alice@example.com"))
	u, _ := repo.GetByEmail("alice@example.com")

	svc.now = func() time.Time { return testBase.Add(20 * time.Minute) }
	err := svc.ResetPassword(context.Background(), "alice@example.com", u.ResetOTP, "brand-new-pass")
	assert.ErrorIs(t, err, ErrOTPExpired)

	_, _, _, loginErr := svc.Login(context.Background(), "alice@example.com", "secret123")
	assert.NoError(t, loginErr, "password unchanged after an expired attempt")
}

func TestResetPassword_UnknownUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.ResetPassword(context.Background(), "nobody@example.com", "1234", "brand-new-pass")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCheckCodeLadder(t *testing.T) {
	now := testBase
	exp := now.Add(10 * time.Minute)

	assert.ErrorIs(t, checkCode("", time.Time{}, "1234", now), ErrNoOutstandingOTP)
	assert.ErrorIs(t, checkCode("1234", exp, "9999", now), ErrOTPMismatch)
	assert.ErrorIs(t, checkCode("1234", exp, "1234", exp), ErrOTPExpired)
	// Mismatch wins over expiry for a stale wrong guess.
	assert.ErrorIs(t, checkCode("1234", now.Add(-time.Minute), "9999", now), ErrOTPMismatch)
	assert.NoError(t, checkCode("1234", exp, "1234", now))
}
