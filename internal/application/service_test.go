package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wastedx7/Secure-User-Authentication/internal/domain/entity"
	"github.com/wastedx7/Secure-User-Authentication/internal/domain/repository"
	"github.com/wastedx7/Secure-User-Authentication/pkg/helpers"
)

var testBase = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// memRepo is an in-memory UserRepository. It hands out copies so mutating
// a returned user does not change stored state until Update, matching how
// the database-backed repository behaves.
type memRepo struct {
	byEmail map[string]*entity.User
	seq     int
}

func newMemRepo() *memRepo {
	return &memRepo{byEmail: map[string]*entity.User{}}
}

func (r *memRepo) Create(u *entity.User) error {
	r.seq++
	u.ID = fmt.Sprintf("u-%d", r.seq)
	u.CreatedAt = testBase
	u.UpdatedAt = testBase
	cp := *u
	r.byEmail[u.Email] = &cp
	return nil
}

func (r *memRepo) GetByEmail(email string) (*entity.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memRepo) ExistsByEmail(email string) (bool, error) {
	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *memRepo) Update(u *entity.User) error {
	for email, stored := range r.byEmail {
		if stored.ID == u.ID {
			cp := *u
			delete(r.byEmail, email)
			r.byEmail[u.Email] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

type sentCode struct {
	Email     string
	Code      string
	ExpiresAt time.Time
}

// recordingSender captures outbound notifications instead of sending them.
type recordingSender struct {
	Welcomes []string
	Verifies []sentCode
	Resets   []sentCode
	Fail     error
}

func (s *recordingSender) SendWelcome(ctx context.Context, email, name string) error {
	if s.Fail != nil {
		return s.Fail
	}
	s.Welcomes = append(s.Welcomes, email)
	return nil
}

func (s *recordingSender) SendVerificationCode(ctx context.Context, email, name, code string, expiresAt time.Time) error {
	if s.Fail != nil {
		return s.Fail
	}
	s.Verifies = append(s.Verifies, sentCode{email, code, expiresAt})
	return nil
}

func (s *recordingSender) SendResetCode(ctx context.Context, email, name, code string, expiresAt time.Time) error {
	if s.Fail != nil {
		return s.Fail
	}
	s.Resets = append(s.Resets, sentCode{email, code, expiresAt})
	return nil
}

func newTestService(t *testing.T) (*Service, *memRepo, *recordingSender) {
	t.Helper()
	repo := newMemRepo()
	sender := &recordingSender{}
	jwt := helpers.NewJWTManager("test-secret", 24*time.Hour)
	jwt.Now = func() time.Time { return testBase }
	svc := NewService(repo, jwt, sender, nil, 24*time.Hour, 15*time.Minute)
	svc.now = func() time.Time { return testBase }
	return svc, repo, sender
}

func mustRegister(t *testing.T, svc *Service, email, password string) *entity.User {
	t.Helper()
	u, err := svc.Register(context.Background(), "Alice", email, password)
	require.NoError(t, err)
	return u
}

func TestRegister(t *testing.T) {
	svc, repo, sender := newTestService(t)

	u := mustRegister(t, svc, "alice@example.com", "secret123")
	assert.NotEmpty(t, u.ID)
	assert.True(t, u.IsActive)
	assert.False(t, u.IsVerified)
	assert.NotEqual(t, "secret123", u.Password, "password must be stored hashed")
	assert.True(t, helpers.CompareHashAndPassword(u.Password, "secret123"))

	exists, err := repo.ExistsByEmail("alice@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, []string{"alice@example.com"}, sender.Welcomes)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	mustRegister(t, svc, "alice@example.com", "secret123")

	_, err := svc.Register(context.Background(), "Other", "alice@example.com", "another1")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_WelcomeFailureIsNotFatal(t *testing.T) {
	svc, _, sender := newTestService(t)
	sender.Fail = errors.New("smtp down")

	u, err := svc.Register(context.Background(), "Alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestService(t)
	mustRegister(t, svc, "alice@example.com", "secret123")

	u, token, exp, err := svc.Login(context.Background(), "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, testBase.Add(24*time.Hour), exp)

	sub, err := svc.JWT.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", sub)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc, _, _ := newTestService(t)
	mustRegister(t, svc, "alice@example.com", "secret123")

	_, _, _, err := svc.Login(context.Background(), "alice@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, _, errUnknown := svc.Login(context.Background(), "nobody@example.com", "secret123")
	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)

	// Unknown email and wrong password are indistinguishable to the caller.
	assert.Equal(t, err.Error(), errUnknown.Error())
}

func TestLogin_DisabledAccount(t *testing.T) {
	svc, repo, _ := newTestService(t)
	u := mustRegister(t, svc, "alice@example.com", "secret123")

	u.IsActive = false
	require.NoError(t, repo.Update(u))

	_, _, _, err := svc.Login(context.Background(), "alice@example.com", "secret123")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestGetByEmail_Unknown(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
