package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wastedx7/Secure-User-Authentication/internal/domain/entity"
	"github.com/wastedx7/Secure-User-Authentication/internal/domain/repository"
	"github.com/wastedx7/Secure-User-Authentication/pkg/helpers"
)

// Typed failures surfaced to the HTTP layer. Login failures share one
// constant message so responses never reveal whether an email exists.
var (
	ErrInvalidCredentials = errors.New("email or password is incorrect")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrEmailTaken         = errors.New("email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrNoOutstandingOTP   = errors.New("no outstanding code")
	ErrOTPMismatch        = errors.New("incorrect code")
	ErrOTPExpired         = errors.New("code has expired")
	ErrNotifyFailed       = errors.New("unable to send code")
)

// CodeSender delivers notification emails. Failures are surfaced to the
// caller but never roll back what was already persisted.
type CodeSender interface {
	SendWelcome(ctx context.Context, email, name string) error
	SendVerificationCode(ctx context.Context, email, name, code string, expiresAt time.Time) error
	SendResetCode(ctx context.Context, email, name, code string, expiresAt time.Time) error
}

// Service implements registration, login and the two OTP workflows on top
// of the user repository.
type Service struct {
	Repo         repository.UserRepository
	JWT          *helpers.JWTManager
	Sender       CodeSender
	Logger       *logrus.Logger
	VerifyOTPTTL time.Duration
	ResetOTPTTL  time.Duration

	now func() time.Time
}

func NewService(repo repository.UserRepository, jwt *helpers.JWTManager, sender CodeSender, logger *logrus.Logger, verifyTTL, resetTTL time.Duration) *Service {
	return &Service{
		Repo:         repo,
		JWT:          jwt,
		Sender:       sender,
		Logger:       logger,
		VerifyOTPTTL: verifyTTL,
		ResetOTPTTL:  resetTTL,
		now:          time.Now,
	}
}

// Principal is the authenticated-identity projection attached to a request
// after token verification. It never carries the password hash.
type Principal struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

func NewPrincipal(u *entity.User) Principal {
	return Principal{ID: u.ID, Email: u.Email, Verified: u.IsVerified}
}

// Register creates a new user with a bcrypt-hashed password. The welcome
// email is best effort and never fails the registration.
func (s *Service) Register(ctx context.Context, name, email, password string) (*entity.User, error) {
	exists, err := s.Repo.ExistsByEmail(email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Name:     name,
		Email:    email,
		Password: hash,
		IsActive: true,
	}
	if err := s.Repo.Create(u); err != nil {
		return nil, err
	}

	if s.Sender != nil {
		if err := s.Sender.SendWelcome(ctx, u.Email, u.Name); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("email", u.Email).Warn("welcome email failed")
		}
	}
	return u, nil
}

// Login validates the credentials and issues a bearer token for the email.
func (s *Service) Login(ctx context.Context, email, password string) (*entity.User, string, time.Time, error) {
	u, err := s.Repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		return nil, "", time.Time{}, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, "", time.Time{}, ErrAccountDisabled
	}

	token, exp, err := s.JWT.Issue(u.Email)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("email", u.Email).Error("token issue failed")
		}
		return nil, "", time.Time{}, err
	}
	return u, token, exp, nil
}

// GetByEmail rehydrates an identity for token subjects and OTP flows.
func (s *Service) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
