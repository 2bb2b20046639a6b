package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wastedx7/Secure-User-Authentication/internal/domain/entity"
	"github.com/wastedx7/Secure-User-Authentication/internal/domain/repository"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(u *entity.User) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, is_verified, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, u.Name, u.Email, u.Password, u.IsVerified, u.IsActive)

	return row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) GetByEmail(email string) (*entity.User, error) {
	ctx := context.Background()
	u := &entity.User{}

	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, is_verified, is_active,
		       verify_otp, verify_otp_expires_at, reset_otp, reset_otp_expires_at,
		       created_at, updated_at
		FROM users
		WHERE email = $1
	`, email)

	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.IsVerified, &u.IsActive,
		&u.VerifyOTP, &u.VerifyOTPExpiresAt, &u.ResetOTP, &u.ResetOTPExpiresAt,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return u, nil
}

func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	ctx := context.Background()
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)
	`, email).Scan(&exists)
	return exists, err
}

// Update writes the full record in one statement so that OTP consumption
// and its effects are never split across writes.
func (r *UserRepository) Update(u *entity.User) error {
	ctx := context.Background()
	u.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET name = $1, email = $2, password_hash = $3, is_verified = $4, is_active = $5,
		    verify_otp = $6, verify_otp_expires_at = $7,
		    reset_otp = $8, reset_otp_expires_at = $9,
		    updated_at = $10
		WHERE id = $11
	`, u.Name, u.Email, u.Password, u.IsVerified, u.IsActive,
		u.VerifyOTP, u.VerifyOTPExpiresAt, u.ResetOTP, u.ResetOTPExpiresAt,
		u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
