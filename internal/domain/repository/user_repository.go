package repository

import (
	"errors"

	"github.com/wastedx7/Secure-User-Authentication/internal/domain/entity"
)

// ErrNotFound is returned when no user matches the lookup.
var ErrNotFound = errors.New("not found")

// UserRepository defines the interface for user-related database operations.
//
// Update must persist the whole record in a single statement: OTP
// consumption relies on the code fields and their effects (verified flag,
// rotated password hash) landing atomically.
type UserRepository interface {
	Create(u *entity.User) error
	GetByEmail(email string) (*entity.User, error)
	ExistsByEmail(email string) (bool, error)
	Update(u *entity.User) error
}
