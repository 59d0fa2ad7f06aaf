package repository

import (
	"github.com/yourusername/collegelink-api/internal/domain/entity"
)

// UserRepository defines persistence operations over account records.
// Implementations must be safe for concurrent use; Create must rely on
// the storage-level unique constraint on the normalized email and
// return apperrors.ErrConflict when it is violated.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	// GetByIdentifier looks a user up by exact email or by
	// case-insensitive full name. Legacy convenience for
	// username-style login; prefer GetByEmail.
	GetByIdentifier(identifier string) (*entity.User, error)
	GetByVerificationToken(token string) (*entity.User, error)
	// UpdateProfile merges only the provided fields; nil values clear
	// nullable columns (verification token and expiry).
	UpdateProfile(userID string, updates map[string]interface{}) error
	UpdatePassword(userID string, newPassword string) error
	EmailExists(email string) (bool, error)
	List(limit, offset int) ([]entity.User, error)
	// DeleteAll removes every account in a single statement; callers
	// observe either all records gone or none.
	DeleteAll() error
}
