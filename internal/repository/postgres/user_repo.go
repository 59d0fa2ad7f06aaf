package postgres

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yourusername/collegelink-api/internal/domain/entity"
	apperrors "github.com/yourusername/collegelink-api/internal/pkg/errors"
)

// UserRepo implements repository.UserRepository on PostgreSQL.
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo creates a new user repository.
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// uniqueViolationCode is the PostgreSQL error code for unique constraint violations.
const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// Create persists a new user. Email uniqueness is decided here by the
// unique index on LOWER(email), not by a prior existence check, so two
// concurrent signups racing on the same address cannot both succeed.
func (r *UserRepo) Create(user *entity.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		return err
	}
	return nil
}

// GetByID returns a user by id.
func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns a user by normalized (case-insensitive) email.
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByIdentifier returns a user by exact email or case-insensitive
// full name. Kept for the legacy identifier login path.
func (r *UserRepo) GetByIdentifier(identifier string) (*entity.User, error) {
	var user entity.User
	normalized := strings.ToLower(strings.TrimSpace(identifier))
	err := r.db.Where("LOWER(email) = ? OR LOWER(full_name) = ?", normalized, normalized).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByVerificationToken returns the user holding the exact token.
func (r *UserRepo) GetByVerificationToken(token string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("verification_token = ?", token).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile updates only the given fields, never the password.
// Nil values clear nullable columns (verification token and expiry).
func (r *UserRepo) UpdateProfile(userID string, updates map[string]interface{}) error {
	delete(updates, "password")
	updates["updated_at"] = time.Now()
	return r.db.Model(&entity.User{}).Where("id = ?", userID).Updates(updates).Error
}

// UpdatePassword hashes and stores a new password. Hashing happens here
// and the update bypasses the BeforeSave hook via raw SQL, so the hash
// is never hashed a second time.
func (r *UserRepo) UpdatePassword(userID string, newPassword string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[UserRepo.UpdatePassword] failed to hash password: %v", err)
		return err
	}

	result := r.db.Exec(
		"UPDATE users SET password = ?, updated_at = ? WHERE id = ?",
		string(hashedPassword),
		time.Now(),
		userID,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// EmailExists reports whether the normalized email is already registered.
// The workflow uses this defensively; Create remains authoritative.
func (r *UserRepo) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&entity.User{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns users with pagination, oldest first.
func (r *UserRepo) List(limit, offset int) ([]entity.User, error) {
	var users []entity.User
	err := r.db.Limit(limit).Offset(offset).Order("created_at").Find(&users).Error
	return users, err
}

// DeleteAll removes every account in one statement. A single DELETE is
// atomic, so concurrent readers see either all rows or none.
func (r *UserRepo) DeleteAll() error {
	return r.db.Exec("DELETE FROM users").Error
}
