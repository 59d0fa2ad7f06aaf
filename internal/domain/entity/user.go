package entity

import (
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is an account record with credential and verification state.
// Email uniqueness is enforced by a unique index on LOWER(email) in the
// database; application code must not rely on check-then-insert.
type User struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	FullName string `gorm:"size:100;not null" json:"full_name"`
	Email    string `gorm:"size:100;not null" json:"email"`
	Password string `gorm:"size:100;not null" json:"-"`

	PhoneNumber    string `gorm:"size:20;not null;default:''" json:"phone_number,omitempty"`
	ProfilePicture string `gorm:"size:255;not null;default:''" json:"profile_picture"`
	UniversityName string `gorm:"size:150;not null;default:''" json:"university_name,omitempty"`
	UniversityID   string `gorm:"size:50;not null;default:''" json:"university_id,omitempty"`
	Program        string `gorm:"size:100;not null;default:''" json:"program,omitempty"`
	YearOfStudy    string `gorm:"size:10;not null;default:''" json:"year_of_study,omitempty"`

	IsEmailVerified         bool       `gorm:"not null;default:false" json:"is_email_verified"`
	VerificationToken       *string    `gorm:"size:64;index" json:"-"`
	VerificationTokenExpiry *time.Time `gorm:"type:timestamp" json:"-"`

	// CollegeData is filled in after successful email verification when the
	// enrichment provider returns a record for the institution.
	CollegeData *CollegeData `gorm:"type:jsonb" json:"college_data,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName defines the table name for GORM.
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns an opaque id when none was provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// BeforeSave hashes the password unless it already is a bcrypt hash.
// Plaintext credentials must never reach the database.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if len(u.Password) > 0 && !strings.HasPrefix(u.Password, "$2a$") &&
		!strings.HasPrefix(u.Password, "$2b$") && !strings.HasPrefix(u.Password, "$2y$") {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("[User.BeforeSave] failed to hash password for email=%s: %v", u.Email, err)
			return err
		}
		u.Password = string(hashedPassword)
	}
	return nil
}

// CheckPassword reports whether the given password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// HasLiveVerificationToken reports whether a non-expired verification
// token is pending for this account.
func (u *User) HasLiveVerificationToken(now time.Time) bool {
	return u.VerificationToken != nil &&
		u.VerificationTokenExpiry != nil &&
		now.Before(*u.VerificationTokenExpiry)
}
