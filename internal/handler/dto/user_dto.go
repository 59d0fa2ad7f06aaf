package dto

import (
	"time"

	"github.com/yourusername/collegelink-api/internal/domain/entity"
)

// UserDTO is the public projection of an account record.
type UserDTO struct {
	ID              string              `json:"id"`
	FullName        string              `json:"full_name"`
	Email           string              `json:"email"`
	PhoneNumber     string              `json:"phone_number,omitempty"`
	ProfilePicture  string              `json:"profile_picture,omitempty"`
	UniversityName  string              `json:"university_name,omitempty"`
	UniversityID    string              `json:"university_id,omitempty"`
	Program         string              `json:"program,omitempty"`
	YearOfStudy     string              `json:"year_of_study,omitempty"`
	IsEmailVerified bool                `json:"is_email_verified"`
	CollegeData     *entity.CollegeData `json:"college_data,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

// NewUserDTO projects an entity.User for API responses.
func NewUserDTO(u *entity.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:              u.ID,
		FullName:        u.FullName,
		Email:           u.Email,
		PhoneNumber:     u.PhoneNumber,
		ProfilePicture:  u.ProfilePicture,
		UniversityName:  u.UniversityName,
		UniversityID:    u.UniversityID,
		Program:         u.Program,
		YearOfStudy:     u.YearOfStudy,
		IsEmailVerified: u.IsEmailVerified,
		CollegeData:     u.CollegeData,
		CreatedAt:       u.CreatedAt,
	}
}

// NewUserDTOs projects a slice of users.
func NewUserDTOs(users []entity.User) []*UserDTO {
	out := make([]*UserDTO, 0, len(users))
	for i := range users {
		out = append(out, NewUserDTO(&users[i]))
	}
	return out
}

// AuthResponse carries a user plus their session credential.
type AuthResponse struct {
	User        *UserDTO `json:"user"`
	AccessToken string   `json:"accessToken"`
	TokenType   string   `json:"tokenType"`
	ExpiresIn   int      `json:"expiresIn"`
}

// SignupResponse reports a signup outcome. AccessToken is present only
// when no verification step remains.
type SignupResponse struct {
	Message              string   `json:"message"`
	RequiresVerification bool     `json:"requires_verification"`
	EmailSent            bool     `json:"email_sent"`
	User                 *UserDTO `json:"user"`
	AccessToken          string   `json:"accessToken,omitempty"`
}
