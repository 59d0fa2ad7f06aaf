package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/collegelink-api/internal/domain/entity"
	"github.com/yourusername/collegelink-api/internal/domain/repository"
	apperrors "github.com/yourusername/collegelink-api/internal/pkg/errors"
	"github.com/yourusername/collegelink-api/pkg/auth"
)

// RegisterInput is the signup payload after transport decoding.
type RegisterInput struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
	UniversityName  string
	Program         string
	YearOfStudy     string
}

// RegisterResult reports the outcome of a signup.
type RegisterResult struct {
	User *entity.User
	// EmailSent is false when the verification email could not be
	// dispatched.
	EmailSent bool
	// RequiresVerification is false when dispatch failed and the account
	// was degraded to verified to keep signup available.
	RequiresVerification bool
	// Token is set only when no verification step remains.
	Token string
}

// AuthResult is a user plus their session credential.
type AuthResult struct {
	User  *entity.User
	Token string
}

// AuthService implements signup, email verification and login.
type AuthService struct {
	userRepo     repository.UserRepository
	emailService EmailService
	collegeData  CollegeDataProvider
	jwtService   *auth.JWTService

	minPasswordLength int
	verificationTTL   time.Duration
	// degradeOnDispatchFailure marks accounts verified when the
	// verification email cannot be sent, instead of leaving them stuck
	// unverified during a notification outage.
	degradeOnDispatchFailure bool
}

// AuthServiceConfig carries signup policy knobs.
type AuthServiceConfig struct {
	MinPasswordLength        int
	VerificationTTL          time.Duration
	DegradeOnDispatchFailure bool
}

// NewAuthService creates the auth service. All collaborators are required.
func NewAuthService(
	userRepo repository.UserRepository,
	emailService EmailService,
	collegeData CollegeDataProvider,
	jwtService *auth.JWTService,
	cfg AuthServiceConfig,
) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("userRepo is required")
	}
	if emailService == nil {
		return nil, fmt.Errorf("emailService is required")
	}
	if collegeData == nil {
		return nil, fmt.Errorf("collegeData provider is required")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("jwtService is required")
	}
	if cfg.MinPasswordLength <= 0 {
		cfg.MinPasswordLength = 6
	}
	if cfg.VerificationTTL <= 0 {
		cfg.VerificationTTL = 24 * time.Hour
	}
	return &AuthService{
		userRepo:                 userRepo,
		emailService:             emailService,
		collegeData:              collegeData,
		jwtService:               jwtService,
		minPasswordLength:        cfg.MinPasswordLength,
		verificationTTL:          cfg.VerificationTTL,
		degradeOnDispatchFailure: cfg.DegradeOnDispatchFailure,
	}, nil
}

var emailFormatChecker = NewCollegeEmailVerifier()

// validateRegisterInput collects every violated rule instead of stopping
// at the first one, so the client can surface the full list at once.
func (s *AuthService) validateRegisterInput(input RegisterInput) []string {
	var violations []string

	if input.FullName == "" {
		violations = append(violations, "Please enter your full name")
	}
	if input.Email == "" {
		violations = append(violations, "Please enter your university email address")
	} else if !emailFormatChecker.IsValidEmailFormat(input.Email) {
		violations = append(violations, "Please enter a valid email address")
	}
	if input.Password == "" {
		violations = append(violations, "Please create a password")
	}
	if input.ConfirmPassword == "" {
		violations = append(violations, "Please confirm your password")
	}
	if input.Password != input.ConfirmPassword {
		violations = append(violations, "The passwords you entered do not match")
	}
	if input.Password != "" && len(input.Password) < s.minPasswordLength {
		violations = append(violations, fmt.Sprintf("Password must be at least %d characters long", s.minPasswordLength))
	}

	return violations
}

// RegisterUser creates an unverified account and dispatches the
// verification email. Uniqueness is decided by the database insert, not
// by a pre-check, so concurrent signups with the same email cannot both
// succeed.
func (s *AuthService) RegisterUser(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	if violations := s.validateRegisterInput(input); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	token, err := generateVerificationToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification token: %w", err)
	}
	expiry := time.Now().Add(s.verificationTTL)

	user := &entity.User{
		FullName:                input.FullName,
		Email:                   input.Email,
		Password:                input.Password,
		UniversityName:          input.UniversityName,
		Program:                 input.Program,
		YearOfStudy:             input.YearOfStudy,
		IsEmailVerified:         false,
		VerificationToken:       &token,
		VerificationTokenExpiry: &expiry,
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.emailService.SendVerificationEmail(ctx, user.Email, token); err != nil {
		log.Printf("[AuthService] verification email dispatch failed for user=%s: %v", user.ID, err)
		return s.handleDispatchFailure(user)
	}

	return &RegisterResult{
		User:                 user,
		EmailSent:            true,
		RequiresVerification: true,
	}, nil
}

// handleDispatchFailure resolves a signup whose verification email could
// not be sent. With degradation enabled the account is verified on the
// spot and gets a session credential; otherwise it stays unverified and
// the caller reports the outage.
func (s *AuthService) handleDispatchFailure(user *entity.User) (*RegisterResult, error) {
	if !s.degradeOnDispatchFailure {
		return &RegisterResult{
			User:                 user,
			EmailSent:            false,
			RequiresVerification: true,
		}, nil
	}

	updates := map[string]interface{}{
		"is_email_verified":         true,
		"verification_token":        nil,
		"verification_token_expiry": nil,
	}
	if err := s.userRepo.UpdateProfile(user.ID, updates); err != nil {
		return nil, fmt.Errorf("failed to degrade user to verified: %w", err)
	}
	user.IsEmailVerified = true
	user.VerificationToken = nil
	user.VerificationTokenExpiry = nil

	token, err := s.jwtService.IssueToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	return &RegisterResult{
		User:                 user,
		EmailSent:            false,
		RequiresVerification: false,
		Token:                token,
	}, nil
}

// VerifyEmail consumes a verification token: marks the account verified,
// attaches college data when the provider has any, and issues a session
// credential.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*AuthResult, error) {
	if token == "" {
		return nil, ErrInvalidOrExpiredToken
	}

	user, err := s.userRepo.GetByVerificationToken(token)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("failed to look up verification token: %w", err)
	}

	if !user.HasLiveVerificationToken(time.Now()) {
		return nil, ErrInvalidOrExpiredToken
	}

	updates := map[string]interface{}{
		"is_email_verified":         true,
		"verification_token":        nil,
		"verification_token_expiry": nil,
	}
	if err := s.userRepo.UpdateProfile(user.ID, updates); err != nil {
		return nil, fmt.Errorf("failed to mark user verified: %w", err)
	}
	user.IsEmailVerified = true
	user.VerificationToken = nil
	user.VerificationTokenExpiry = nil

	// Enrichment is best effort; a verified account without college data
	// is a valid state.
	collegeData, err := s.collegeData.FetchCollegeData(ctx, StudentInfo{
		Email:          user.Email,
		UniversityName: user.UniversityName,
		UniversityID:   user.UniversityID,
		Program:        user.Program,
		YearOfStudy:    user.YearOfStudy,
	})
	if err != nil {
		log.Printf("[AuthService] college data fetch failed for user=%s: %v", user.ID, err)
	} else if collegeData != nil {
		if err := s.userRepo.UpdateProfile(user.ID, map[string]interface{}{"college_data": collegeData}); err != nil {
			log.Printf("[AuthService] failed to store college data for user=%s: %v", user.ID, err)
		} else {
			user.CollegeData = collegeData
			if err := s.emailService.SendCollegeDataNotification(ctx, user.Email, user.FullName, collegeData); err != nil {
				log.Printf("[AuthService] college data notification failed for user=%s: %v", user.ID, err)
			}
		}
	}

	sessionToken, err := s.jwtService.IssueToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	return &AuthResult{User: user, Token: sessionToken}, nil
}

// ResendVerification replaces the pending token with a fresh one and
// redispatches the email. The previous token is dead from this point on,
// even if the new email never arrives.
func (s *AuthService) ResendVerification(ctx context.Context, email string) (emailSent bool, err error) {
	if email == "" {
		return false, &ValidationError{Violations: []string{"Please enter your university email address"}}
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, ErrAccountNotFound
		}
		return false, fmt.Errorf("failed to look up user: %w", err)
	}

	if user.IsEmailVerified {
		return false, ErrAlreadyVerified
	}

	token, err := generateVerificationToken()
	if err != nil {
		return false, fmt.Errorf("failed to generate verification token: %w", err)
	}
	expiry := time.Now().Add(s.verificationTTL)

	updates := map[string]interface{}{
		"verification_token":        token,
		"verification_token_expiry": expiry,
	}
	if err := s.userRepo.UpdateProfile(user.ID, updates); err != nil {
		return false, fmt.Errorf("failed to store new verification token: %w", err)
	}

	if err := s.emailService.SendVerificationEmail(ctx, user.Email, token); err != nil {
		log.Printf("[AuthService] resend verification email failed for user=%s: %v", user.ID, err)
		return false, nil
	}
	return true, nil
}

// LoginUser authenticates strictly by email.
func (s *AuthService) LoginUser(email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, &ValidationError{Violations: []string{"Email and password are required"}}
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	return s.authenticate(user, password)
}

// LoginByIdentifier authenticates by email or case-insensitive full
// name. Kept for clients that still send a username field.
func (s *AuthService) LoginByIdentifier(identifier, password string) (*AuthResult, error) {
	if identifier == "" || password == "" {
		return nil, &ValidationError{Violations: []string{"Username and password are required"}}
	}

	user, err := s.userRepo.GetByIdentifier(identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	return s.authenticate(user, password)
}

func (s *AuthService) authenticate(user *entity.User, password string) (*AuthResult, error) {
	if !user.CheckPassword(password) {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	token, err := s.jwtService.IssueToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Logout revokes the presented session credential.
func (s *AuthService) Logout(token string) error {
	return s.jwtService.RevokeToken(token)
}

// GetProfile returns the account record for an authenticated user.
func (s *AuthService) GetProfile(userID string) (*entity.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return user, nil
}

// UpdateProfile merges editable profile fields. Credential and
// verification columns are not reachable through this path.
func (s *AuthService) UpdateProfile(userID string, updates map[string]interface{}) (*entity.User, error) {
	allowed := map[string]bool{
		"full_name":       true,
		"phone_number":    true,
		"profile_picture": true,
		"university_name": true,
		"university_id":   true,
		"program":         true,
		"year_of_study":   true,
	}
	filtered := make(map[string]interface{}, len(updates))
	for key, value := range updates {
		if allowed[key] {
			filtered[key] = value
		}
	}
	if len(filtered) == 0 {
		return nil, &ValidationError{Violations: []string{"No updatable fields provided"}}
	}

	if err := s.userRepo.UpdateProfile(userID, filtered); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.GetProfile(userID)
}

// GetCollegeData returns the enrichment payload for a verified account.
func (s *AuthService) GetCollegeData(userID string) (*entity.CollegeData, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	if !user.IsEmailVerified {
		return nil, fmt.Errorf("%w: email verification required", apperrors.ErrForbidden)
	}
	return user.CollegeData, nil
}

// generateVerificationToken returns 32 hex chars of crypto-random entropy.
func generateVerificationToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
