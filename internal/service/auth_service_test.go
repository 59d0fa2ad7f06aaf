package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/collegelink-api/internal/domain/entity"
	apperrors "github.com/yourusername/collegelink-api/internal/pkg/errors"
	"github.com/yourusername/collegelink-api/pkg/auth"
)

func newTestAuthService(t *testing.T, userRepo *MockUserRepo, emailService *MockEmailService, collegeData *MockCollegeDataProvider, degrade bool) *AuthService {
	t.Helper()

	jwtService, err := auth.NewJWTService("test-secret", 24, nil)
	require.NoError(t, err)

	svc, err := NewAuthService(userRepo, emailService, collegeData, jwtService, AuthServiceConfig{
		MinPasswordLength:        6,
		VerificationTTL:          24 * time.Hour,
		DegradeOnDispatchFailure: degrade,
	})
	require.NoError(t, err)
	return svc
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		FullName:        "Alice Johnson",
		Email:           "alice@mit.edu",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		Program:         "Computer Science",
		YearOfStudy:     "2",
	}
}

func TestRegisterUser_AccumulatesAllViolations(t *testing.T) {
	svc := newTestAuthService(t, new(MockUserRepo), new(MockEmailService), new(MockCollegeDataProvider), true)

	_, err := svc.RegisterUser(context.Background(), RegisterInput{})
	require.Error(t, err)

	ve, ok := AsValidationError(err)
	require.True(t, ok, "expected a ValidationError, got %v", err)
	assert.Len(t, ve.Violations, 4, "every missing field reported at once")
	assert.Contains(t, ve.Violations, "Please enter your full name")
	assert.Contains(t, ve.Violations, "Please enter your university email address")
	assert.Contains(t, ve.Violations, "Please create a password")
	assert.Contains(t, ve.Violations, "Please confirm your password")
}

func TestRegisterUser_MismatchAndShortPassword(t *testing.T) {
	svc := newTestAuthService(t, new(MockUserRepo), new(MockEmailService), new(MockCollegeDataProvider), true)

	input := validRegisterInput()
	input.Password = "abc"
	input.ConfirmPassword = "abcd"

	_, err := svc.RegisterUser(context.Background(), input)
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Violations, "The passwords you entered do not match")
	assert.Contains(t, ve.Violations, "Password must be at least 6 characters long")
	assert.Len(t, ve.Violations, 2)
}

func TestRegisterUser_InvalidEmailFormat(t *testing.T) {
	svc := newTestAuthService(t, new(MockUserRepo), new(MockEmailService), new(MockCollegeDataProvider), true)

	input := validRegisterInput()
	input.Email = "not-an-email"

	_, err := svc.RegisterUser(context.Background(), input)
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Violations, "Please enter a valid email address")
}

func TestRegisterUser_HappyPath(t *testing.T) {
	userRepo := new(MockUserRepo)
	emailService := new(MockEmailService)
	svc := newTestAuthService(t, userRepo, emailService, new(MockCollegeDataProvider), true)

	var createdUser *entity.User
	userRepo.On("Create", mock.AnythingOfType("*entity.User")).Run(func(args mock.Arguments) {
		createdUser = args.Get(0).(*entity.User)
		createdUser.ID = "user-1"
	}).Return(nil)
	emailService.On("SendVerificationEmail", mock.Anything, "alice@mit.edu", mock.AnythingOfType("string")).Return(nil)

	result, err := svc.RegisterUser(context.Background(), validRegisterInput())
	require.NoError(t, err)

	assert.True(t, result.EmailSent)
	assert.True(t, result.RequiresVerification)
	assert.Empty(t, result.Token, "no session until the email is verified")

	require.NotNil(t, createdUser)
	assert.False(t, createdUser.IsEmailVerified)
	require.NotNil(t, createdUser.VerificationToken)
	assert.Len(t, *createdUser.VerificationToken, 32)
	require.NotNil(t, createdUser.VerificationTokenExpiry)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), *createdUser.VerificationTokenExpiry, time.Minute)

	userRepo.AssertExpectations(t)
	emailService.AssertExpectations(t)
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := newTestAuthService(t, userRepo, new(MockEmailService), new(MockCollegeDataProvider), true)

	userRepo.On("Create", mock.Anything).Return(fmt.Errorf("insert users: %w", apperrors.ErrConflict))

	_, err := svc.RegisterUser(context.Background(), validRegisterInput())
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegisterUser_DispatchFailureDegrades(t *testing.T) {
	userRepo := new(MockUserRepo)
	emailService := new(MockEmailService)
	svc := newTestAuthService(t, userRepo, emailService, new(MockCollegeDataProvider), true)

	userRepo.On("Create", mock.Anything).Run(func(args mock.Arguments) {
		args.Get(0).(*entity.User).ID = "user-1"
	}).Return(nil)
	emailService.On("SendVerificationEmail", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))
	userRepo.On("UpdateProfile", "user-1", mock.MatchedBy(func(updates map[string]interface{}) bool {
		return updates["is_email_verified"] == true &&
			updates["verification_token"] == nil &&
			updates["verification_token_expiry"] == nil
	})).Return(nil)

	result, err := svc.RegisterUser(context.Background(), validRegisterInput())
	require.NoError(t, err)

	assert.False(t, result.EmailSent)
	assert.False(t, result.RequiresVerification)
	assert.NotEmpty(t, result.Token, "degraded signup gets a session immediately")
	assert.True(t, result.User.IsEmailVerified)
	assert.Nil(t, result.User.VerificationToken)

	userRepo.AssertExpectations(t)
}

func TestRegisterUser_DispatchFailureWithoutDegrade(t *testing.T) {
	userRepo := new(MockUserRepo)
	emailService := new(MockEmailService)
	svc := newTestAuthService(t, userRepo, emailService, new(MockCollegeDataProvider), false)

	userRepo.On("Create", mock.Anything).Return(nil)
	emailService.On("SendVerificationEmail", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	result, err := svc.RegisterUser(context.Background(), validRegisterInput())
	require.NoError(t, err)

	assert.False(t, result.EmailSent)
	assert.True(t, result.RequiresVerification, "account stays unverified when degradation is off")
	assert.Empty(t, result.Token)
	assert.False(t, result.User.IsEmailVerified)
	assert.NotNil(t, result.User.VerificationToken, "token survives for a later resend")

	userRepo.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything)
}

func pendingUser(token string, expiry time.Time) *entity.User {
	return &entity.User{
		ID:                      "user-1",
		FullName:                "Alice Johnson",
		Email:                   "alice@mit.edu",
		Program:                 "Computer Science",
		YearOfStudy:             "2",
		VerificationToken:       &token,
		VerificationTokenExpiry: &expiry,
	}
}

func TestVerifyEmail_HappyPath(t *testing.T) {
	userRepo := new(MockUserRepo)
	emailService := new(MockEmailService)
	collegeData := new(MockCollegeDataProvider)
	svc := newTestAuthService(t, userRepo, emailService, collegeData, true)

	user := pendingUser("live-token", time.Now().Add(time.Hour))
	enrichment := &entity.CollegeData{Department: "EECS", Courses: []string{"6.001"}}

	userRepo.On("GetByVerificationToken", "live-token").Return(user, nil)
	userRepo.On("UpdateProfile", "user-1", mock.MatchedBy(func(updates map[string]interface{}) bool {
		return updates["is_email_verified"] == true
	})).Return(nil)
	collegeData.On("FetchCollegeData", mock.Anything, mock.MatchedBy(func(info StudentInfo) bool {
		return info.Email == "alice@mit.edu" && info.Program == "Computer Science"
	})).Return(enrichment, nil)
	userRepo.On("UpdateProfile", "user-1", mock.MatchedBy(func(updates map[string]interface{}) bool {
		_, ok := updates["college_data"]
		return ok
	})).Return(nil)
	emailService.On("SendCollegeDataNotification", mock.Anything, "alice@mit.edu", "Alice Johnson", enrichment).Return(nil)

	result, err := svc.VerifyEmail(context.Background(), "live-token")
	require.NoError(t, err)

	assert.NotEmpty(t, result.Token)
	assert.True(t, result.User.IsEmailVerified)
	assert.Nil(t, result.User.VerificationToken)
	assert.Equal(t, enrichment, result.User.CollegeData)

	userRepo.AssertExpectations(t)
	collegeData.AssertExpectations(t)
	emailService.AssertExpectations(t)
}

func TestVerifyEmail_ExpiredToken(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := newTestAuthService(t, userRepo, new(MockEmailService), new(MockCollegeDataProvider), true)

	user := pendingUser("old-token", time.Now().Add(-time.Minute))
	userRepo.On("GetByVerificationToken", "old-token").Return(user, nil)

	_, err := svc.VerifyEmail(context.Background(), "old-token")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
	userRepo.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything)
}

func TestVerifyEmail_UnknownToken(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := newTestAuthService(t, userRepo, new(MockEmailService), new(MockCollegeDataProvider), true)

	userRepo.On("GetByVerificationToken", "nope").Return(nil, apperrors.ErrNotFound)

	_, err := svc.VerifyEmail(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	_, err = svc.VerifyEmail(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestVerifyEmail_EnrichmentFailureIsNotFatal(t *testing.T) {
	userRepo := new(MockUserRepo)
	collegeData := new(MockCollegeDataProvider)
	svc := newTestAuthService(t, userRepo, new(MockEmailService), collegeData, true)

	user := pendingUser("live-token", time.Now().Add(time.Hour))
	userRepo.On("GetByVerificationToken", "live-token").Return(user, nil)
	userRepo.On("UpdateProfile", "user-1", mock.Anything).Return(nil)
	collegeData.On("FetchCollegeData", mock.Anything, mock.Anything).Return(nil, errors.New("records system down"))

	result, err := svc.VerifyEmail(context.Background(), "live-token")
	require.NoError(t, err, "verification succeeds without enrichment")
	assert.True(t, result.User.IsEmailVerified)
	assert.Nil(t, result.User.CollegeData)
	assert.NotEmpty(t, result.Token)
}

func TestResendVerification_OverwritesToken(t *testing.T) {
	userRepo := new(MockUserRepo)
	emailService := new(MockEmailService)
	svc := newTestAuthService(t, userRepo, emailService, new(MockCollegeDataProvider), true)

	user := pendingUser("old-token", time.Now().Add(time.Hour))
	userRepo.On("GetByEmail", "alice@mit.edu").Return(user, nil)

	var newToken string
	userRepo.On("UpdateProfile", "user-1", mock.MatchedBy(func(updates map[string]interface{}) bool {
		token, ok := updates["verification_token"].(string)
		if !ok {
			return false
		}
		newToken = token
		_, hasExpiry := updates["verification_token_expiry"]
		return hasExpiry
	})).Return(nil)
	emailService.On("SendVerificationEmail", mock.Anything, "alice@mit.edu", mock.AnythingOfType("string")).Return(nil)

	emailSent, err := svc.ResendVerification(context.Background(), "alice@mit.edu")
	require.NoError(t, err)
	assert.True(t, emailSent)
	assert.NotEmpty(t, newToken)
	assert.NotEqual(t, "old-token", newToken, "resend must rotate the token")
}

func TestResendVerification_TokenRotatesEvenWhenEmailFails(t *testing.T) {
	userRepo := new(MockUserRepo)
	emailService := new(MockEmailService)
	svc := newTestAuthService(t, userRepo, emailService, new(MockCollegeDataProvider), true)

	user := pendingUser("old-token", time.Now().Add(time.Hour))
	userRepo.On("GetByEmail", "alice@mit.edu").Return(user, nil)
	userRepo.On("UpdateProfile", "user-1", mock.Anything).Return(nil)
	emailService.On("SendVerificationEmail", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	emailSent, err := svc.ResendVerification(context.Background(), "alice@mit.edu")
	require.NoError(t, err)
	assert.False(t, emailSent)
	userRepo.AssertExpectations(t)
}

func TestResendVerification_Errors(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := newTestAuthService(t, userRepo, new(MockEmailService), new(MockCollegeDataProvider), true)

	userRepo.On("GetByEmail", "ghost@mit.edu").Return(nil, apperrors.ErrNotFound)
	_, err := svc.ResendVerification(context.Background(), "ghost@mit.edu")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	verified := &entity.User{ID: "user-2", Email: "bob@mit.edu", IsEmailVerified: true}
	userRepo.On("GetByEmail", "bob@mit.edu").Return(verified, nil)
	_, err = svc.ResendVerification(context.Background(), "bob@mit.edu")
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestLoginUser(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := newTestAuthService(t, userRepo, new(MockEmailService), new(MockCollegeDataProvider), true)

	user := &entity.User{ID: "user-1", Email: "alice@mit.edu", Password: "secret123", IsEmailVerified: true}
	require.NoError(t, user.BeforeSave(nil))

	userRepo.On("GetByEmail", "alice@mit.edu").Return(user, nil)
	userRepo.On("GetByEmail", "ghost@mit.edu").Return(nil, apperrors.ErrNotFound)

	result, err := svc.LoginUser("alice@mit.edu", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "user-1", result.User.ID)

	_, err = svc.LoginUser("alice@mit.edu", "wrong-password")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = svc.LoginUser("ghost@mit.edu", "secret123")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized, "unknown email is indistinguishable from a bad password")
}

func TestLoginByIdentifier(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := newTestAuthService(t, userRepo, new(MockEmailService), new(MockCollegeDataProvider), true)

	user := &entity.User{ID: "user-1", FullName: "Alice Johnson", Email: "alice@mit.edu", Password: "secret123"}
	require.NoError(t, user.BeforeSave(nil))

	userRepo.On("GetByIdentifier", "Alice Johnson").Return(user, nil)

	result, err := svc.LoginByIdentifier("Alice Johnson", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "user-1", result.User.ID)
	assert.NotEmpty(t, result.Token)
}

func TestGetCollegeData_RequiresVerifiedAccount(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := newTestAuthService(t, userRepo, new(MockEmailService), new(MockCollegeDataProvider), true)

	unverified := &entity.User{ID: "user-1", Email: "alice@mit.edu"}
	userRepo.On("GetByID", "user-1").Return(unverified, nil)

	_, err := svc.GetCollegeData("user-1")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestVerificationTokensAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		token, err := generateVerificationToken()
		require.NoError(t, err)
		require.Len(t, token, 32)
		require.False(t, seen[token], "token collision")
		seen[token] = true
	}
}
