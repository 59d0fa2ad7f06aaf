package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/collegelink-api/internal/domain/entity"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(id string) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) GetByIdentifier(identifier string) (*entity.User, error) {
	args := m.Called(identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) GetByVerificationToken(token string) (*entity.User, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) UpdateProfile(userID string, updates map[string]interface{}) error {
	args := m.Called(userID, updates)
	return args.Error(0)
}

func (m *MockUserRepo) UpdatePassword(userID string, newPassword string) error {
	args := m.Called(userID, newPassword)
	return args.Error(0)
}

func (m *MockUserRepo) EmailExists(email string) (bool, error) {
	args := m.Called(email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepo) List(limit, offset int) ([]entity.User, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockUserRepo) DeleteAll() error {
	args := m.Called()
	return args.Error(0)
}

type MockPostRepo struct {
	mock.Mock
}

func (m *MockPostRepo) Create(post *entity.Post) error {
	args := m.Called(post)
	return args.Error(0)
}

func (m *MockPostRepo) GetByID(id string) (*entity.Post, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostRepo) List(limit, offset int) ([]entity.Post, int64, error) {
	args := m.Called(limit, offset)
	var posts []entity.Post
	if args.Get(0) != nil {
		posts = args.Get(0).([]entity.Post)
	}
	return posts, args.Get(1).(int64), args.Error(2)
}

func (m *MockPostRepo) ListByUser(userID string, limit, offset int) ([]entity.Post, int64, error) {
	args := m.Called(userID, limit, offset)
	var posts []entity.Post
	if args.Get(0) != nil {
		posts = args.Get(0).([]entity.Post)
	}
	return posts, args.Get(1).(int64), args.Error(2)
}

func (m *MockPostRepo) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockPostRepo) ToggleLike(postID, userID string) (bool, int64, error) {
	args := m.Called(postID, userID)
	return args.Bool(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostRepo) DeleteAll() error {
	args := m.Called()
	return args.Error(0)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendVerificationEmail(ctx context.Context, toEmail, verificationToken string) error {
	args := m.Called(ctx, toEmail, verificationToken)
	return args.Error(0)
}

func (m *MockEmailService) SendCollegeDataNotification(ctx context.Context, toEmail, fullName string, data *entity.CollegeData) error {
	args := m.Called(ctx, toEmail, fullName, data)
	return args.Error(0)
}

type MockCollegeDataProvider struct {
	mock.Mock
}

func (m *MockCollegeDataProvider) FetchCollegeData(ctx context.Context, info StudentInfo) (*entity.CollegeData, error) {
	args := m.Called(ctx, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CollegeData), args.Error(1)
}
