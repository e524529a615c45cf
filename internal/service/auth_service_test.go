package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"campusevents/internal/auth"
	apperr "campusevents/internal/errors"
	"campusevents/internal/model"
)

func newAuthServiceForTest(userRepo *MockUserRepository, resetStore *MockResetTokenStore) (AuthService, *auth.JWTService) {
	jwtService := auth.NewJWTService("test-secret")
	return NewAuthService(userRepo, jwtService, resetStore), jwtService
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		fullName      string
		faculty       string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful registration",
			email:    "student@example.com",
			password: "password123",
			fullName: "Test Student",
			faculty:  "Engineering",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "student@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "email is normalized to lowercase",
			email:    "Student@Example.COM",
			password: "password123",
			fullName: "Test Student",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "student@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "duplicate email",
			email:    "existing@example.com",
			password: "password123",
			fullName: "Existing User",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "existing@example.com").Return(&model.User{Email: "existing@example.com"}, nil)
			},
			expectedError: apperr.ErrDuplicateEmail,
		},
		{
			name:     "duplicate caught by unique index under race",
			email:    "racer@example.com",
			password: "password123",
			fullName: "Racer",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "racer@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperr.ErrDuplicateEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service, _ := newAuthServiceForTest(mockRepo, new(MockResetTokenStore))
			user, err := service.Register(context.Background(), tt.email, tt.password, tt.fullName, tt.faculty)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, model.RoleStudent, user.Role)
				assert.Equal(t, tt.fullName, user.FullName)
				assert.NotEqual(t, tt.password, user.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tt.password)))
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), 10)
	storedUser := &model.User{
		ID:           42,
		FullName:     "Test Student",
		Email:        "student@example.com",
		PasswordHash: string(hash),
		Role:         model.RoleStudent,
	}

	t.Run("successful login issues verifiable token", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByEmail", mock.Anything, "student@example.com").Return(storedUser, nil)

		service, jwtService := newAuthServiceForTest(mockRepo, new(MockResetTokenStore))
		token, user, err := service.Login(context.Background(), "student@example.com", "password123")

		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, storedUser.ID, user.ID)

		claims, err := jwtService.Verify(token)
		assert.NoError(t, err)
		assert.Equal(t, storedUser.ID, claims.UserID)
		assert.Equal(t, model.RoleStudent, claims.Role)

		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown email and wrong password fail identically", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByEmail", mock.Anything, "unknown@example.com").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("FindByEmail", mock.Anything, "student@example.com").Return(storedUser, nil)

		service, _ := newAuthServiceForTest(mockRepo, new(MockResetTokenStore))

		_, _, errUnknown := service.Login(context.Background(), "unknown@example.com", "whatever")
		_, _, errWrongPass := service.Login(context.Background(), "student@example.com", "wrong-password")

		assert.ErrorIs(t, errUnknown, apperr.ErrInvalidCredentials)
		assert.ErrorIs(t, errWrongPass, apperr.ErrInvalidCredentials)
		assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
	})

	t.Run("login is case-insensitive on email", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByEmail", mock.Anything, "student@example.com").Return(storedUser, nil)

		service, _ := newAuthServiceForTest(mockRepo, new(MockResetTokenStore))
		_, user, err := service.Login(context.Background(), "Student@Example.Com", "password123")

		assert.NoError(t, err)
		assert.Equal(t, storedUser.ID, user.ID)
		mockRepo.AssertExpectations(t)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("old-password"), 10)
	storedUser := &model.User{ID: 7, PasswordHash: string(hash)}

	t.Run("success stores a new hash", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, uint(7)).Return(storedUser, nil)
		mockRepo.On("UpdatePassword", mock.Anything, uint(7), mock.MatchedBy(func(newHash string) bool {
			return bcrypt.CompareHashAndPassword([]byte(newHash), []byte("new-password")) == nil
		})).Return(nil)

		service, _ := newAuthServiceForTest(mockRepo, new(MockResetTokenStore))
		err := service.ChangePassword(context.Background(), 7, "old-password", "new-password")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("wrong current password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, uint(7)).Return(storedUser, nil)

		service, _ := newAuthServiceForTest(mockRepo, new(MockResetTokenStore))
		err := service.ChangePassword(context.Background(), 7, "not-the-password", "new-password")

		assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	})

	t.Run("user vanished", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, uint(7)).Return(nil, gorm.ErrRecordNotFound)

		service, _ := newAuthServiceForTest(mockRepo, new(MockResetTokenStore))
		err := service.ChangePassword(context.Background(), 7, "old-password", "new-password")

		assert.ErrorIs(t, err, apperr.ErrUserNotFound)
	})
}

func TestAuthService_PasswordReset(t *testing.T) {
	t.Run("issue requires an existing user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		service, _ := newAuthServiceForTest(mockRepo, new(MockResetTokenStore))
		_, err := service.IssuePasswordReset(context.Background(), 99)

		assert.ErrorIs(t, err, apperr.ErrUserNotFound)
	})

	t.Run("issue returns the stored token", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, uint(7)).Return(&model.User{ID: 7}, nil)
		mockStore := new(MockResetTokenStore)
		mockStore.On("Create", mock.Anything, uint(7)).Return("one-time-token", nil)

		service, _ := newAuthServiceForTest(mockRepo, mockStore)
		token, err := service.IssuePasswordReset(context.Background(), 7)

		assert.NoError(t, err)
		assert.Equal(t, "one-time-token", token)
		mockStore.AssertExpectations(t)
	})

	t.Run("redeem sets the new password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("UpdatePassword", mock.Anything, uint(7), mock.MatchedBy(func(newHash string) bool {
			return bcrypt.CompareHashAndPassword([]byte(newHash), []byte("fresh-password")) == nil
		})).Return(nil)
		mockStore := new(MockResetTokenStore)
		mockStore.On("Consume", mock.Anything, "one-time-token").Return(uint(7), nil)

		service, _ := newAuthServiceForTest(mockRepo, mockStore)
		err := service.ResetPassword(context.Background(), "one-time-token", "fresh-password")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown token is rejected", func(t *testing.T) {
		mockStore := new(MockResetTokenStore)
		mockStore.On("Consume", mock.Anything, "stale-token").Return(uint(0), auth.ErrResetTokenNotFound)

		service, _ := newAuthServiceForTest(new(MockUserRepository), mockStore)
		err := service.ResetPassword(context.Background(), "stale-token", "fresh-password")

		assert.ErrorIs(t, err, apperr.ErrInvalidResetToken)
	})
}
