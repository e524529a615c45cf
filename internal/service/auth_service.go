package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"campusevents/internal/auth"
	apperr "campusevents/internal/errors"
	"campusevents/internal/model"
	"campusevents/internal/repository"
)

const bcryptCost = 10

// ProfilePatch carries the optional profile fields of an update request.
// A nil field means "leave unchanged"; only supplied fields reach the store.
type ProfilePatch struct {
	FullName      *string
	Faculty       *string
	ProfilePicURL *string
}

// AuthService handles account and credential operations.
type AuthService interface {
	Register(ctx context.Context, email, password, fullName, faculty string) (*model.User, error)
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
	Profile(ctx context.Context, userID uint) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uint, patch ProfilePatch) error
	ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error
	ListStudents(ctx context.Context) ([]model.User, error)
	IssuePasswordReset(ctx context.Context, userID uint) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	resetStore auth.ResetTokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, resetStore auth.ResetTokenStoreInterface) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		resetStore: resetStore,
	}
}

// normalizeEmail lowercases the address so uniqueness and lookups are
// case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new student account with a hashed password.
func (s *authService) Register(ctx context.Context, email, password, fullName, faculty string) (*model.User, error) {
	email = normalizeEmail(email)

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperr.ErrDuplicateEmail
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         model.RoleStudent,
		Faculty:      faculty,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The unique index backstops the lookup above under concurrent signups.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user and issues a session token. Unknown email and
// wrong password fail identically.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", nil, apperr.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperr.ErrInvalidCredentials
	}

	token, err := s.jwtService.Issue(user.ID, user.Role, user.FullName)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	return token, user, nil
}

// Profile returns the user's own account record.
func (s *authService) Profile(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the supplied fields only.
func (s *authService) UpdateProfile(ctx context.Context, userID uint, patch ProfilePatch) error {
	updates := make(map[string]interface{})
	if patch.FullName != nil {
		updates["full_name"] = *patch.FullName
	}
	if patch.Faculty != nil {
		updates["faculty"] = *patch.Faculty
	}
	if patch.ProfilePicURL != nil {
		updates["profile_pic_url"] = *patch.ProfilePicURL
	}
	if len(updates) == 0 {
		return apperr.ErrNoFieldsToUpdate
	}

	if err := s.userRepo.UpdateProfile(ctx, userID, updates); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// ChangePassword re-verifies the current password before storing the new one.
func (s *authService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return apperr.ErrInvalidCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, string(hashedPassword)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// ListStudents returns all student accounts.
func (s *authService) ListStudents(ctx context.Context) ([]model.User, error) {
	return s.userRepo.ListByRole(ctx, model.RoleStudent)
}

// IssuePasswordReset creates a one-time reset token for the user. The token
// is handed to the admin out of band; the account password stays untouched
// until the user redeems it.
func (s *authService) IssuePasswordReset(ctx context.Context, userID uint) (string, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperr.ErrUserNotFound
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	token, err := s.resetStore.Create(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("create reset token: %w", err)
	}
	return token, nil
}

// ResetPassword redeems a one-time reset token and sets the new password.
func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := s.resetStore.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, auth.ErrResetTokenNotFound) {
			return apperr.ErrInvalidResetToken
		}
		return fmt.Errorf("consume reset token: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, string(hashedPassword)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
