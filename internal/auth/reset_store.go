package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"campusevents/internal/cache"
)

const (
	resetTokenKeyPrefix = "password_reset:"
	// ResetTokenTTL bounds how long an issued reset token stays redeemable.
	ResetTokenTTL = 15 * time.Minute
)

// ErrResetTokenNotFound is returned when a token is unknown, expired or already consumed.
var ErrResetTokenNotFound = errors.New("reset token not found")

// ResetTokenStoreInterface defines one-time password reset token operations.
type ResetTokenStoreInterface interface {
	Create(ctx context.Context, userID uint) (string, error)
	Consume(ctx context.Context, token string) (uint, error)
}

// ResetTokenStore keeps one-time password reset tokens in Redis. A token is
// bound to a single user, expires after ResetTokenTTL and is deleted on first
// use, so a captured token cannot be replayed.
type ResetTokenStore struct {
	cache *cache.Client
}

var _ ResetTokenStoreInterface = (*ResetTokenStore)(nil)

// NewResetTokenStore creates a new reset token store.
func NewResetTokenStore(cache *cache.Client) *ResetTokenStore {
	return &ResetTokenStore{cache: cache}
}

// Create issues a fresh token for the user and stores it with TTL.
func (s *ResetTokenStore) Create(ctx context.Context, userID uint) (string, error) {
	token := uuid.New().String()
	key := resetTokenKeyPrefix + token
	payload := []byte(strconv.FormatUint(uint64(userID), 10))
	if err := s.cache.Set(ctx, key, payload, ResetTokenTTL); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}
	return token, nil
}

// Consume redeems a token exactly once and returns the bound user ID.
func (s *ResetTokenStore) Consume(ctx context.Context, token string) (uint, error) {
	key := resetTokenKeyPrefix + token
	data, err := s.cache.GetDel(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("consume reset token: %w", err)
	}
	if data == nil {
		return 0, ErrResetTokenNotFound
	}
	userID, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("decode reset token payload: %w", err)
	}
	return uint(userID), nil
}
