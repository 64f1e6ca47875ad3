package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	userRepo "gclient/database/repository/user"
	"gclient/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func (s *DefaultUserService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *DefaultUserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// GetAllUsers lists accounts of a role without password hashes.
func (s *DefaultUserService) GetAllUsers(ctx context.Context, role string) ([]models.User, error) {
	if role != "" && !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}
	return s.repo.GetAllWithProjection(ctx, role, bson.M{"password": 0, "fcmToken": 0})
}

// UpdateFCMToken registers the device that receives push notifications.
func (s *DefaultUserService) UpdateFCMToken(ctx context.Context, userID, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("fcm token is required")
	}
	if _, err := s.GetUserByID(ctx, userID); err != nil {
		return err
	}
	return s.repo.UpdateSetDocument(ctx, userID, bson.M{"fcmToken": token})
}

// SetDisabled enables or disables an account. Cached auth state is dropped so the
// change applies to the next request rather than after the cache expires.
func (s *DefaultUserService) SetDisabled(ctx context.Context, userID string, disabled bool) (*models.User, error) {
	u, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateSetDocument(ctx, userID, bson.M{"disabled": disabled, "updatedAt": time.Now()}); err != nil {
		return nil, fmt.Errorf("failed to update account status: %w", err)
	}
	u.Disabled = disabled

	if s.authCache != nil {
		if err := s.authCache.Invalidate(ctx, userID); err != nil {
			s.logger.Error("Failed to invalidate auth cache", zap.String("userId", userID), zap.Error(err))
		}
	}
	s.logger.Info("Account status changed", zap.String("userId", userID), zap.Bool("disabled", disabled))
	return u, nil
}
