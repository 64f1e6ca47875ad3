package user

import (
	"context"
	"fmt"
	"time"

	"gclient/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func (s *DefaultUserService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	u, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		s.logger.Error("Login: failed to fetch user", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if u.Disabled {
		return nil, ErrAccountDisabled
	}
	if !u.IsVerified {
		return nil, ErrNotVerified
	}

	now := time.Now()
	if err := s.repo.UpdateSetDocument(ctx, u.ID, bson.M{"lastLogin": now}); err != nil {
		s.logger.Warn("Login: failed to record last login", zap.String("userId", u.ID), zap.Error(err))
	}
	u.LastLogin = &now
	return s.issue(u)
}

func (s *DefaultUserService) issue(u *models.User) (*AuthResponse, error) {
	token, err := s.tokens.GenerateToken(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &AuthResponse{
		ID:        u.ID,
		Token:     token,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
	}, nil
}
