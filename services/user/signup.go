package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gclient/models"
	"gclient/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Register creates an unverified account and emails a verification code.
// A failed email does not undo the account; the code can be re-sent.
func (s *DefaultUserService) Register(ctx context.Context, role string, data models.UserRegistrationData) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}
	if err := VerifyPasswordComplexity(data.Password); err != nil {
		return nil, err
	}
	email := normalizeEmail(data.Email)

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("registration failed, please try again: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &models.User{
		ID:        uuid.New().String(),
		FirstName: strings.TrimSpace(data.FirstName),
		LastName:  strings.TrimSpace(data.LastName),
		Email:     email,
		Password:  string(hash),
		Role:      role,
		Contact:   strings.TrimSpace(data.Contact),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	if err := s.sendCode(ctx, u); err != nil {
		s.logger.Warn("Verification email not sent at signup", zap.String("userId", u.ID), zap.Error(err))
	}
	s.logger.Info("User registered", zap.String("userId", u.ID), zap.String("role", role))
	return u, nil
}

// VerifyEmail checks the code, marks the account verified and logs the user in.
func (s *DefaultUserService) VerifyEmail(ctx context.Context, email, code string) (*AuthResponse, error) {
	u, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u.IsVerified {
		return nil, ErrAlreadyVerified
	}

	if err := s.otp.Verify(ctx, u.Email, code); err != nil {
		if errors.Is(err, utils.ErrOTPNotFound) || errors.Is(err, utils.ErrOTPMismatch) {
			return nil, ErrInvalidCode
		}
		return nil, fmt.Errorf("verification failed: %w", err)
	}

	if err := s.repo.UpdateSetDocument(ctx, u.ID, bson.M{"isVerified": true}); err != nil {
		return nil, fmt.Errorf("failed to mark account verified: %w", err)
	}
	u.IsVerified = true
	return s.issue(u)
}

// ResendVerification re-issues the code, at most utils.MaxResendsPerWindow times per window.
func (s *DefaultUserService) ResendVerification(ctx context.Context, email string) error {
	u, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u.IsVerified {
		return ErrAlreadyVerified
	}
	if err := s.otp.AllowResend(ctx, u.Email); err != nil {
		if errors.Is(err, utils.ErrTooManyResends) {
			return ErrTooManyRequests
		}
		return err
	}
	return s.sendCode(ctx, u)
}

func (s *DefaultUserService) sendCode(ctx context.Context, u *models.User) error {
	code, err := s.otp.Issue(ctx, u.Email)
	if err != nil {
		return err
	}
	return s.notifier.SendVerificationCode(ctx, u, code)
}
