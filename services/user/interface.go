package user

import (
	"context"
	"errors"

	userRepo "gclient/database/repository/user"
	"gclient/models"
	"gclient/services/notification"

	"go.uber.org/zap"
)

// OTPStore issues and checks email verification codes.
type OTPStore interface {
	Issue(ctx context.Context, email string) (string, error)
	Verify(ctx context.Context, email, code string) error
	AllowResend(ctx context.Context, email string) error
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	GenerateToken(subject, email, role string) (string, error)
}

// AuthStateCache forgets cached account state after disabled or role changes.
type AuthStateCache interface {
	Invalidate(ctx context.Context, userID string) error
}

type UserService interface {
	// Registration
	Register(ctx context.Context, role string, data models.UserRegistrationData) (*models.User, error)
	VerifyEmail(ctx context.Context, email, code string) (*AuthResponse, error)
	ResendVerification(ctx context.Context, email string) error

	// Authentication
	Login(ctx context.Context, email, password string) (*AuthResponse, error)

	// User Management
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetAllUsers(ctx context.Context, role string) ([]models.User, error)
	UpdateFCMToken(ctx context.Context, userID, token string) error
	SetDisabled(ctx context.Context, userID string, disabled bool) (*models.User, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	repo      userRepo.UserRepository
	otp       OTPStore
	tokens    TokenIssuer
	notifier  notification.NotificationService
	authCache AuthStateCache
	logger    *zap.Logger
}

// NewDefaultUserService builds the user service. authCache may be nil when no auth cache is in use.
func NewDefaultUserService(repo userRepo.UserRepository, otp OTPStore, tokens TokenIssuer, notifier notification.NotificationService, authCache AuthStateCache, logger *zap.Logger) (*DefaultUserService, error) {
	if repo == nil || otp == nil || tokens == nil || notifier == nil {
		return nil, errors.New("user service initialization error: missing dependency")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultUserService{
		repo:      repo,
		otp:       otp,
		tokens:    tokens,
		notifier:  notifier,
		authCache: authCache,
		logger:    logger,
	}, nil
}

// AuthResponse contains the user's ID, token, and additional details.
type AuthResponse struct {
	ID        string `json:"id"`
	Token     string `json:"token"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role"`
}
