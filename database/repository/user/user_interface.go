package userRepo

import (
	"context"
	"errors"

	"gclient/models"

	"go.mongodb.org/mongo-driver/bson"
)

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail retrieves a user by its email address. It returns nil, nil when absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetAllWithProjection retrieves users of a role (all roles when empty) with an optional projection.
	GetAllWithProjection(ctx context.Context, role string, projection bson.M) ([]models.User, error)
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.User) error
	// UpdateSetDocument applies a $set to the user with the given ID.
	UpdateSetDocument(ctx context.Context, id string, updateDoc bson.M) error
}
