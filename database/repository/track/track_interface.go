package trackRepo

import (
	"context"
	"errors"

	"gclient/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrTrackNotFound is returned when no track matches the lookup.
var ErrTrackNotFound = errors.New("track not found")

// TrackRepository defines methods for track data access.
type TrackRepository interface {
	Create(ctx context.Context, track *models.Track) error
	GetByID(ctx context.Context, id string) (*models.Track, error)
	GetAll(ctx context.Context) ([]models.Track, error)
}

type mongoTrackRepo struct {
	coll *mongo.Collection
}

// NewMongoTrackRepo returns a new TrackRepository instance using MongoDB.
func NewMongoTrackRepo(db *mongo.Database) TrackRepository {
	return &mongoTrackRepo{
		coll: db.Collection("tracks"),
	}
}
