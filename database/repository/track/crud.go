package trackRepo

import (
	"context"
	"errors"
	"time"

	"gclient/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new track.
func (r *mongoTrackRepo) Create(ctx context.Context, track *models.Track) error {
	if track.ID == "" {
		track.ID = uuid.New().String()
	}
	track.CreatedAt = time.Now()
	track.UpdatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, track)
	return err
}

// GetByID returns a track by its ID.
func (r *mongoTrackRepo) GetByID(ctx context.Context, id string) (*models.Track, error) {
	var track models.Track
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&track)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTrackNotFound
		}
		return nil, err
	}
	return &track, nil
}

// GetAll returns every track, newest first.
func (r *mongoTrackRepo) GetAll(ctx context.Context) ([]models.Track, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tracks := []models.Track{}
	if err := cursor.All(ctx, &tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}
