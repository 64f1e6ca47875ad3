package track

import (
	"context"
	"testing"

	trackRepo "gclient/database/repository/track"
	"gclient/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockTrackRepo struct {
	CreateFunc  func(ctx context.Context, t *models.Track) error
	GetByIDFunc func(ctx context.Context, id string) (*models.Track, error)
	GetAllFunc  func(ctx context.Context) ([]models.Track, error)
}

func (m *MockTrackRepo) Create(ctx context.Context, t *models.Track) error {
	return m.CreateFunc(ctx, t)
}

func (m *MockTrackRepo) GetByID(ctx context.Context, id string) (*models.Track, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockTrackRepo) GetAll(ctx context.Context) ([]models.Track, error) {
	return m.GetAllFunc(ctx)
}

func TestCreateTrack(t *testing.T) {
	var saved *models.Track
	svc := NewDefaultTrackService(&MockTrackRepo{CreateFunc: func(ctx context.Context, tr *models.Track) error {
		tr.ID = "t1"
		saved = tr
		return nil
	}}, nil)

	tr, err := svc.CreateTrack(context.Background(), "admin1", models.CreateTrackRequest{
		Name: " Data Science ", Price: 800, Instructor: "Kwame", Duration: "12 weeks", Description: "Intro",
	})
	require.NoError(t, err)
	assert.Equal(t, "t1", tr.ID)
	assert.Equal(t, "Data Science", saved.Name)
	assert.Equal(t, "admin1", saved.Admin)

	_, err = svc.CreateTrack(context.Background(), "admin1", models.CreateTrackRequest{Name: "Free", Price: 0})
	assert.Error(t, err)
}

func TestGetTrackNotFound(t *testing.T) {
	svc := NewDefaultTrackService(&MockTrackRepo{GetByIDFunc: func(ctx context.Context, id string) (*models.Track, error) {
		return nil, trackRepo.ErrTrackNotFound
	}}, nil)

	_, err := svc.GetTrack(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrTrackNotFound)
}
