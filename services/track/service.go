package track

import (
	"context"
	"errors"
	"fmt"
	"strings"

	trackRepo "gclient/database/repository/track"
	"gclient/models"

	"go.uber.org/zap"
)

var ErrTrackNotFound = errors.New("track not found")

type TrackService interface {
	CreateTrack(ctx context.Context, adminID string, req models.CreateTrackRequest) (*models.Track, error)
	GetTrack(ctx context.Context, id string) (*models.Track, error)
	ListTracks(ctx context.Context) ([]models.Track, error)
}

type DefaultTrackService struct {
	repo   trackRepo.TrackRepository
	logger *zap.Logger
}

func NewDefaultTrackService(repo trackRepo.TrackRepository, logger *zap.Logger) *DefaultTrackService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultTrackService{repo: repo, logger: logger}
}

func (s *DefaultTrackService) CreateTrack(ctx context.Context, adminID string, req models.CreateTrackRequest) (*models.Track, error) {
	if req.Price <= 0 {
		return nil, fmt.Errorf("price must be greater than zero")
	}
	t := &models.Track{
		Admin:       adminID,
		Name:        strings.TrimSpace(req.Name),
		Price:       req.Price,
		Instructor:  strings.TrimSpace(req.Instructor),
		Duration:    strings.TrimSpace(req.Duration),
		Description: strings.TrimSpace(req.Description),
		Image:       strings.TrimSpace(req.Image),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create track: %w", err)
	}
	s.logger.Info("Track created", zap.String("trackId", t.ID), zap.Float64("price", t.Price))
	return t, nil
}

func (s *DefaultTrackService) GetTrack(ctx context.Context, id string) (*models.Track, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, trackRepo.ErrTrackNotFound) {
			return nil, ErrTrackNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *DefaultTrackService) ListTracks(ctx context.Context) ([]models.Track, error) {
	return s.repo.GetAll(ctx)
}
