package models

import "time"

// Track is a purchasable curriculum bundle with a fixed price.
type Track struct {
	ID          string    `bson:"id" json:"id"`
	Admin       string    `bson:"admin" json:"admin"`
	Name        string    `bson:"name" json:"name"`
	Price       float64   `bson:"price" json:"price"`
	Instructor  string    `bson:"instructor" json:"instructor"`
	Duration    string    `bson:"duration" json:"duration"`
	Description string    `bson:"description" json:"description"`
	Image       string    `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// TrackSummary is the track shape embedded in invoice responses.
type TrackSummary struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Duration string  `json:"duration"`
}

func (t *Track) Summary() *TrackSummary {
	if t == nil {
		return nil
	}
	return &TrackSummary{
		ID:       t.ID,
		Name:     t.Name,
		Price:    t.Price,
		Duration: t.Duration,
	}
}

// CreateTrackRequest is the admin payload for a new track.
type CreateTrackRequest struct {
	Name        string  `json:"name" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Instructor  string  `json:"instructor" binding:"required"`
	Duration    string  `json:"duration" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Image       string  `json:"image"`
}
