package invoice

import (
	"context"
	"errors"

	trackRepo "gclient/database/repository/track"
	"gclient/models"
)

// TrackBalance reports how much of a track's price a learner has paid across all invoices.
func (s *DefaultInvoiceService) TrackBalance(ctx context.Context, learnerID, trackID string) (*models.TrackBalance, error) {
	if learnerID == "" || trackID == "" {
		return nil, newError(KindValidation, "learner and track are required", nil)
	}
	track, err := s.tracks.GetByID(ctx, trackID)
	if err != nil {
		if errors.Is(err, trackRepo.ErrTrackNotFound) {
			return nil, newError(KindNotFound, "Track not found", err)
		}
		return nil, newError(KindInternal, "failed to load track", err)
	}

	payments, err := s.invoices.PaidByTrack(ctx, learnerID)
	if err != nil {
		return nil, newError(KindInternal, "failed to load payment history", err)
	}
	var paid float64
	for _, p := range payments {
		if p.Track == track.ID {
			paid = p.Paid
			break
		}
	}

	outstanding := outstandingFor(track.Price, paid)
	status := models.InvoiceStatusPending
	switch {
	case paid > 0 && outstanding == 0:
		status = models.InvoiceStatusPaid
	case paid > 0:
		status = models.InvoiceStatusPartial
	}

	return &models.TrackBalance{
		Learner:     learnerID,
		Track:       track.ID,
		FullPrice:   track.Price,
		AmountPaid:  paid,
		Outstanding: outstanding,
		Status:      status,
	}, nil
}
