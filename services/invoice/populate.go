package invoice

import (
	"context"

	"gclient/models"

	"go.uber.org/zap"
)

func buildView(inv *models.Invoice, learner *models.User, track *models.Track) *models.InvoiceView {
	return &models.InvoiceView{
		Invoice: inv,
		Learner: learner.Summary(),
		Track:   track.Summary(),
	}
}

// populator joins invoices with their learner and track, loading each id once.
type populator struct {
	s        *DefaultInvoiceService
	learners map[string]*models.User
	tracks   map[string]*models.Track
}

func (s *DefaultInvoiceService) newPopulator() *populator {
	return &populator{
		s:        s,
		learners: map[string]*models.User{},
		tracks:   map[string]*models.Track{},
	}
}

func (p *populator) view(ctx context.Context, inv *models.Invoice) *models.InvoiceView {
	learner, ok := p.learners[inv.Learner]
	if !ok {
		u, err := p.s.users.GetByID(ctx, inv.Learner)
		if err != nil {
			p.s.logger.Warn("Invoice learner lookup failed", zap.String("learner", inv.Learner), zap.Error(err))
		}
		learner = u
		p.learners[inv.Learner] = u
	}

	track, ok := p.tracks[inv.Track]
	if !ok {
		t, err := p.s.tracks.GetByID(ctx, inv.Track)
		if err != nil {
			p.s.logger.Warn("Invoice track lookup failed", zap.String("track", inv.Track), zap.Error(err))
		}
		track = t
		p.tracks[inv.Track] = t
	}
	return buildView(inv, learner, track)
}
