package invoice

import (
	"context"
	"errors"

	invoiceRepo "gclient/database/repository/invoice"

	"go.uber.org/zap"
)

// SendDueReminder emails the learner about an unpaid invoice. Paid or deleted invoices are skipped.
func (s *DefaultInvoiceService) SendDueReminder(ctx context.Context, invoiceID string) error {
	inv, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, invoiceRepo.ErrInvoiceNotFound) {
			s.logger.Info("Reminder skipped, invoice no longer exists", zap.String("invoiceId", invoiceID))
			return nil
		}
		return err
	}
	if inv.IsPaid() {
		s.logger.Debug("Reminder skipped, invoice already paid", zap.String("invoiceId", invoiceID))
		return nil
	}

	learner, err := s.users.GetByID(ctx, inv.Learner)
	if err != nil {
		return err
	}
	track, err := s.tracks.GetByID(ctx, inv.Track)
	if err != nil {
		s.logger.Warn("Track lookup failed for reminder", zap.String("track", inv.Track), zap.Error(err))
		track = nil
	}
	return s.notifier.SendPaymentReminder(ctx, learner, track, inv)
}
