package invoice

import (
	"context"
	"errors"

	invoiceRepo "gclient/database/repository/invoice"
	recordsRepo "gclient/database/repository/records"
	"gclient/models"
	"gclient/utils"

	"go.uber.org/zap"
)

// reconcile credits one successful charge to the invoice with the given reference.
//
// applied is true only for the caller whose conditional update matched; that caller
// owns the side effects. Everyone else gets the current invoice back.
func (s *DefaultInvoiceService) reconcile(ctx context.Context, source, reference, transactionID string, gatewayAmount float64) (inv *models.Invoice, applied bool, err error) {
	current, err := s.invoices.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, invoiceRepo.ErrInvoiceNotFound) {
			return nil, false, newError(KindNotFound, "Invoice not found for this reference", err)
		}
		return nil, false, newError(KindInternal, "failed to load invoice", err)
	}
	if current.IsPaid() {
		return current, false, nil
	}
	if transactionID == "" {
		transactionID = reference
	}

	credit := creditFor(current, source, gatewayAmount)
	updated, err := s.invoices.ApplyPayment(ctx, reference, transactionID, credit, s.now())
	if err != nil {
		if errors.Is(err, invoiceRepo.ErrPaymentNotApplied) {
			s.logger.Info("Payment already reconciled",
				zap.String("source", source),
				zap.String("reference", reference),
				zap.String("transactionId", transactionID),
			)
			latest, gerr := s.invoices.GetByReference(ctx, reference)
			if gerr != nil {
				return current, false, nil
			}
			return latest, false, nil
		}
		return nil, false, newError(KindInternal, "failed to apply payment", err)
	}

	utils.PaymentsApplied.WithLabelValues(source).Inc()
	s.logger.Info("Payment applied",
		zap.String("source", source),
		zap.String("invoiceId", updated.ID),
		zap.String("reference", reference),
		zap.Float64("amountPaid", updated.AmountPaid),
		zap.String("status", string(updated.Status)),
	)
	s.record(ctx, source, transactionID, credit, updated)
	return updated, true, nil
}

// record appends the credit to the payment ledger. The invoice is the source of truth,
// so a failed write is only logged.
func (s *DefaultInvoiceService) record(ctx context.Context, source, transactionID string, credit float64, inv *models.Invoice) {
	if s.records == nil {
		return
	}
	rec := &models.PaymentRecord{
		InvoiceID:     inv.ID,
		Learner:       inv.Learner,
		Track:         inv.Track,
		Reference:     inv.Reference,
		TransactionID: transactionID,
		Source:        source,
		Credited:      credit,
		AmountPaid:    inv.AmountPaid,
		Status:        inv.Status,
		CreatedAt:     s.now(),
	}
	if err := s.records.Create(ctx, rec); err != nil && !errors.Is(err, recordsRepo.ErrDuplicateRecord) {
		s.logger.Error("Failed to record payment",
			zap.String("invoiceId", inv.ID),
			zap.String("transactionId", transactionID),
			zap.Error(err),
		)
	}
}

// notifyPaid sends the confirmation for a freshly applied payment.
func (s *DefaultInvoiceService) notifyPaid(ctx context.Context, inv *models.Invoice) error {
	learner, err := s.users.GetByID(ctx, inv.Learner)
	if err != nil {
		return err
	}
	track, err := s.tracks.GetByID(ctx, inv.Track)
	if err != nil {
		s.logger.Warn("Track lookup failed for confirmation email", zap.String("track", inv.Track), zap.Error(err))
		track = nil
	}
	return s.notifier.SendPaymentConfirmation(ctx, learner, track, inv)
}
