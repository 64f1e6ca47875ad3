package invoice

import (
	"context"
	"errors"
	"strings"
	"time"

	trackRepo "gclient/database/repository/track"
	userRepo "gclient/database/repository/user"
	"gclient/models"
	"gclient/utils"

	"go.uber.org/zap"
)

// CreateInvoice bills a learner for a track and emails them the payment link.
// Nothing is left behind when the gateway or the email fails.
func (s *DefaultInvoiceService) CreateInvoice(ctx context.Context, actor Actor, req models.CreateInvoiceRequest) (*models.InvoiceView, error) {
	req.Learner = strings.TrimSpace(req.Learner)
	req.Track = strings.TrimSpace(req.Track)
	if req.Learner == "" || req.Track == "" {
		return nil, newError(KindValidation, "learner and track are required", nil)
	}
	if !req.PaymentType.Valid() {
		return nil, newError(KindValidation, "paymentType must be either half or full", nil)
	}
	if actor.Role != models.RoleAdmin && actor.UserID != req.Learner {
		return nil, newError(KindForbidden, "Learners can only create invoices for themselves", nil)
	}

	learner, err := s.users.GetByID(ctx, req.Learner)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, newError(KindNotFound, "Learner not found", err)
		}
		return nil, newError(KindInternal, "failed to load learner", err)
	}
	if !learner.IsLearner() {
		return nil, newError(KindNotFound, "Learner not found", nil)
	}

	track, err := s.tracks.GetByID(ctx, req.Track)
	if err != nil {
		if errors.Is(err, trackRepo.ErrTrackNotFound) {
			return nil, newError(KindNotFound, "Track not found", err)
		}
		return nil, newError(KindInternal, "failed to load track", err)
	}

	payments, err := s.invoices.PaidByTrack(ctx, learner.ID)
	if err != nil {
		return nil, newError(KindInternal, "failed to load payment history", err)
	}
	var alreadyPaid float64
	committed := make(map[string]bool, len(payments))
	for _, p := range payments {
		if p.Paid <= 0 {
			continue
		}
		committed[p.Track] = true
		if p.Track == track.ID {
			alreadyPaid = p.Paid
		}
	}

	if outstandingFor(track.Price, alreadyPaid) <= 0 {
		return nil, newError(KindConflict, "Learner has already paid in full for this track", nil)
	}
	if !committed[track.ID] && len(committed) >= s.billing.TrackCap {
		return nil, newError(KindConflict, "Learner has reached the maximum number of enrolled tracks", nil)
	}

	open, err := s.invoices.List(ctx, models.InvoiceFilter{
		Status:  models.InvoiceStatusPending,
		Learner: learner.ID,
		Track:   track.ID,
		Limit:   1,
	})
	if err != nil {
		return nil, newError(KindInternal, "failed to load open invoices", err)
	}
	if len(open) > 0 {
		return nil, newError(KindConflict, "Learner already has an unpaid invoice for this track", nil)
	}

	amount, paymentType, err := billAmount(track.Price, alreadyPaid, req.PaymentType)
	if err != nil {
		return nil, err
	}

	session, err := s.gateway.Initialize(ctx, models.PaymentInitRequest{
		Email:       learner.Email,
		Amount:      amount,
		CallbackURL: req.CallbackURL,
		Description: track.Name,
		Metadata: map[string]string{
			"learner": learner.ID,
			"track":   track.ID,
		},
	})
	if err != nil {
		s.logger.Error("Payment initialization failed",
			zap.String("learner", learner.ID),
			zap.String("track", track.ID),
			zap.Error(err),
		)
		return nil, newError(KindUpstream, "Failed to initialize payment, please try again", err)
	}

	dueDate := s.now().AddDate(0, 0, s.billing.DueDays)
	if req.DueDate != nil && !req.DueDate.IsZero() {
		dueDate = *req.DueDate
	}

	inv := &models.Invoice{
		Learner:        learner.ID,
		Track:          track.ID,
		Amount:         amount,
		AmountPaid:     0,
		Status:         models.InvoiceStatusPending,
		PaymentType:    paymentType,
		DueDate:        dueDate,
		PaymentLink:    session.PaymentLink,
		Reference:      session.Reference,
		Provider:       session.Provider,
		CallbackURL:    req.CallbackURL,
		PaymentDetails: req.PaymentDetails,
	}
	if err := s.invoices.Create(ctx, inv); err != nil {
		return nil, newError(KindInternal, "failed to save invoice", err)
	}

	if err := s.notifier.SendInvoiceIssued(ctx, learner, track, inv); err != nil {
		s.discard(ctx, inv, err)
		return nil, newError(KindUpstream, "Invoice email could not be sent, the invoice was discarded. Please try again", err)
	}

	utils.InvoicesCreated.WithLabelValues(string(inv.PaymentType)).Inc()
	s.logger.Info("Invoice created",
		zap.String("invoiceId", inv.ID),
		zap.String("reference", inv.Reference),
		zap.Float64("amount", inv.Amount),
		zap.String("paymentType", string(inv.PaymentType)),
	)

	s.scheduleReminder(ctx, inv)
	return buildView(inv, learner, track), nil
}

// discard removes an invoice whose learner was never told about it.
func (s *DefaultInvoiceService) discard(ctx context.Context, inv *models.Invoice, cause error) {
	s.logger.Warn("Discarding invoice after notification failure",
		zap.String("invoiceId", inv.ID),
		zap.String("reference", inv.Reference),
		zap.Error(cause),
	)
	if err := s.invoices.Delete(context.WithoutCancel(ctx), inv.ID); err != nil {
		s.logger.Error("Failed to discard invoice", zap.String("invoiceId", inv.ID), zap.Error(err))
	}
}

// scheduleReminder queues the due-date reminder a day ahead. Failures are logged only.
func (s *DefaultInvoiceService) scheduleReminder(ctx context.Context, inv *models.Invoice) {
	if s.reminders == nil {
		return
	}
	fireAt := inv.DueDate.Add(-24 * time.Hour)
	if !fireAt.After(s.now()) {
		s.logger.Debug("Due date too close for a reminder", zap.String("invoiceId", inv.ID))
		return
	}
	payload := models.ReminderPayload{
		InvoiceID: inv.ID,
		LearnerID: inv.Learner,
		FireDate:  fireAt,
	}
	if err := s.reminders.ScheduleReminder(ctx, payload, fireAt); err != nil {
		s.logger.Warn("Failed to schedule payment reminder", zap.String("invoiceId", inv.ID), zap.Error(err))
	}
}
