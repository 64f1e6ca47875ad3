package notification

import (
	"context"
	"fmt"

	"gclient/models"
	"gclient/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// PushSender is satisfied by *messaging.Client.
type PushSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// NotificationService sends the emails and pushes the platform needs.
type NotificationService interface {
	SendVerificationCode(ctx context.Context, user *models.User, code string) error
	SendInvoiceIssued(ctx context.Context, learner *models.User, track *models.Track, inv *models.Invoice) error
	SendPaymentConfirmation(ctx context.Context, learner *models.User, track *models.Track, inv *models.Invoice) error
	SendPaymentReminder(ctx context.Context, learner *models.User, track *models.Track, inv *models.Invoice) error
	SendUserPushNotification(ctx context.Context, user *models.User, title, body string, data map[string]string) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	mailer Mailer
	push   PushSender
	logger *zap.Logger
}

// NewDefaultNotificationService wires the mailer and an optional push sender (nil disables push).
func NewDefaultNotificationService(mailer Mailer, push PushSender, logger *zap.Logger) (*DefaultNotificationService, error) {
	if mailer == nil {
		return nil, fmt.Errorf("notification service initialization error: mailer is nil")
	}
	if logger == nil {
		logger = utils.GetLogger()
	}
	return &DefaultNotificationService{
		mailer: mailer,
		push:   push,
		logger: logger,
	}, nil
}

func (s *DefaultNotificationService) SendVerificationCode(ctx context.Context, user *models.User, code string) error {
	msg, err := VerificationEmail(user, code, "20 minutes")
	if err != nil {
		return err
	}
	return s.send(ctx, "verification", msg)
}

func (s *DefaultNotificationService) SendInvoiceIssued(ctx context.Context, learner *models.User, track *models.Track, inv *models.Invoice) error {
	msg, err := InvoiceEmail(learner, track, inv)
	if err != nil {
		return err
	}
	return s.send(ctx, "invoice", msg)
}

// SendPaymentConfirmation emails the receipt and, when possible, pushes a short notice.
// Only the email outcome is returned.
func (s *DefaultNotificationService) SendPaymentConfirmation(ctx context.Context, learner *models.User, track *models.Track, inv *models.Invoice) error {
	msg, err := ConfirmationEmail(learner, track, inv)
	if err != nil {
		return err
	}
	if err := s.send(ctx, "confirmation", msg); err != nil {
		return err
	}

	body := fmt.Sprintf("We received GHS %.2f for %s.", inv.AmountPaid, trackName(track))
	if err := s.SendUserPushNotification(ctx, learner, "Payment received", body, map[string]string{
		"type":      "payment_confirmation",
		"invoiceId": inv.ID,
		"status":    string(inv.Status),
	}); err != nil {
		s.logger.Warn("Payment confirmation push failed", zap.String("invoiceId", inv.ID), zap.Error(err))
	}
	return nil
}

func (s *DefaultNotificationService) SendPaymentReminder(ctx context.Context, learner *models.User, track *models.Track, inv *models.Invoice) error {
	msg, err := ReminderEmail(learner, track, inv)
	if err != nil {
		return err
	}
	return s.send(ctx, "reminder", msg)
}

// SendUserPushNotification sends an FCM push to the user's registered device.
// It is a no-op when push is disabled or the user has no token.
func (s *DefaultNotificationService) SendUserPushNotification(
	ctx context.Context,
	user *models.User,
	title, body string,
	data map[string]string,
) error {
	if s.push == nil || user == nil || user.FCMToken == "" {
		return nil
	}
	if data == nil {
		data = map[string]string{}
	}
	if _, ok := data["role"]; !ok {
		data["role"] = user.Role
	}

	msg := &messaging.Message{
		Token: user.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}

	if _, err := s.push.Send(ctx, msg); err != nil {
		utils.NotificationFailures.WithLabelValues("push").Inc()
		return fmt.Errorf("SendUserPushNotification: failed to send FCM message: %w", err)
	}
	return nil
}

func (s *DefaultNotificationService) send(ctx context.Context, kind string, msg models.EmailMessage) error {
	if err := s.mailer.Send(ctx, msg); err != nil {
		utils.NotificationFailures.WithLabelValues("email").Inc()
		s.logger.Error("Email delivery failed",
			zap.String("kind", kind),
			zap.String("to", msg.To),
			zap.Error(err),
		)
		return err
	}
	s.logger.Debug("Email sent", zap.String("kind", kind), zap.String("to", msg.To))
	return nil
}
