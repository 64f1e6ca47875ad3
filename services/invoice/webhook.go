package invoice

import (
	"context"
	"errors"
	"net/http"

	"gclient/services/payment"
	"gclient/utils"

	"go.uber.org/zap"
)

// HandleWebhook authenticates a gateway push and applies the same reconciliation as VerifyPayment.
//
// It returns nil for every authentic event that needs no retry, including unknown references
// and already paid invoices. Notification failures are logged and never surface.
func (s *DefaultInvoiceService) HandleWebhook(ctx context.Context, provider string, payload []byte, headers http.Header) error {
	parser, ok := s.webhooks[provider]
	if !ok {
		return newError(KindNotFound, "webhook provider is not enabled", nil)
	}

	evt, err := parser.ParseWebhook(payload, headers)
	switch {
	case errors.Is(err, payment.ErrInvalidSignature):
		utils.WebhookEvents.WithLabelValues(provider, "rejected").Inc()
		return newError(KindUnauthorized, "Invalid signature", err)
	case errors.Is(err, payment.ErrEventIgnored):
		utils.WebhookEvents.WithLabelValues(provider, "ignored").Inc()
		return nil
	case err != nil:
		utils.WebhookEvents.WithLabelValues(provider, "malformed").Inc()
		return newError(KindValidation, "Malformed webhook payload", err)
	}

	inv, applied, err := s.reconcile(ctx, "webhook", evt.Reference, evt.TransactionID, evt.Amount)
	if err != nil {
		if KindOf(err) == KindNotFound {
			utils.WebhookEvents.WithLabelValues(provider, "unknown_reference").Inc()
			s.logger.Warn("Webhook for unknown reference",
				zap.String("provider", provider),
				zap.String("reference", evt.Reference),
			)
			return nil
		}
		utils.WebhookEvents.WithLabelValues(provider, "error").Inc()
		return err
	}
	if !applied {
		utils.WebhookEvents.WithLabelValues(provider, "duplicate").Inc()
		return nil
	}

	utils.WebhookEvents.WithLabelValues(provider, "applied").Inc()
	if err := s.notifyPaid(ctx, inv); err != nil {
		s.logger.Error("Payment confirmation failed after webhook",
			zap.String("invoiceId", inv.ID),
			zap.Error(err),
		)
	}
	return nil
}
