package invoice

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"gclient/models"
	"gclient/services/payment"

	"go.uber.org/zap"
)

// VerifyPayment confirms a charge with the gateway and reconciles the local invoice once.
func (s *DefaultInvoiceService) VerifyPayment(ctx context.Context, reference string) (*models.Invoice, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, newError(KindValidation, "reference is required", nil)
	}

	result, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		var gwErr *payment.GatewayError
		if errors.As(err, &gwErr) && gwErr.StatusCode >= http.StatusBadRequest && gwErr.StatusCode < http.StatusInternalServerError {
			return nil, newError(KindValidation, "Payment verification failed", err)
		}
		return nil, newError(KindUpstream, "Could not reach the payment gateway, please try again", err)
	}
	if !result.Success {
		return nil, newError(KindValidation, "Payment verification failed", nil)
	}

	inv, applied, err := s.reconcile(ctx, "verify", reference, result.TransactionID, result.Amount)
	if err != nil {
		return nil, err
	}
	if !applied {
		return inv, nil
	}

	if err := s.notifyPaid(ctx, inv); err != nil {
		s.logger.Error("Payment confirmation failed after verification",
			zap.String("invoiceId", inv.ID),
			zap.Error(err),
		)
		s.discard(ctx, inv, err)
		return nil, newError(KindUpstream, "Payment confirmation email could not be sent, the invoice was discarded. Please contact support", err)
	}
	return inv, nil
}
