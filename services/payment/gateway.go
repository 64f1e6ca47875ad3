package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"gclient/config"
	"gclient/models"

	"go.uber.org/zap"
)

const (
	ProviderPaystack = "paystack"
	ProviderStripe   = "stripe"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrInvalidPayload   = errors.New("invalid webhook payload")
	ErrEventIgnored     = errors.New("webhook event ignored")
	ErrInvalidConfig    = errors.New("payment gateway is not configured")
)

// GatewayError is returned when the processor rejects a call or cannot be reached.
type GatewayError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *GatewayError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s gateway error (%d): %s", e.Provider, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s gateway error: %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("%s gateway error: %s", e.Provider, e.Message)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// Gateway opens and confirms transactions against an external processor.
type Gateway interface {
	Name() string
	Initialize(ctx context.Context, req models.PaymentInitRequest) (*models.PaymentSession, error)
	Verify(ctx context.Context, reference string) (*models.PaymentVerification, error)
}

// WebhookParser authenticates a raw provider push and reduces it to a PaymentEvent.
// ErrInvalidSignature means the push must be rejected; ErrEventIgnored means it is
// authentic but carries nothing to reconcile.
type WebhookParser interface {
	ParseWebhook(payload []byte, headers http.Header) (*models.PaymentEvent, error)
}

// NewGateway builds the gateway selected by cfg.Provider.
func NewGateway(cfg config.PaymentConfig, logger *zap.Logger) (Gateway, error) {
	switch cfg.Provider {
	case "", ProviderPaystack:
		return NewPaystackGateway(cfg, logger)
	case ProviderStripe:
		return NewStripeGateway(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported payment provider %q", cfg.Provider)
	}
}

// NewWebhookParsers returns a parser for every provider that has credentials configured.
func NewWebhookParsers(cfg config.PaymentConfig, logger *zap.Logger) map[string]WebhookParser {
	parsers := map[string]WebhookParser{}
	if cfg.PaystackSecretKey != "" {
		parsers[ProviderPaystack] = NewPaystackWebhook(cfg.PaystackSecretKey)
	}
	if cfg.StripeWebhookSecret != "" {
		parsers[ProviderStripe] = NewStripeWebhook(cfg.StripeWebhookSecret)
	} else {
		logger.Debug("Stripe webhook secret not set, stripe webhooks disabled")
	}
	return parsers
}
