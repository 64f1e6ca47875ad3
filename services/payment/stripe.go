package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gclient/config"
	"gclient/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

const (
	stripeSignatureHeader   = "Stripe-Signature"
	stripeCheckoutCompleted = "checkout.session.completed"
)

// StripeGateway uses Stripe Checkout sessions. The session id is the invoice reference.
type StripeGateway struct {
	api      *client.API
	currency string
	logger   *zap.Logger
}

func NewStripeGateway(cfg config.PaymentConfig, logger *zap.Logger) (*StripeGateway, error) {
	if strings.TrimSpace(cfg.StripeSecretKey) == "" {
		return nil, fmt.Errorf("stripe: %w", ErrInvalidConfig)
	}
	currency := strings.ToLower(strings.TrimSpace(cfg.StripeCurrency))
	if currency == "" {
		currency = "ghs"
	}
	return &StripeGateway{
		api:      client.New(cfg.StripeSecretKey, nil),
		currency: currency,
		logger:   logger,
	}, nil
}

func (g *StripeGateway) Name() string { return ProviderStripe }

// Initialize creates a one-item checkout session for the invoice amount.
func (g *StripeGateway) Initialize(ctx context.Context, req models.PaymentInitRequest) (*models.PaymentSession, error) {
	if req.Amount <= 0 {
		return nil, &GatewayError{Provider: ProviderStripe, Message: "amount must be positive"}
	}
	name := req.Description
	if name == "" {
		name = "Track enrollment"
	}

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:    stripe.String(successURL(req.CallbackURL)),
		CustomerEmail: stripe.String(req.Email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(g.currency),
					UnitAmount: stripe.Int64(ToMinorUnits(req.Amount)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(name),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, stripeError("create checkout session", err)
	}

	g.logger.Info("Stripe checkout session created",
		zap.String("reference", sess.ID),
		zap.Float64("amount", req.Amount),
	)
	return &models.PaymentSession{
		Provider:    ProviderStripe,
		PaymentLink: sess.URL,
		Reference:   sess.ID,
	}, nil
}

// Verify fetches the checkout session and reports it successful once Stripe marks it paid.
func (g *StripeGateway) Verify(ctx context.Context, reference string) (*models.PaymentVerification, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, &GatewayError{Provider: ProviderStripe, Message: "reference is required"}
	}
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := g.api.CheckoutSessions.Get(reference, params)
	if err != nil {
		return nil, stripeError("retrieve checkout session", err)
	}
	return sessionVerification(sess), nil
}

func sessionVerification(sess *stripe.CheckoutSession) *models.PaymentVerification {
	return &models.PaymentVerification{
		Reference:     sess.ID,
		TransactionID: sessionTransactionID(sess),
		Status:        string(sess.PaymentStatus),
		Success:       sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		Amount:        FromMinorUnits(sess.AmountTotal),
	}
}

// sessionTransactionID prefers the payment intent so verify and webhook credit the same charge once.
func sessionTransactionID(sess *stripe.CheckoutSession) string {
	if sess.PaymentIntent != nil && sess.PaymentIntent.ID != "" {
		return sess.PaymentIntent.ID
	}
	return sess.ID
}

// successURL appends the checkout session placeholder Stripe substitutes on redirect.
func successURL(callback string) string {
	sep := "?"
	if strings.Contains(callback, "?") {
		sep = "&"
	}
	return callback + sep + "reference={CHECKOUT_SESSION_ID}"
}

func stripeError(op string, err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		return &GatewayError{Provider: ProviderStripe, StatusCode: se.HTTPStatusCode, Message: se.Msg, Err: err}
	}
	return &GatewayError{Provider: ProviderStripe, Message: op, Err: err}
}

// StripeWebhook authenticates Stripe pushes with the endpoint signing secret.
type StripeWebhook struct {
	secret string
}

func NewStripeWebhook(secret string) *StripeWebhook {
	return &StripeWebhook{secret: secret}
}

// ParseWebhook reconciles only paid checkout.session.completed events.
func (w *StripeWebhook) ParseWebhook(payload []byte, headers http.Header) (*models.PaymentEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, headers.Get(stripeSignatureHeader), w.secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		switch {
		case errors.Is(err, webhook.ErrNotSigned),
			errors.Is(err, webhook.ErrNoValidSignature),
			errors.Is(err, webhook.ErrInvalidHeader),
			errors.Is(err, webhook.ErrTooOld):
			return nil, ErrInvalidSignature
		}
		return nil, ErrInvalidPayload
	}
	if string(event.Type) != stripeCheckoutCompleted || event.Data == nil {
		return nil, ErrEventIgnored
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil || sess.ID == "" {
		return nil, ErrInvalidPayload
	}
	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return nil, ErrEventIgnored
	}

	return &models.PaymentEvent{
		Provider:      ProviderStripe,
		Type:          stripeCheckoutCompleted,
		Reference:     sess.ID,
		TransactionID: sessionTransactionID(&sess),
		Amount:        FromMinorUnits(sess.AmountTotal),
	}, nil
}
