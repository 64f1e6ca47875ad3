package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gclient/config"
	"gclient/models"

	"go.uber.org/zap"
)

const (
	paystackSignatureHeader = "x-paystack-signature"
	paystackChargeSuccess   = "charge.success"
)

// PaystackGateway talks to the Paystack transaction API.
type PaystackGateway struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewPaystackGateway(cfg config.PaymentConfig, logger *zap.Logger) (*PaystackGateway, error) {
	if strings.TrimSpace(cfg.PaystackSecretKey) == "" {
		return nil, fmt.Errorf("paystack: %w", ErrInvalidConfig)
	}
	baseURL := strings.TrimRight(cfg.PaystackBaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &PaystackGateway{
		secretKey:  cfg.PaystackSecretKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

func (g *PaystackGateway) Name() string { return ProviderPaystack }

type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type paystackInitData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type paystackTransaction struct {
	ID        int64  `json:"id"`
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	PaidAt    string `json:"paid_at"`
}

// Initialize opens a transaction and returns the hosted checkout link.
func (g *PaystackGateway) Initialize(ctx context.Context, req models.PaymentInitRequest) (*models.PaymentSession, error) {
	if req.Amount <= 0 {
		return nil, &GatewayError{Provider: ProviderPaystack, Message: "amount must be positive"}
	}
	body := map[string]any{
		"email":  req.Email,
		"amount": ToMinorUnits(req.Amount),
	}
	if req.CallbackURL != "" {
		body["callback_url"] = req.CallbackURL
	}
	if len(req.Metadata) > 0 {
		body["metadata"] = req.Metadata
	}

	var data paystackInitData
	if err := g.do(ctx, http.MethodPost, "/transaction/initialize", body, &data); err != nil {
		return nil, err
	}
	if data.AuthorizationURL == "" || data.Reference == "" {
		return nil, &GatewayError{Provider: ProviderPaystack, Message: "initialize response missing authorization_url or reference"}
	}

	g.logger.Info("Paystack transaction initialized",
		zap.String("reference", data.Reference),
		zap.Float64("amount", req.Amount),
	)
	return &models.PaymentSession{
		Provider:    ProviderPaystack,
		PaymentLink: data.AuthorizationURL,
		Reference:   data.Reference,
	}, nil
}

// Verify asks Paystack for the current state of the transaction with the given reference.
func (g *PaystackGateway) Verify(ctx context.Context, reference string) (*models.PaymentVerification, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, &GatewayError{Provider: ProviderPaystack, Message: "reference is required"}
	}

	var tx paystackTransaction
	if err := g.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil, &tx); err != nil {
		return nil, err
	}

	if tx.Reference == "" {
		tx.Reference = reference
	}
	out := &models.PaymentVerification{
		Reference:     tx.Reference,
		TransactionID: transactionID(tx),
		Status:        tx.Status,
		Success:       tx.Status == "success",
		Amount:        FromMinorUnits(tx.Amount),
	}
	if tx.PaidAt != "" {
		if t, err := time.Parse(time.RFC3339, tx.PaidAt); err == nil {
			out.PaidAt = t
		}
	}
	return out, nil
}

// transactionID is the per-charge idempotency key. Verify and the webhook must agree on it.
func transactionID(tx paystackTransaction) string {
	if tx.ID == 0 {
		return tx.Reference
	}
	return strconv.FormatInt(tx.ID, 10)
}

func (g *PaystackGateway) do(ctx context.Context, method, path string, in any, out any) error {
	var reader io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("paystack: encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("paystack: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return &GatewayError{Provider: ProviderPaystack, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &GatewayError{Provider: ProviderPaystack, Message: "read response", Err: err}
	}

	var env paystackEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &GatewayError{Provider: ProviderPaystack, StatusCode: resp.StatusCode, Message: "malformed response"}
	}
	if resp.StatusCode >= http.StatusBadRequest || !env.Status {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &GatewayError{Provider: ProviderPaystack, StatusCode: resp.StatusCode, Message: msg}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &GatewayError{Provider: ProviderPaystack, StatusCode: resp.StatusCode, Message: "malformed data"}
		}
	}
	return nil
}

// PaystackWebhook authenticates Paystack pushes with the account secret key.
type PaystackWebhook struct {
	secret string
}

func NewPaystackWebhook(secret string) *PaystackWebhook {
	return &PaystackWebhook{secret: secret}
}

type paystackEvent struct {
	Event string              `json:"event"`
	Data  paystackTransaction `json:"data"`
}

// ParseWebhook checks x-paystack-signature against the raw body before decoding it.
func (w *PaystackWebhook) ParseWebhook(payload []byte, headers http.Header) (*models.PaymentEvent, error) {
	if !VerifySignature(w.secret, payload, headers.Get(paystackSignatureHeader)) {
		return nil, ErrInvalidSignature
	}

	var evt paystackEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return nil, ErrInvalidPayload
	}
	if evt.Event != paystackChargeSuccess {
		return nil, ErrEventIgnored
	}
	if strings.TrimSpace(evt.Data.Reference) == "" {
		return nil, errors.Join(ErrInvalidPayload, errors.New("missing reference"))
	}

	return &models.PaymentEvent{
		Provider:      ProviderPaystack,
		Type:          evt.Event,
		Reference:     evt.Data.Reference,
		TransactionID: transactionID(evt.Data),
		Amount:        FromMinorUnits(evt.Data.Amount),
	}, nil
}
