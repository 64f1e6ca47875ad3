package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gclient/config"
	"gclient/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestPaystack(t *testing.T, handler http.HandlerFunc) *PaystackGateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g, err := NewPaystackGateway(config.PaymentConfig{
		PaystackSecretKey: "sk_test_secret",
		PaystackBaseURL:   srv.URL,
		HTTPTimeout:       2 * time.Second,
	}, zap.NewNop())
	require.NoError(t, err)
	return g
}

func TestPaystackInitializeSendsMinorUnits(t *testing.T) {
	g := newTestPaystack(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ama@example.com", body["email"])
		assert.EqualValues(t, 50050, body["amount"])
		assert.Equal(t, "https://app.example.com/callback", body["callback_url"])

		_, _ = w.Write([]byte(`{"status":true,"message":"ok","data":{"authorization_url":"https://checkout.paystack.com/abc","access_code":"abc","reference":"ref_123"}}`))
	})

	sess, err := g.Initialize(context.Background(), models.PaymentInitRequest{
		Email:       "ama@example.com",
		Amount:      500.50,
		CallbackURL: "https://app.example.com/callback",
	})
	require.NoError(t, err)
	assert.Equal(t, "ref_123", sess.Reference)
	assert.Equal(t, "https://checkout.paystack.com/abc", sess.PaymentLink)
	assert.Equal(t, ProviderPaystack, sess.Provider)
}

func TestPaystackInitializeRejected(t *testing.T) {
	g := newTestPaystack(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":false,"message":"Invalid email"}`))
	})

	_, err := g.Initialize(context.Background(), models.PaymentInitRequest{Email: "bad", Amount: 10})
	require.Error(t, err)

	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, http.StatusBadRequest, gwErr.StatusCode)
	assert.Equal(t, "Invalid email", gwErr.Message)
}

func TestPaystackVerify(t *testing.T) {
	g := newTestPaystack(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/ref_123", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":true,"message":"Verification successful","data":{"id":987654,"status":"success","reference":"ref_123","amount":50000,"currency":"GHS","paid_at":"2024-05-01T10:00:00Z"}}`))
	})

	v, err := g.Verify(context.Background(), "ref_123")
	require.NoError(t, err)
	assert.True(t, v.Success)
	assert.Equal(t, "ref_123", v.Reference)
	assert.Equal(t, "987654", v.TransactionID)
	assert.Equal(t, 500.0, v.Amount)
	assert.Equal(t, 2024, v.PaidAt.Year())
}

func TestPaystackVerifyAbandoned(t *testing.T) {
	g := newTestPaystack(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":true,"message":"ok","data":{"id":1,"status":"abandoned","reference":"ref_9","amount":0}}`))
	})

	v, err := g.Verify(context.Background(), "ref_9")
	require.NoError(t, err)
	assert.False(t, v.Success)
	assert.Equal(t, "abandoned", v.Status)
}

func TestPaystackTimeoutIsGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	g, err := NewPaystackGateway(config.PaymentConfig{
		PaystackSecretKey: "sk",
		PaystackBaseURL:   srv.URL,
		HTTPTimeout:       20 * time.Millisecond,
	}, zap.NewNop())
	require.NoError(t, err)

	_, err = g.Verify(context.Background(), "ref")
	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Zero(t, gwErr.StatusCode)
}

func TestNewPaystackGatewayRequiresKey(t *testing.T) {
	_, err := NewPaystackGateway(config.PaymentConfig{}, zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestPaystackWebhook(t *testing.T) {
	wh := NewPaystackWebhook("sk_test_secret")
	body := []byte(`{"event":"charge.success","data":{"id":42,"reference":"ref_1","amount":100000,"status":"success"}}`)

	t.Run("valid charge", func(t *testing.T) {
		h := http.Header{}
		h.Set("x-paystack-signature", SignPayload("sk_test_secret", body))

		evt, err := wh.ParseWebhook(body, h)
		require.NoError(t, err)
		assert.Equal(t, "ref_1", evt.Reference)
		assert.Equal(t, "42", evt.TransactionID)
		assert.Equal(t, 1000.0, evt.Amount)
	})

	t.Run("signature over different body", func(t *testing.T) {
		h := http.Header{}
		h.Set("x-paystack-signature", SignPayload("sk_test_secret", []byte(`{"event":"charge.success"}`)))

		_, err := wh.ParseWebhook(body, h)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("missing header", func(t *testing.T) {
		_, err := wh.ParseWebhook(body, http.Header{})
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("other event", func(t *testing.T) {
		other := []byte(`{"event":"transfer.success","data":{"reference":"ref_1"}}`)
		h := http.Header{}
		h.Set("x-paystack-signature", SignPayload("sk_test_secret", other))

		_, err := wh.ParseWebhook(other, h)
		assert.ErrorIs(t, err, ErrEventIgnored)
	})
}
