package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stripeSignedHeader(secret string, payload []byte) string {
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(ts + "." + string(payload)))
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestSuccessURL(t *testing.T) {
	assert.Equal(t, "https://a.io/cb?reference={CHECKOUT_SESSION_ID}", successURL("https://a.io/cb"))
	assert.Equal(t, "https://a.io/cb?x=1&reference={CHECKOUT_SESSION_ID}", successURL("https://a.io/cb?x=1"))
}

func TestStripeWebhook(t *testing.T) {
	const secret = "whsec_test"
	wh := NewStripeWebhook(secret)

	paid := []byte(`{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{"id":"cs_123","object":"checkout.session","payment_status":"paid","amount_total":50000,"payment_intent":"pi_9"}}}`)

	t.Run("paid session", func(t *testing.T) {
		h := http.Header{}
		h.Set("Stripe-Signature", stripeSignedHeader(secret, paid))

		evt, err := wh.ParseWebhook(paid, h)
		require.NoError(t, err)
		assert.Equal(t, "cs_123", evt.Reference)
		assert.Equal(t, "pi_9", evt.TransactionID)
		assert.Equal(t, 500.0, evt.Amount)
		assert.Equal(t, ProviderStripe, evt.Provider)
	})

	t.Run("bad signature", func(t *testing.T) {
		h := http.Header{}
		h.Set("Stripe-Signature", stripeSignedHeader("whsec_other", paid))

		_, err := wh.ParseWebhook(paid, h)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("unpaid session ignored", func(t *testing.T) {
		unpaid := []byte(`{"id":"evt_2","object":"event","type":"checkout.session.completed","data":{"object":{"id":"cs_124","object":"checkout.session","payment_status":"unpaid","amount_total":50000}}}`)
		h := http.Header{}
		h.Set("Stripe-Signature", stripeSignedHeader(secret, unpaid))

		_, err := wh.ParseWebhook(unpaid, h)
		assert.ErrorIs(t, err, ErrEventIgnored)
	})
}
