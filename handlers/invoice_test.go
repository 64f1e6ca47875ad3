package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gclient/middleware"
	"gclient/models"
	"gclient/services/invoice"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubInvoiceService records calls and returns canned results.
type stubInvoiceService struct {
	invoice.InvoiceService

	createErr   error
	verifyErr   error
	webhookErr  error
	gotPayload  []byte
	gotProvider string
	gotActor    invoice.Actor
	gotLearner  string
	gotFilter   models.InvoiceFilter
}

func (s *stubInvoiceService) CreateInvoice(_ context.Context, actor invoice.Actor, req models.CreateInvoiceRequest) (*models.InvoiceView, error) {
	s.gotActor = actor
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &models.InvoiceView{Invoice: &models.Invoice{ID: "inv-1", Learner: req.Learner, Track: req.Track, Amount: 500, Status: models.InvoiceStatusPending}}, nil
}

func (s *stubInvoiceService) VerifyPayment(_ context.Context, ref string) (*models.Invoice, error) {
	if s.verifyErr != nil {
		return nil, s.verifyErr
	}
	return &models.Invoice{ID: "inv-1", Reference: ref, Status: models.InvoiceStatusPaid}, nil
}

func (s *stubInvoiceService) HandleWebhook(_ context.Context, provider string, payload []byte, _ http.Header) error {
	s.gotProvider = provider
	s.gotPayload = payload
	return s.webhookErr
}

func (s *stubInvoiceService) ListInvoices(_ context.Context, f models.InvoiceFilter) ([]models.InvoiceView, error) {
	s.gotFilter = f
	return []models.InvoiceView{}, nil
}

func (s *stubInvoiceService) TrackBalance(_ context.Context, learnerID, trackID string) (*models.TrackBalance, error) {
	s.gotLearner = learnerID
	return &models.TrackBalance{Learner: learnerID, Track: trackID}, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func withActor(id, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxUserID, id)
		c.Set(middleware.CtxEmail, id+"@gclient.test")
		c.Set(middleware.CtxRole, role)
	}
}

func serve(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestCreateInvoiceHandler(t *testing.T) {
	body := `{"learner":"l1","track":"t1","paymentType":"half","paystackCallbackUrl":"https://app.gclient.test/cb"}`

	t.Run("created", func(t *testing.T) {
		svc := &stubInvoiceService{}
		r := gin.New()
		r.POST("/invoices", withActor("l1", models.RoleLearner), NewInvoiceHandler(svc).CreateInvoiceHandler)

		w := serve(r, http.MethodPost, "/invoices", body)
		require.Equal(t, http.StatusCreated, w.Code)
		out := decode(t, w)
		assert.Equal(t, true, out["success"])
		assert.Equal(t, "inv-1", out["invoice"].(map[string]any)["id"])
		assert.Equal(t, "l1", svc.gotActor.UserID)
	})

	t.Run("bad payload", func(t *testing.T) {
		r := gin.New()
		r.POST("/invoices", withActor("l1", models.RoleLearner), NewInvoiceHandler(&stubInvoiceService{}).CreateInvoiceHandler)
		assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPost, "/invoices", `{"learner":"l1"}`).Code)
	})

	t.Run("workflow error kinds", func(t *testing.T) {
		cases := map[invoice.Kind]int{
			invoice.KindForbidden: http.StatusForbidden,
			invoice.KindNotFound:  http.StatusNotFound,
			invoice.KindConflict:  http.StatusConflict,
			invoice.KindUpstream:  http.StatusInternalServerError,
		}
		for kind, want := range cases {
			svc := &stubInvoiceService{createErr: &invoice.Error{Kind: kind, Message: "nope " + kind.String()}}
			r := gin.New()
			r.POST("/invoices", withActor("l1", models.RoleLearner), NewInvoiceHandler(svc).CreateInvoiceHandler)

			w := serve(r, http.MethodPost, "/invoices", body)
			assert.Equal(t, want, w.Code, kind.String())
			assert.Equal(t, "nope "+kind.String(), decode(t, w)["message"])
		}
	})
}

func TestVerifyPaymentHandler(t *testing.T) {
	svc := &stubInvoiceService{}
	r := gin.New()
	r.GET("/verify", NewInvoiceHandler(svc).VerifyPaymentHandler)

	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/verify", "").Code)

	w := serve(r, http.MethodGet, "/verify?reference=ref-9", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ref-9", decode(t, w)["invoice"].(map[string]any)["reference"])

	svc.verifyErr = &invoice.Error{Kind: invoice.KindValidation, Message: "Payment verification failed"}
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/verify?reference=ref-9", "").Code)
}

func TestWebhookHandlers(t *testing.T) {
	raw := `{"event":"charge.success","data":{"reference":"ref-1","amount":50000}}`

	t.Run("raw body forwarded", func(t *testing.T) {
		svc := &stubInvoiceService{}
		h := NewInvoiceHandler(svc)
		r := gin.New()
		r.POST("/paystack", h.PaystackWebhookHandler)
		r.POST("/stripe", h.StripeWebhookHandler)

		w := serve(r, http.MethodPost, "/paystack", raw)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, raw, string(svc.gotPayload))
		assert.Equal(t, "paystack", svc.gotProvider)

		serve(r, http.MethodPost, "/stripe", "{}")
		assert.Equal(t, "stripe", svc.gotProvider)
	})

	t.Run("bad signature is 401", func(t *testing.T) {
		svc := &stubInvoiceService{webhookErr: &invoice.Error{Kind: invoice.KindUnauthorized, Message: "Invalid signature"}}
		r := gin.New()
		r.POST("/paystack", NewInvoiceHandler(svc).PaystackWebhookHandler)
		assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodPost, "/paystack", raw).Code)
	})
}

func TestTrackBalanceHandler(t *testing.T) {
	t.Run("learner sees own balance", func(t *testing.T) {
		svc := &stubInvoiceService{}
		r := gin.New()
		r.GET("/balance", withActor("l1", models.RoleLearner), NewInvoiceHandler(svc).TrackBalanceHandler)

		assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/balance?track=t1", "").Code)
		assert.Equal(t, "l1", svc.gotLearner)
		assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/balance?track=t1&learner=l2", "").Code)
	})

	t.Run("admin may query a learner", func(t *testing.T) {
		svc := &stubInvoiceService{}
		r := gin.New()
		r.GET("/balance", withActor("a1", models.RoleAdmin), NewInvoiceHandler(svc).TrackBalanceHandler)

		assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/balance?track=t1&learner=l2", "").Code)
		assert.Equal(t, "l2", svc.gotLearner)
	})
}

func TestListInvoicesHandler(t *testing.T) {
	svc := &stubInvoiceService{}
	r := gin.New()
	r.GET("/invoices", NewInvoiceHandler(svc).ListInvoicesHandler)

	w := serve(r, http.MethodGet, "/invoices?status=partial&learner=l1&limit=5&skip=10", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.InvoiceFilter{Status: models.InvoiceStatusPartial, Learner: "l1", Limit: 5, Skip: 10}, svc.gotFilter)

	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/invoices?limit=-1", "").Code)
}
