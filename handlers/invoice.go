package handlers

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"gclient/middleware"
	"gclient/models"
	"gclient/services/invoice"
	"gclient/services/payment"
	"gclient/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxWebhookBody caps how much of a webhook request is read.
const maxWebhookBody = 1 << 20

type InvoiceHandler struct {
	InvoiceService invoice.InvoiceService
}

func NewInvoiceHandler(svc invoice.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{InvoiceService: svc}
}

func actorFrom(c *gin.Context) invoice.Actor {
	id, email, role := middleware.ActorFromContext(c)
	return invoice.Actor{UserID: id, Email: email, Role: role}
}

// CreateInvoiceHandler handles POST /api/invoices.
func (h *InvoiceHandler) CreateInvoiceHandler(c *gin.Context) {
	logger := getLogger(c)

	var req models.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid create invoice request", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	view, err := h.InvoiceService.CreateInvoice(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondInvoiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Invoice created successfully",
		"invoice": view,
	})
}

// VerifyPaymentHandler handles GET /api/invoices/verify-payment?reference=.
func (h *InvoiceHandler) VerifyPaymentHandler(c *gin.Context) {
	reference := strings.TrimSpace(c.Query("reference"))
	if reference == "" {
		utils.JSONError(c, http.StatusBadRequest, "Payment reference is required", "missing reference query parameter")
		return
	}

	inv, err := h.InvoiceService.VerifyPayment(c.Request.Context(), reference)
	if err != nil {
		respondInvoiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payment verified successfully",
		"invoice": inv,
	})
}

// PaystackWebhookHandler handles POST /api/invoices/paystack-webhook.
func (h *InvoiceHandler) PaystackWebhookHandler(c *gin.Context) {
	h.webhook(c, payment.ProviderPaystack)
}

// StripeWebhookHandler handles POST /api/invoices/stripe-webhook.
func (h *InvoiceHandler) StripeWebhookHandler(c *gin.Context) {
	h.webhook(c, payment.ProviderStripe)
}

// webhook hands the untouched body to the service; signatures are computed over the raw bytes.
func (h *InvoiceHandler) webhook(c *gin.Context, provider string) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Could not read webhook body", err.Error())
		return
	}

	if err := h.InvoiceService.HandleWebhook(c.Request.Context(), provider, payload, c.Request.Header); err != nil {
		respondInvoiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Webhook received"})
}

// ListInvoicesHandler handles GET /api/invoices.
func (h *InvoiceHandler) ListInvoicesHandler(c *gin.Context) {
	filter := models.InvoiceFilter{
		Status:  models.InvoiceStatus(strings.TrimSpace(c.Query("status"))),
		Learner: strings.TrimSpace(c.Query("learner")),
		Track:   strings.TrimSpace(c.Query("track")),
	}
	var err error
	if filter.Limit, err = queryInt(c, "limit"); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "limit must be a non-negative number", err.Error())
		return
	}
	if filter.Skip, err = queryInt(c, "skip"); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "skip must be a non-negative number", err.Error())
		return
	}

	views, err := h.InvoiceService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		respondInvoiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Invoices retrieved successfully",
		"count":    len(views),
		"invoices": views,
	})
}

// GetInvoiceHandler handles GET /api/invoices/:id.
func (h *InvoiceHandler) GetInvoiceHandler(c *gin.Context) {
	view, err := h.InvoiceService.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondInvoiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Invoice retrieved successfully", "invoice": view})
}

// InvoicePaymentsHandler handles GET /api/invoices/:id/payments.
func (h *InvoiceHandler) InvoicePaymentsHandler(c *gin.Context) {
	records, err := h.InvoiceService.InvoicePayments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondInvoiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payments retrieved successfully", "count": len(records), "payments": records})
}

// UpdateInvoiceHandler handles PUT /api/invoices/:id.
func (h *InvoiceHandler) UpdateInvoiceHandler(c *gin.Context) {
	logger := getLogger(c)

	var upd models.InvoiceUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		logger.Warn("Invalid update invoice request", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	view, err := h.InvoiceService.UpdateInvoice(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		respondInvoiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Invoice updated successfully", "invoice": view})
}

// TrackBalanceHandler handles GET /api/invoices/balance?track=.
// Learners see their own balance; admins may pass learner=.
func (h *InvoiceHandler) TrackBalanceHandler(c *gin.Context) {
	actor := actorFrom(c)
	learnerID := actor.UserID
	if q := strings.TrimSpace(c.Query("learner")); q != "" && q != actor.UserID {
		if actor.Role != models.RoleAdmin {
			utils.JSONError(c, http.StatusForbidden, "You can only view your own balance", "learner query requires admin role")
			return
		}
		learnerID = q
	}

	balance, err := h.InvoiceService.TrackBalance(c.Request.Context(), learnerID, strings.TrimSpace(c.Query("track")))
	if err != nil {
		respondInvoiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Balance retrieved successfully", "balance": balance})
}

func queryInt(c *gin.Context, key string) (int64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}
