package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers and the middleware the router needs.
type HandlerBundle struct {
	// Middleware
	Auth          gin.HandlerFunc
	AdminOnly     gin.HandlerFunc
	BillingAdmins gin.HandlerFunc

	// Auth endpoints
	RegisterAdminHandler      gin.HandlerFunc
	RegisterLearnerHandler    gin.HandlerFunc
	VerifyEmailHandler        gin.HandlerFunc
	ResendVerificationHandler gin.HandlerFunc
	LoginHandler              gin.HandlerFunc
	CheckAuthHandler          gin.HandlerFunc
	UpdateFCMTokenHandler     gin.HandlerFunc
	ListUsersHandler          gin.HandlerFunc
	SetUserStatusHandler      gin.HandlerFunc

	// Track endpoints
	CreateTrackHandler gin.HandlerFunc
	GetTrackHandler    gin.HandlerFunc
	ListTracksHandler  gin.HandlerFunc

	// Invoice endpoints
	CreateInvoiceHandler   gin.HandlerFunc
	VerifyPaymentHandler   gin.HandlerFunc
	PaystackWebhookHandler gin.HandlerFunc
	StripeWebhookHandler   gin.HandlerFunc
	ListInvoicesHandler    gin.HandlerFunc
	GetInvoiceHandler      gin.HandlerFunc
	UpdateInvoiceHandler   gin.HandlerFunc
	InvoicePaymentsHandler gin.HandlerFunc
	TrackBalanceHandler    gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}

// NewHandlerBundle wires handler methods into a bundle. Middleware fields are set by the caller.
func NewHandlerBundle(users *UserHandler, tracks *TrackHandler, invoices *InvoiceHandler) *HandlerBundle {
	return &HandlerBundle{
		RegisterAdminHandler:      users.RegisterAdminHandler,
		RegisterLearnerHandler:    users.RegisterLearnerHandler,
		VerifyEmailHandler:        users.VerifyEmailHandler,
		ResendVerificationHandler: users.ResendVerificationHandler,
		LoginHandler:              users.LoginHandler,
		CheckAuthHandler:          users.CheckAuthHandler,
		UpdateFCMTokenHandler:     users.UpdateFCMTokenHandler,
		ListUsersHandler:          users.ListUsersHandler,
		SetUserStatusHandler:      users.SetUserStatusHandler,

		CreateTrackHandler: tracks.CreateTrackHandler,
		GetTrackHandler:    tracks.GetTrackHandler,
		ListTracksHandler:  tracks.ListTracksHandler,

		CreateInvoiceHandler:   invoices.CreateInvoiceHandler,
		VerifyPaymentHandler:   invoices.VerifyPaymentHandler,
		PaystackWebhookHandler: invoices.PaystackWebhookHandler,
		StripeWebhookHandler:   invoices.StripeWebhookHandler,
		ListInvoicesHandler:    invoices.ListInvoicesHandler,
		GetInvoiceHandler:      invoices.GetInvoiceHandler,
		UpdateInvoiceHandler:   invoices.UpdateInvoiceHandler,
		InvoicePaymentsHandler: invoices.InvoicePaymentsHandler,
		TrackBalanceHandler:    invoices.TrackBalanceHandler,

		HealthHandler: HealthHandler,
	}
}
