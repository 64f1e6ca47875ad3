package invoice

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gclient/config"
	invoiceRepo "gclient/database/repository/invoice"
	recordsRepo "gclient/database/repository/records"
	trackRepo "gclient/database/repository/track"
	userRepo "gclient/database/repository/user"
	"gclient/models"
	"gclient/services/notification"
	"gclient/services/payment"

	"go.uber.org/zap"
)

// Actor is the authenticated caller of a workflow operation.
type Actor struct {
	UserID string
	Email  string
	Role   string
}

// ReminderScheduler queues a payment-due reminder for later delivery.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error
}

// InvoiceService is the invoice and payment reconciliation workflow.
type InvoiceService interface {
	CreateInvoice(ctx context.Context, actor Actor, req models.CreateInvoiceRequest) (*models.InvoiceView, error)
	VerifyPayment(ctx context.Context, reference string) (*models.Invoice, error)
	HandleWebhook(ctx context.Context, provider string, payload []byte, headers http.Header) error

	ListInvoices(ctx context.Context, filter models.InvoiceFilter) ([]models.InvoiceView, error)
	GetInvoice(ctx context.Context, id string) (*models.InvoiceView, error)
	UpdateInvoice(ctx context.Context, id string, upd models.InvoiceUpdate) (*models.InvoiceView, error)

	InvoicePayments(ctx context.Context, invoiceID string) ([]models.PaymentRecord, error)
	TrackBalance(ctx context.Context, learnerID, trackID string) (*models.TrackBalance, error)
	SendDueReminder(ctx context.Context, invoiceID string) error
}

// Dependencies lists what DefaultInvoiceService needs. Records, Reminders and Webhooks are optional.
type Dependencies struct {
	Invoices  invoiceRepo.InvoiceRepository
	Records   recordsRepo.PaymentRecordRepository
	Users     userRepo.UserRepository
	Tracks    trackRepo.TrackRepository
	Gateway   payment.Gateway
	Webhooks  map[string]payment.WebhookParser
	Notifier  notification.NotificationService
	Reminders ReminderScheduler
	Billing   config.BillingConfig
	Logger    *zap.Logger
}

// DefaultInvoiceService is the production implementation.
type DefaultInvoiceService struct {
	invoices  invoiceRepo.InvoiceRepository
	records   recordsRepo.PaymentRecordRepository
	users     userRepo.UserRepository
	tracks    trackRepo.TrackRepository
	gateway   payment.Gateway
	webhooks  map[string]payment.WebhookParser
	notifier  notification.NotificationService
	reminders ReminderScheduler
	billing   config.BillingConfig
	logger    *zap.Logger
	now       func() time.Time
}

func NewDefaultInvoiceService(deps Dependencies) (*DefaultInvoiceService, error) {
	if deps.Invoices == nil || deps.Users == nil || deps.Tracks == nil {
		return nil, errors.New("invoice service initialization error: repositories are required")
	}
	if deps.Gateway == nil {
		return nil, errors.New("invoice service initialization error: payment gateway is nil")
	}
	if deps.Notifier == nil {
		return nil, errors.New("invoice service initialization error: notifier is nil")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Webhooks == nil {
		deps.Webhooks = map[string]payment.WebhookParser{}
	}
	if deps.Billing.DueDays <= 0 {
		deps.Billing.DueDays = 7
	}
	if deps.Billing.TrackCap <= 0 {
		deps.Billing.TrackCap = 2
	}

	return &DefaultInvoiceService{
		invoices:  deps.Invoices,
		records:   deps.Records,
		users:     deps.Users,
		tracks:    deps.Tracks,
		gateway:   deps.Gateway,
		webhooks:  deps.Webhooks,
		notifier:  deps.Notifier,
		reminders: deps.Reminders,
		billing:   deps.Billing,
		logger:    deps.Logger,
		now:       time.Now,
	}, nil
}
