package invoiceRepo

import (
	"context"
	"errors"
	"time"

	"gclient/models"
)

var (
	// ErrInvoiceNotFound is returned when no invoice matches the lookup.
	ErrInvoiceNotFound = errors.New("invoice not found")
	// ErrPaymentNotApplied is returned by ApplyPayment when the guarded update matched nothing:
	// the invoice is missing, already paid, or already credited with that transaction.
	ErrPaymentNotApplied = errors.New("payment not applied")
	// ErrStaleInvoice is returned when an update raced with another status change.
	ErrStaleInvoice = errors.New("invoice changed concurrently")
)

// InvoiceRepository defines methods for invoice data access.
type InvoiceRepository interface {
	// Create inserts a new invoice.
	Create(ctx context.Context, inv *models.Invoice) error
	// GetByID retrieves an invoice by its id.
	GetByID(ctx context.Context, id string) (*models.Invoice, error)
	// GetByReference retrieves an invoice by its gateway reference.
	GetByReference(ctx context.Context, reference string) (*models.Invoice, error)
	// List returns invoices matching the filter, newest first.
	List(ctx context.Context, filter models.InvoiceFilter) ([]models.Invoice, error)
	// Delete removes an invoice by id.
	Delete(ctx context.Context, id string) error
	// ApplyPayment atomically credits a gateway transaction to the invoice with the given reference.
	ApplyPayment(ctx context.Context, reference, transactionID string, credit float64, at time.Time) (*models.Invoice, error)
	// UpdateGuarded applies an admin update only if the invoice is still in expected status.
	UpdateGuarded(ctx context.Context, id string, expected models.InvoiceStatus, set map[string]any) (*models.Invoice, error)
	// PaidByTrack sums the confirmed payments of a learner grouped by track.
	PaidByTrack(ctx context.Context, learnerID string) ([]models.TrackPayment, error)
}
