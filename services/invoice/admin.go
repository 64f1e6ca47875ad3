package invoice

import (
	"context"
	"errors"
	"strings"

	invoiceRepo "gclient/database/repository/invoice"
	"gclient/models"

	"go.uber.org/zap"
)

func (s *DefaultInvoiceService) ListInvoices(ctx context.Context, filter models.InvoiceFilter) ([]models.InvoiceView, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, newError(KindValidation, "unknown invoice status", nil)
	}
	invoices, err := s.invoices.List(ctx, filter)
	if err != nil {
		return nil, newError(KindInternal, "failed to list invoices", err)
	}

	p := s.newPopulator()
	views := make([]models.InvoiceView, 0, len(invoices))
	for i := range invoices {
		views = append(views, *p.view(ctx, &invoices[i]))
	}
	return views, nil
}

func (s *DefaultInvoiceService) GetInvoice(ctx context.Context, id string) (*models.InvoiceView, error) {
	inv, err := s.loadInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.newPopulator().view(ctx, inv), nil
}

// UpdateInvoice applies a billing admin's edit. Status may only move forward and
// the write is rejected if the invoice changed status since it was read.
func (s *DefaultInvoiceService) UpdateInvoice(ctx context.Context, id string, upd models.InvoiceUpdate) (*models.InvoiceView, error) {
	inv, err := s.loadInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	set := map[string]any{}
	if upd.DueDate != nil {
		if upd.DueDate.IsZero() {
			return nil, newError(KindValidation, "dueDate is invalid", nil)
		}
		set["dueDate"] = *upd.DueDate
	}
	if upd.PaymentDetails != nil {
		set["paymentDetails"] = strings.TrimSpace(*upd.PaymentDetails)
	}
	if upd.Status != nil && *upd.Status != inv.Status {
		next := *upd.Status
		if !next.Valid() {
			return nil, newError(KindValidation, "unknown invoice status", nil)
		}
		if !inv.Status.CanTransitionTo(next) {
			return nil, newError(KindConflict, "Invoice status can not move from "+string(inv.Status)+" to "+string(next), nil)
		}
		set["status"] = next
		if next == models.InvoiceStatusPaid {
			set["amountPaid"] = inv.Amount
			set["paidAt"] = s.now()
		}
	}
	if len(set) == 0 {
		return nil, newError(KindValidation, "nothing to update", nil)
	}

	updated, err := s.invoices.UpdateGuarded(ctx, id, inv.Status, set)
	if err != nil {
		if errors.Is(err, invoiceRepo.ErrStaleInvoice) {
			return nil, newError(KindConflict, "Invoice was updated by someone else, reload and try again", err)
		}
		return nil, newError(KindInternal, "failed to update invoice", err)
	}

	s.logger.Info("Invoice updated by admin", zap.String("invoiceId", id), zap.Any("fields", keys(set)))
	return s.newPopulator().view(ctx, updated), nil
}

// InvoicePayments lists the ledger entries credited to one invoice.
func (s *DefaultInvoiceService) InvoicePayments(ctx context.Context, id string) ([]models.PaymentRecord, error) {
	if _, err := s.loadInvoice(ctx, id); err != nil {
		return nil, err
	}
	if s.records == nil {
		return []models.PaymentRecord{}, nil
	}
	records, err := s.records.ListByInvoice(ctx, id)
	if err != nil {
		return nil, newError(KindInternal, "failed to load payment history", err)
	}
	return records, nil
}

func (s *DefaultInvoiceService) loadInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, invoiceRepo.ErrInvoiceNotFound) {
			return nil, newError(KindNotFound, "Invoice not found", err)
		}
		return nil, newError(KindInternal, "failed to load invoice", err)
	}
	return inv, nil
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
