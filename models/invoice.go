package models

import "time"

// InvoiceStatus is the payment progress of a single invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPartial InvoiceStatus = "partial"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// rank orders statuses so transitions can only move forward.
func (s InvoiceStatus) rank() int {
	switch s {
	case InvoiceStatusPending:
		return 0
	case InvoiceStatusPartial:
		return 1
	case InvoiceStatusPaid:
		return 2
	}
	return -1
}

// Valid reports whether s is a known status.
func (s InvoiceStatus) Valid() bool { return s.rank() >= 0 }

// CanTransitionTo reports whether moving from s to next keeps the status monotonic.
// Staying in the same status is allowed; leaving paid is not.
func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	return next.rank() >= s.rank()
}

// PaymentType is the billing plan picked when an invoice is raised.
type PaymentType string

const (
	PaymentTypeHalf PaymentType = "half"
	PaymentTypeFull PaymentType = "full"
)

func (p PaymentType) Valid() bool {
	return p == PaymentTypeHalf || p == PaymentTypeFull
}

// Invoice is a learner's billing obligation toward a track.
type Invoice struct {
	ID             string        `bson:"id" json:"id"`
	Learner        string        `bson:"learner" json:"learner"`
	Track          string        `bson:"track" json:"track"`
	Amount         float64       `bson:"amount" json:"amount"`
	AmountPaid     float64       `bson:"amountPaid" json:"amountPaid"`
	Status         InvoiceStatus `bson:"status" json:"status"`
	PaymentType    PaymentType   `bson:"paymentType" json:"paymentType"`
	DueDate        time.Time     `bson:"dueDate" json:"dueDate"`
	PaymentLink    string        `bson:"paymentLink,omitempty" json:"paymentLink,omitempty"`
	Reference      string        `bson:"reference,omitempty" json:"reference,omitempty"`
	Provider       string        `bson:"provider,omitempty" json:"provider,omitempty"`
	CallbackURL    string        `bson:"callbackUrl,omitempty" json:"callbackUrl,omitempty"`
	PaymentDetails string        `bson:"paymentDetails,omitempty" json:"paymentDetails,omitempty"`
	// Transactions lists gateway transaction ids already credited to this invoice.
	Transactions []string   `bson:"transactions,omitempty" json:"-"`
	PaidAt       *time.Time `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	CreatedAt    time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// IsPaid reports whether the invoice reached its terminal state.
func (i *Invoice) IsPaid() bool {
	return i.Status == InvoiceStatusPaid
}

// Outstanding is what is still owed on this invoice.
func (i *Invoice) Outstanding() float64 {
	if i.AmountPaid >= i.Amount {
		return 0
	}
	return i.Amount - i.AmountPaid
}

// InvoiceView is the wire representation of an invoice joined with its learner and track.
type InvoiceView struct {
	*Invoice
	Learner *UserSummary  `json:"learner,omitempty"`
	Track   *TrackSummary `json:"track,omitempty"`
}

// InvoiceFilter narrows admin listings. Empty fields match everything.
type InvoiceFilter struct {
	Status  InvoiceStatus
	Learner string
	Track   string
	Limit   int64
	Skip    int64
}

// TrackPayment is the paid total a learner holds on one track.
type TrackPayment struct {
	Track string  `bson:"_id" json:"track"`
	Paid  float64 `bson:"paid" json:"paid"`
}

// TrackBalance summarises a learner's progress paying for one track across invoices.
type TrackBalance struct {
	Learner     string        `json:"learner"`
	Track       string        `json:"track"`
	FullPrice   float64       `json:"fullPrice"`
	AmountPaid  float64       `json:"amountPaid"`
	Outstanding float64       `json:"outstanding"`
	Status      InvoiceStatus `json:"status"`
}

// InvoiceUpdate carries the fields a billing admin may change. Nil means unchanged.
type InvoiceUpdate struct {
	DueDate        *time.Time     `json:"dueDate"`
	PaymentDetails *string        `json:"paymentDetails"`
	Status         *InvoiceStatus `json:"status"`
}
