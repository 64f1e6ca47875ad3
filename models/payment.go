package models

import "time"

// --- Gateway requests & results ---

// PaymentInitRequest asks the gateway to open a checkout for one invoice.
type PaymentInitRequest struct {
	Email       string
	Amount      float64
	CallbackURL string
	Description string
	Metadata    map[string]string
}

// PaymentSession is the gateway's answer to an initialize call.
type PaymentSession struct {
	Provider    string
	PaymentLink string
	Reference   string
}

// PaymentVerification is the gateway's view of a transaction.
type PaymentVerification struct {
	Reference     string
	TransactionID string
	Success       bool
	Status        string
	Amount        float64
	PaidAt        time.Time
}

// PaymentEvent is a gateway push notification reduced to what reconciliation needs.
type PaymentEvent struct {
	Provider      string
	Type          string
	Reference     string
	TransactionID string
	Amount        float64
}

// CreateInvoiceRequest is the POST /invoices payload.
type CreateInvoiceRequest struct {
	Learner        string      `json:"learner" binding:"required"`
	Track          string      `json:"track" binding:"required"`
	PaymentType    PaymentType `json:"paymentType" binding:"required"`
	CallbackURL    string      `json:"paystackCallbackUrl" binding:"required,url"`
	DueDate        *time.Time  `json:"dueDate"`
	PaymentDetails string      `json:"paymentDetails"`
}
