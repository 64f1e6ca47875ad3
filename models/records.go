package models

import "time"

// PaymentRecord is one credited gateway transaction, kept as an append-only ledger.
type PaymentRecord struct {
	ID            string        `bson:"id" json:"id"`
	InvoiceID     string        `bson:"invoiceId" json:"invoiceId"`
	Learner       string        `bson:"learner" json:"learner"`
	Track         string        `bson:"track" json:"track"`
	Reference     string        `bson:"reference" json:"reference"`
	TransactionID string        `bson:"transactionId" json:"transactionId"`
	Source        string        `bson:"source" json:"source"` // verify or webhook
	Credited      float64       `bson:"credited" json:"credited"`
	AmountPaid    float64       `bson:"amountPaid" json:"amountPaid"` // invoice total after this credit
	Status        InvoiceStatus `bson:"status" json:"status"`
	CreatedAt     time.Time     `bson:"createdAt" json:"createdAt"`
}
