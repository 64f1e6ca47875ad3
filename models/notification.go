package models

import "time"

// EmailMessage is one outbound email.
type EmailMessage struct {
	To      string
	Subject string
	HTML    string
}

// ReminderPayload is queued to remind a learner about an unpaid invoice.
type ReminderPayload struct {
	InvoiceID string    `json:"invoiceId"`
	LearnerID string    `json:"learnerId"`
	FireDate  time.Time `json:"fireDate"`
}
