package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// InvoicesCreated counts invoices persisted, labelled by payment type.
	InvoicesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gclient_invoices_created_total",
		Help: "Invoices created, by payment type.",
	}, []string{"payment_type"})

	// PaymentsApplied counts successful reconciliations, labelled by source (verify or webhook).
	PaymentsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gclient_payments_applied_total",
		Help: "Payments applied to invoices, by source.",
	}, []string{"source"})

	// WebhookEvents counts received webhook events by outcome.
	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gclient_webhook_events_total",
		Help: "Payment webhook events, by provider and outcome.",
	}, []string{"provider", "outcome"})

	// NotificationFailures counts emails or pushes that could not be delivered.
	NotificationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gclient_notification_failures_total",
		Help: "Notification delivery failures, by channel.",
	}, []string{"channel"})

	// HTTPRequests counts handled requests by route and status class.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gclient_http_requests_total",
		Help: "HTTP requests handled, by method, route and status.",
	}, []string{"method", "route", "status"})
)
