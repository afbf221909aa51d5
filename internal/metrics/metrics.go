package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Webhook outcomes recorded in WebhooksTotal.
const (
	OutcomeRelayed          = "relayed"
	OutcomeMissingSignature = "missing_signature"
	OutcomeInvalidSignature = "invalid_signature"
	OutcomeMalformedPayload = "malformed_payload"
	OutcomeDeliveryFailed   = "delivery_failed"
	OutcomeTooLarge         = "too_large"
)

var (
	WebhooksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resend_relay_webhooks_total",
			Help: "Total number of webhook requests by outcome",
		},
		[]string{"outcome"},
	)

	// Label values are limited to the recognized event types plus "other".
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resend_relay_events_total",
			Help: "Total number of translated events by type",
		},
		[]string{"type"},
	)

	DeliveryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "resend_relay_delivery_duration_seconds",
			Help:    "Duration of downstream Discord deliveries in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
