package handler

import (
	"encoding/json"
	"net/http"

	"resendrelay/internal/metrics"
	"resendrelay/internal/middleware"
	"resendrelay/internal/notifier"
	"resendrelay/internal/relay"

	"github.com/rs/zerolog"
)

// WebhookHandler relays Resend webhook events to Discord.
type WebhookHandler struct {
	notifier notifier.Notifier
	logger   zerolog.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(n notifier.Notifier, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{notifier: n, logger: logger.With().Str("handler", "WebhookHandler").Logger()}
}

// RegisterRoutes registers the webhook endpoint behind the signature middleware.
func (h *WebhookHandler) RegisterRoutes(mux *http.ServeMux, signatureMiddleware func(http.Handler) http.Handler) {
	mux.Handle("/resend-webhook", methodOnly(http.MethodPost, signatureMiddleware(http.HandlerFunc(h.ResendWebhook))))
}

// ResendWebhook godoc
// @Summary Relay a Resend webhook event to Discord
// @Description Verifies the resend-signature header against the raw body, translates the event and posts it to Discord.
// @Tags webhooks
// @Accept json
// @Produce plain
// @Param resend-signature header string true "hex HMAC-SHA256 of the raw body"
// @Success 200 {string} string "OK"
// @Failure 400 {string} string "Invalid webhook payload"
// @Failure 401 {string} string "Invalid signature"
// @Failure 413 {string} string "Payload too large"
// @Failure 500 {string} string "Failed to send to Discord"
// @Router /resend-webhook [post]
func (h *WebhookHandler) ResendWebhook(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With().Str("request_id", middleware.GetRequestID(r.Context())).Logger()

	payload, ok := middleware.VerifiedPayload(r.Context())
	if !ok {
		// Never act on a request that has not been authenticated.
		log.Error().Msg("Webhook reached handler without signature verification")
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	var event map[string]any
	if err := json.Unmarshal(payload, &event); err != nil {
		metrics.WebhooksTotal.WithLabelValues(metrics.OutcomeMalformedPayload).Inc()
		log.Warn().Err(err).Msg("Webhook payload is not a JSON object")
		http.Error(w, "Invalid webhook payload", http.StatusBadRequest)
		return
	}

	message, err := relay.Translate(event)
	if err != nil {
		metrics.WebhooksTotal.WithLabelValues(metrics.OutcomeMalformedPayload).Inc()
		log.Warn().Err(err).Msg("Rejected malformed webhook payload")
		http.Error(w, "Invalid webhook payload", http.StatusBadRequest)
		return
	}

	eventType := eventTypeLabel(event)
	metrics.EventsTotal.WithLabelValues(eventType).Inc()
	log.Info().Str("event_type", eventType).Msg("Resend webhook received")

	if err := h.notifier.Notify(r.Context(), message); err != nil {
		metrics.WebhooksTotal.WithLabelValues(metrics.OutcomeDeliveryFailed).Inc()
		if r.Context().Err() != nil {
			log.Warn().Err(err).Msg("Caller went away before delivery completed")
		} else {
			log.Error().Err(err).Msg("Error sending to Discord")
		}
		http.Error(w, "Failed to send to Discord", http.StatusInternalServerError)
		return
	}

	metrics.WebhooksTotal.WithLabelValues(metrics.OutcomeRelayed).Inc()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// eventTypeLabel bounds metric cardinality to the recognized event types.
func eventTypeLabel(event map[string]any) string {
	eventType, _ := relay.Unwrap(event)
	switch eventType {
	case relay.TypeEmailSent, relay.TypeEmailDelivered:
		return eventType.(string)
	default:
		return "other"
	}
}
