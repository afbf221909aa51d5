package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"resendrelay/internal/metrics"
	"resendrelay/internal/signature"

	"github.com/rs/zerolog"
)

const verifiedPayloadKey = contextKey("verified-payload")

// SignatureMiddleware authenticates webhook requests before any handler sees
// their content. The body is read once, bounded by maxBodyBytes, and checked
// against the resend-signature header. On success the exact verified bytes
// are available through VerifiedPayload.
func SignatureMiddleware(verifier *signature.Verifier, maxBodyBytes int64, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.With().Str("request_id", GetRequestID(r.Context())).Logger()

			payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					metrics.WebhooksTotal.WithLabelValues(metrics.OutcomeTooLarge).Inc()
					log.Warn().Int64("limit", tooLarge.Limit).Msg("Webhook payload too large")
					http.Error(w, "Payload too large", http.StatusRequestEntityTooLarge)
					return
				}
				log.Error().Err(err).Msg("Failed to read webhook payload")
				http.Error(w, "Failed to read payload", http.StatusBadRequest)
				return
			}

			claimed := r.Header.Get(signature.HeaderKey)
			if err := verifier.Check(payload, claimed); err != nil {
				log.Debug().Int("signature_length", len(claimed)).Msg("Rejected webhook signature")
				switch {
				case errors.Is(err, signature.ErrMissingSignature):
					metrics.WebhooksTotal.WithLabelValues(metrics.OutcomeMissingSignature).Inc()
					log.Warn().Err(err).Msg("Webhook signature header missing")
					http.Error(w, "Missing signature header", http.StatusBadRequest)
				default:
					metrics.WebhooksTotal.WithLabelValues(metrics.OutcomeInvalidSignature).Inc()
					log.Warn().Err(err).Msg("Webhook signature verification failed")
					http.Error(w, "Invalid signature", http.StatusUnauthorized)
				}
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(payload))
			ctx := context.WithValue(r.Context(), verifiedPayloadKey, payload)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// VerifiedPayload returns the request body that passed signature
// verification. ok is false when the request did not go through
// SignatureMiddleware.
func VerifiedPayload(ctx context.Context) ([]byte, bool) {
	payload, ok := ctx.Value(verifiedPayloadKey).([]byte)
	return payload, ok
}
