package router

import (
	"net/http"

	"resendrelay/internal/api/v1/handler"
	"resendrelay/internal/config"
	"resendrelay/internal/middleware"
	"resendrelay/internal/notifier"
	"resendrelay/internal/signature"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// New assembles the relay's HTTP handler. verifier and n are built by the
// caller so that startup fails before the router exists when either is unusable.
func New(cfg *config.Config, verifier *signature.Verifier, n notifier.Notifier, logger zerolog.Logger) http.Handler {
	logger.Info().Str("environment", cfg.Environment).Msg("Router initialized")

	// 1. Initialize handlers
	webhookHandler := handler.NewWebhookHandler(n, logger)
	healthHandler := handler.NewHealthHandler()

	// 2. Initialize middleware
	signatureMiddleware := middleware.SignatureMiddleware(verifier, cfg.MaxBodyBytes, logger)

	// 3. Create ServeMux router
	mux := http.NewServeMux()
	webhookHandler.RegisterRoutes(mux, signatureMiddleware)
	healthHandler.RegisterRoutes(mux)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	// 4. Apply CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", signature.HeaderKey, middleware.RequestIDHeader},
		Debug:          false,
	})

	return middleware.RequestID(middleware.LoggerMiddleware(logger)(c.Handler(mux)))
}
