package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resendrelay/internal/api/v1/router"
	"resendrelay/internal/config"
	"resendrelay/internal/logger"
	"resendrelay/internal/notifier"
	"resendrelay/internal/secrets"
	"resendrelay/internal/signature"

	"github.com/joho/godotenv"
)

// @title Resend Webhook Relay
// @version 1.0
// @description Verifies Resend webhooks and relays them to Discord
// @host localhost:3000
// @BasePath /
// @Schemes http https

func main() {
	// 1. Load configuration
	envErr := godotenv.Load()
	logger := logger.New()
	if envErr != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}

	// 2. Resolve the signing secret; refuse to start without one
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	secret, err := secrets.ResolveWebhookSecret(ctx, cfg, secrets.NewSecretManagerService)
	cancel()
	if err != nil {
		logger.Fatal().Msgf("Error resolving webhook secret: %v", err)
	}
	verifier, err := signature.NewVerifier(secret)
	if err != nil {
		logger.Fatal().Msgf("Error creating signature verifier: %v", err)
	}

	// 3. Build router
	discord := notifier.NewDiscord(cfg.DiscordWebhookURL, cfg.DiscordTimeout(), logger)
	r := router.New(cfg, verifier, discord, logger)

	// 4. Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.DiscordTimeout() + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Start server in a goroutine
	go func() {
		logger.Info().Msgf("🚀 Listening on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Msgf("Listen: %s\n", err)
		}
	}()

	// 6. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutdown signal received, exiting...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Msgf("Server forced to shutdown: %v", err)
	}
	logger.Info().Msg("Server shut down gracefully")
}
