package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"resendrelay/internal/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// MaxContentLength is the Discord limit on message content, in characters.
const MaxContentLength = 2000

var ErrDeliveryFailed = errors.New("discord delivery failed")

// Notifier delivers a rendered notification message downstream.
type Notifier interface {
	Notify(ctx context.Context, content string) error
}

type HTTPDo interface {
	Do(req *http.Request) (*http.Response, error)
}

// WebhookMessage is the body posted to a Discord webhook.
type WebhookMessage struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type Discord struct {
	client   HTTPDo
	url      string
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewDiscord(url string, timeout time.Duration, logger zerolog.Logger) *Discord {
	return NewDiscordWithClient(&http.Client{Timeout: timeout}, url, logger)
}

func NewDiscordWithClient(client HTTPDo, url string, logger zerolog.Logger) *Discord {
	return &Discord{
		client:   client,
		url:      url,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.With().Str("service", "DiscordNotifier").Logger(),
	}
}

// Notify posts content to the Discord webhook. It makes a single attempt;
// every failure wraps ErrDeliveryFailed.
func (d *Discord) Notify(ctx context.Context, content string) error {
	msg := WebhookMessage{Content: truncate(content, MaxContentLength)}
	if err := d.validate.Struct(&msg); err != nil {
		return fmt.Errorf("%w: invalid message: %v", ErrDeliveryFailed, err)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: marshaling message: %v", ErrDeliveryFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: creating request: %v", ErrDeliveryFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := d.client.Do(req)
	metrics.DeliveryDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Discord explains rejections in the body; keep a bounded prefix for operators.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		d.logger.Warn().
			Int("status_code", resp.StatusCode).
			Str("response", string(snippet)).
			Msg("Discord rejected webhook message")
		return fmt.Errorf("%w: status %d", ErrDeliveryFailed, resp.StatusCode)
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// truncate shortens s to at most limit runes, marking the cut with an ellipsis.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}
