package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"resendrelay/internal/config"
	"resendrelay/internal/middleware"
	"resendrelay/internal/notifier"
	"resendrelay/internal/signature"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_router"

// newRelay starts the full relay in front of a fake Discord endpoint and
// returns the relay URL and the channel Discord bodies arrive on.
func newRelay(t *testing.T, discordStatus int) (string, <-chan map[string]any) {
	t.Helper()

	received := make(chan map[string]any, 4)
	discord := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			received <- body
		}
		w.WriteHeader(discordStatus)
	}))
	t.Cleanup(discord.Close)

	cfg := &config.Config{
		Environment:        "test",
		WebhookSecret:      testSecret,
		DiscordWebhookURL:  discord.URL,
		DiscordTimeoutSec:  2,
		MaxBodyBytes:       1 << 20,
		CORSAllowedOrigins: []string{"*"},
	}
	verifier, err := signature.NewVerifier([]byte(cfg.WebhookSecret))
	require.NoError(t, err)
	n := notifier.NewDiscord(cfg.DiscordWebhookURL, cfg.DiscordTimeout(), zerolog.Nop())

	relay := httptest.NewServer(New(cfg, verifier, n, zerolog.Nop()))
	t.Cleanup(relay.Close)

	return relay.URL, received
}

func post(t *testing.T, url, payload, sig string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url+"/resend-webhook", strings.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if sig != "" {
		req.Header.Set(signature.HeaderKey, sig)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRelayEndToEnd(t *testing.T) {
	url, received := newRelay(t, http.StatusNoContent)

	payload := `{"type":"email.sent","data":{"to":"a@x.com","subject":"Hi"}}`
	resp := post(t, url, payload, signature.Compute([]byte(testSecret), []byte(payload)))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "OK", string(body))
	require.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))

	select {
	case got := <-received:
		require.Equal(t, map[string]any{"content": "📤 **Email sent** to `a@x.com`\nSubject: **Hi**"}, got)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for Discord delivery")
	}
}

func TestRelayDiscordFailure(t *testing.T) {
	url, received := newRelay(t, http.StatusBadGateway)

	payload := `{"type":"email.delivered","data":{"to":[]}}`
	resp := post(t, url, payload, signature.Compute([]byte(testSecret), []byte(payload)))

	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.Equal(t, map[string]any{"content": "✅ **Email delivered** to `unknown`"}, <-received)
}

func TestRelayRejectsBeforeDelivery(t *testing.T) {
	url, received := newRelay(t, http.StatusNoContent)
	payload := `{"type":"email.sent","data":{"to":"a@x.com","subject":"Hi"}}`

	resp := post(t, url, payload, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = post(t, url, payload, signature.Compute([]byte("other"), []byte(payload)))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	malformed := `{"data":{"to":"a@x.com"}}`
	resp = post(t, url, malformed, signature.Compute([]byte(testSecret), []byte(malformed)))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	require.Len(t, received, 0)
}

func TestRelayHealthAndMetrics(t *testing.T) {
	url, _ := newRelay(t, http.StatusNoContent)

	resp, err := http.Get(url + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Resend Webhook Relay is running!", string(body))

	payload := `{"type":"email.opened","data":{}}`
	post(t, url, payload, signature.Compute([]byte(testSecret), []byte(payload)))

	metricsResp, err := http.Get(url + "/metrics")
	require.NoError(t, err)
	defer metricsResp.Body.Close()
	metricsBody, err := io.ReadAll(metricsResp.Body)
	require.NoError(t, err)
	require.True(t, bytes.Contains(metricsBody, []byte(`resend_relay_events_total{type="other"}`)))
	require.True(t, bytes.Contains(metricsBody, []byte(`resend_relay_webhooks_total{outcome="relayed"}`)))
}

func TestRelayCORSPreflight(t *testing.T) {
	url, _ := newRelay(t, http.StatusNoContent)

	req, err := http.NewRequest(http.MethodOptions, url+"/resend-webhook", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://resend.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", signature.HeaderKey)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
