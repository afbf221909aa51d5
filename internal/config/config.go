package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// ErrNoWebhookSecret is returned when neither a secret nor a secret resource is configured.
var ErrNoWebhookSecret = errors.New("RESEND_WEBHOOK_SECRET or RESEND_WEBHOOK_SECRET_RESOURCE must be set")

type Config struct {
	Port        string `envconfig:"PORT" default:"3000" validate:"required,numeric"`
	Environment string `envconfig:"ENV" default:"production"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	// Resend signing secret, either inline or as a Secret Manager version
	// name (projects/<p>/secrets/<s>/versions/<v>).
	WebhookSecret         string `envconfig:"RESEND_WEBHOOK_SECRET"`
	WebhookSecretResource string `envconfig:"RESEND_WEBHOOK_SECRET_RESOURCE"`

	// Discord delivery settings
	DiscordWebhookURL string `envconfig:"DISCORD_WEBHOOK_URL" required:"true" validate:"required,http_url"`
	DiscordTimeoutSec int    `envconfig:"DISCORD_TIMEOUT_SEC" default:"10" validate:"min=1,max=120"`

	MaxBodyBytes       int64    `envconfig:"MAX_BODY_BYTES" default:"1048576" validate:"min=1"`
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and that some source for the signing secret exists.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.WebhookSecret == "" && c.WebhookSecretResource == "" {
		return ErrNoWebhookSecret
	}
	return nil
}

func (c *Config) DiscordTimeout() time.Duration {
	return time.Duration(c.DiscordTimeoutSec) * time.Second
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
