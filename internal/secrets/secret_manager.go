package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resendrelay/internal/config"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
)

var ErrEmptySecret = errors.New("resolved webhook secret is empty")

type SecretManagerService interface {
	GetSecret(ctx context.Context, resourceName string) (string, error)
	Close() error
}

// versionAccessor is the subset of the Secret Manager client used here.
type versionAccessor interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
	Close() error
}

type secretManagerService struct {
	client versionAccessor
}

func NewSecretManagerService(ctx context.Context) (SecretManagerService, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Secret Manager client: %w", err)
	}
	return &secretManagerService{client: client}, nil
}

// GetSecret reads a secret version. resourceName is a full version name such
// as projects/<project>/secrets/<name>/versions/latest.
func (s *secretManagerService) GetSecret(ctx context.Context, resourceName string) (string, error) {
	req := &secretmanagerpb.AccessSecretVersionRequest{
		Name: resourceName,
	}

	result, err := s.client.AccessSecretVersion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to access secret version: %w", err)
	}
	if result.GetPayload() == nil {
		return "", fmt.Errorf("secret version %s has no payload", resourceName)
	}

	return string(result.GetPayload().GetData()), nil
}

func (s *secretManagerService) Close() error {
	return s.client.Close()
}

// ResolveWebhookSecret returns the Resend signing secret. An inline
// RESEND_WEBHOOK_SECRET wins; otherwise the configured Secret Manager
// version is read through a service obtained from newService.
func ResolveWebhookSecret(ctx context.Context, cfg *config.Config, newService func(context.Context) (SecretManagerService, error)) ([]byte, error) {
	if cfg.WebhookSecret != "" {
		return []byte(cfg.WebhookSecret), nil
	}
	if cfg.WebhookSecretResource == "" {
		return nil, config.ErrNoWebhookSecret
	}

	svc, err := newService(ctx)
	if err != nil {
		return nil, err
	}
	defer svc.Close()

	secret, err := svc.GetSecret(ctx, cfg.WebhookSecretResource)
	if err != nil {
		return nil, err
	}
	// Secrets uploaded from files commonly end in a newline.
	secret = strings.TrimRight(secret, "\r\n")
	if secret == "" {
		return nil, ErrEmptySecret
	}

	return []byte(secret), nil
}
