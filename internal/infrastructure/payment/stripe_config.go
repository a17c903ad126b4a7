package payment

import (
	"fmt"
	"strings"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stripe/stripe-go/v81"
)

// StripeConfig holds configuration for the Stripe card gateway
type StripeConfig struct {
	// SecretKey is the Stripe secret API key (sk_test_xxx or sk_live_xxx)
	SecretKey string
	// PublishableKey is handed to clients to confirm payments
	PublishableKey string
	// WebhookSecret verifies webhook signatures
	WebhookSecret string
	IsTestMode    bool
}

// StripeConfigFrom maps the payments config section
func StripeConfigFrom(cfg config.PaymentsConfig) *StripeConfig {
	return &StripeConfig{
		SecretKey:      cfg.StripeSecretKey,
		PublishableKey: cfg.StripePublishableKey,
		WebhookSecret:  cfg.StripeWebhookSecret,
		IsTestMode:     cfg.StripeTestMode,
	}
}

// Validate validates the Stripe configuration
func (c *StripeConfig) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("stripe: secret key is required")
	}
	if c.WebhookSecret == "" {
		return fmt.Errorf("stripe: webhook secret is required")
	}
	if c.IsTestMode && !strings.HasPrefix(c.SecretKey, "sk_test") {
		return fmt.Errorf("stripe: test mode enabled but secret key is not a test key")
	}
	if !c.IsTestMode && !strings.HasPrefix(c.SecretKey, "sk_live") {
		return fmt.Errorf("stripe: live mode enabled but secret key is not a live key")
	}
	return nil
}

// InitStripeClient sets the API key used by the stripe-go resource packages
func (c *StripeConfig) InitStripeClient() {
	stripe.Key = c.SecretKey
}
