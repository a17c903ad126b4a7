package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	paymentapp "github.com/storefront/backend/internal/application/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/form"
	"github.com/stripe/stripe-go/v81/webhook"
)

// mockBackend implements stripe.Backend for testing
type mockBackend struct {
	handler func(method, path string, params stripe.ParamsContainer) ([]byte, error)
}

func (m *mockBackend) Call(method, path, key string, params stripe.ParamsContainer, v stripe.LastResponseSetter) error {
	data, err := m.handler(method, path, params)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (m *mockBackend) CallStreaming(method, path, key string, params stripe.ParamsContainer, v stripe.StreamingLastResponseSetter) error {
	return nil
}

func (m *mockBackend) CallRaw(method, path, key string, body *form.Values, params *stripe.Params, v stripe.LastResponseSetter) error {
	return nil
}

func (m *mockBackend) CallMultipart(method, path, key, boundary string, body *bytes.Buffer, params *stripe.Params, v stripe.LastResponseSetter) error {
	return nil
}

func (m *mockBackend) SetMaxNetworkRetries(maxNetworkRetries int64) {}

func setupMockBackend(t *testing.T, handler func(method, path string, params stripe.ParamsContainer) ([]byte, error)) {
	stripe.SetBackend(stripe.APIBackend, &mockBackend{handler: handler})
	t.Cleanup(func() { stripe.SetBackend(stripe.APIBackend, nil) })
}

func testConfig() *StripeConfig {
	return &StripeConfig{
		SecretKey:      "sk_test_123456789",
		PublishableKey: "pk_test_123456789",
		WebhookSecret:  "whsec_test_123456789",
		IsTestMode:     true,
	}
}

func newTestGateway(t *testing.T) *StripeGateway {
	t.Helper()
	g, err := NewStripeGateway(testConfig(), nil)
	require.NoError(t, err)
	return g
}

func TestNewStripeGateway_InvalidConfig(t *testing.T) {
	tests := []struct {
		name        string
		config      *StripeConfig
		expectedErr string
	}{
		{"missing secret key", &StripeConfig{WebhookSecret: "whsec", IsTestMode: true}, "secret key is required"},
		{"missing webhook secret", &StripeConfig{SecretKey: "sk_test_1", IsTestMode: true}, "webhook secret is required"},
		{"test mode with live key", &StripeConfig{SecretKey: "sk_live_1", WebhookSecret: "whsec", IsTestMode: true}, "not a test key"},
		{"live mode with test key", &StripeConfig{SecretKey: "sk_test_1", WebhookSecret: "whsec"}, "not a live key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewStripeGateway(tt.config, nil)
			require.Error(t, err)
			assert.Nil(t, g)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestStripeGateway_CreateIntent(t *testing.T) {
	g := newTestGateway(t)
	paymentID := uuid.New()

	var got *stripe.PaymentIntentParams
	setupMockBackend(t, func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
		if method == "POST" && path == "/v1/payment_intents" {
			got = params.(*stripe.PaymentIntentParams)
			return json.Marshal(&stripe.PaymentIntent{ID: "pi_123", ClientSecret: "pi_123_secret_abc"})
		}
		return nil, fmt.Errorf("unexpected request: %s %s", method, path)
	})

	intent, err := g.CreateIntent(context.Background(), paymentapp.IntentRequest{
		PaymentID:   paymentID,
		OrderNumber: "SO-000042",
		Amount:      decimal.RequireFromString("99.90"),
		Currency:    "USD",
	})
	require.NoError(t, err)

	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, "pi_123_secret_abc", intent.ClientSecret)
	assert.Equal(t, "pk_test_123456789", intent.PublishableKey)
	require.NotNil(t, got)
	assert.Equal(t, int64(9990), *got.Amount)
	assert.Equal(t, "usd", *got.Currency)
	assert.Equal(t, paymentID.String(), got.Metadata["payment_id"])
	assert.Equal(t, "intent-"+paymentID.String(), *got.IdempotencyKey)
}

func TestStripeGateway_CreateIntent_Error(t *testing.T) {
	g := newTestGateway(t)
	setupMockBackend(t, func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
		return nil, &stripe.Error{Code: stripe.ErrorCodeAmountTooSmall, Msg: "Amount must be at least 50 cents"}
	})

	_, err := g.CreateIntent(context.Background(), paymentapp.IntentRequest{
		PaymentID: uuid.New(), Amount: decimal.RequireFromString("0.10"), Currency: "usd",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create payment intent")
}

func TestStripeGateway_Refund(t *testing.T) {
	g := newTestGateway(t)
	var got *stripe.RefundParams
	setupMockBackend(t, func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
		if method == "POST" && path == "/v1/refunds" {
			got = params.(*stripe.RefundParams)
			return json.Marshal(&stripe.Refund{ID: "re_1", Status: stripe.RefundStatusSucceeded})
		}
		return nil, fmt.Errorf("unexpected request: %s %s", method, path)
	})

	err := g.Refund(context.Background(), paymentapp.RefundRequest{
		PaymentID:   uuid.New(),
		ProviderRef: "pi_123",
		Amount:      decimal.NewFromInt(1500),
		Currency:    "JPY",
	})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "pi_123", *got.PaymentIntent)
	assert.Equal(t, int64(1500), *got.Amount, "zero-decimal currencies are not shifted")
}

func signedEvent(t *testing.T, secret, eventType string, object map[string]any) ([]byte, string) {
	t.Helper()
	raw, err := json.Marshal(object)
	require.NoError(t, err)
	payload, err := json.Marshal(map[string]any{
		"id":          "evt_1",
		"object":      "event",
		"type":        eventType,
		"api_version": stripe.APIVersion,
		"data":        map[string]json.RawMessage{"object": raw},
	})
	require.NoError(t, err)
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
	})
	return signed.Payload, signed.Header
}

func TestStripeGateway_ParseEvent(t *testing.T) {
	g := newTestGateway(t)
	secret := testConfig().WebhookSecret
	paymentID := uuid.New()

	t.Run("succeeded", func(t *testing.T) {
		payload, sig := signedEvent(t, secret, "payment_intent.succeeded", map[string]any{
			"id": "pi_1", "object": "payment_intent",
			"metadata": map[string]string{"payment_id": paymentID.String()},
		})
		ev, err := g.ParseEvent(payload, sig)
		require.NoError(t, err)
		require.NotNil(t, ev)
		assert.Equal(t, paymentapp.EventSucceeded, ev.Type)
		assert.Equal(t, paymentID, ev.PaymentID)
		assert.Equal(t, "pi_1", ev.ProviderRef)
		assert.Equal(t, "evt_1", ev.ID)
	})

	t.Run("failed carries the decline message", func(t *testing.T) {
		payload, sig := signedEvent(t, secret, "payment_intent.payment_failed", map[string]any{
			"id": "pi_2", "object": "payment_intent",
			"metadata":           map[string]string{"payment_id": paymentID.String()},
			"last_payment_error": map[string]string{"code": "card_declined", "message": "Your card was declined."},
		})
		ev, err := g.ParseEvent(payload, sig)
		require.NoError(t, err)
		require.NotNil(t, ev)
		assert.Equal(t, paymentapp.EventFailed, ev.Type)
		assert.Equal(t, "Your card was declined.", ev.FailureReason)
	})

	t.Run("unrelated event type", func(t *testing.T) {
		payload, sig := signedEvent(t, secret, "customer.created", map[string]any{"id": "cus_1", "object": "customer"})
		ev, err := g.ParseEvent(payload, sig)
		require.NoError(t, err)
		assert.Nil(t, ev)
	})

	t.Run("intent without payment id", func(t *testing.T) {
		payload, sig := signedEvent(t, secret, "payment_intent.succeeded", map[string]any{"id": "pi_3", "object": "payment_intent"})
		ev, err := g.ParseEvent(payload, sig)
		require.NoError(t, err)
		assert.Nil(t, ev)
	})

	t.Run("wrong secret", func(t *testing.T) {
		payload, sig := signedEvent(t, "whsec_other", "payment_intent.succeeded", map[string]any{"id": "pi_1"})
		_, err := g.ParseEvent(payload, sig)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "signature verification failed")
	})
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(1999), minorUnits(decimal.RequireFromString("19.99"), "eur"))
	assert.Equal(t, int64(47050), minorUnits(decimal.RequireFromString("470.5"), "kzt"))
	assert.Equal(t, int64(1000), minorUnits(decimal.RequireFromString("999.6"), "krw"))
}
