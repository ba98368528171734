package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/buildpay/backend/internal/domain/billing"
	"github.com/buildpay/backend/internal/domain/shared/valueobject"
	"github.com/buildpay/backend/internal/infrastructure/config"
)

func TestVerifyHMACSignature(t *testing.T) {
	secret := "whsec_test"
	payload := []byte(`{"event_id":"evt_1"}`)

	t.Run("accepts a valid signature", func(t *testing.T) {
		assert.NoError(t, verifyHMACSignature(secret, payload, signPayload(secret, payload)))
	})

	t.Run("accepts the sha256= prefixed form", func(t *testing.T) {
		assert.NoError(t, verifyHMACSignature(secret, payload, "sha256="+signPayload(secret, payload)))
	})

	t.Run("rejects a tampered payload", func(t *testing.T) {
		sig := signPayload(secret, payload)
		err := verifyHMACSignature(secret, []byte(`{"event_id":"evt_2"}`), sig)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("rejects a wrong secret", func(t *testing.T) {
		sig := signPayload("whsec_other", payload)
		assert.ErrorIs(t, verifyHMACSignature(secret, payload, sig), ErrInvalidSignature)
	})

	t.Run("rejects an empty signature", func(t *testing.T) {
		assert.ErrorIs(t, verifyHMACSignature(secret, payload, ""), ErrMissingSignature)
	})
}

func TestCardpointAdapter_CreateCharge(t *testing.T) {
	invoiceID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/charges", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		assert.Equal(t, invoiceID.String(), r.Header.Get("Idempotency-Key"))

		var req cardpointChargeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "2500.00", req.Amount)
		assert.Equal(t, "USD", req.Currency)
		assert.Equal(t, invoiceID.String(), req.Reference)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"ch_123","status":"pending","payment_url":"https://pay.cardpoint.test/ch_123"}`)
	}))
	defer server.Close()

	adapter := NewCardpointAdapter(config.ProviderConfig{
		BaseURL: server.URL,
		APIKey:  "sk_test",
	}, zap.NewNop())

	resp, err := adapter.CreateCharge(context.Background(), billing.ChargeRequest{
		CompanyID: uuid.New(),
		InvoiceID: invoiceID,
		Amount:    valueobject.NewMoneyUSDFromFloat(2500),
		Method:    billing.PaymentMethodCreditCard,
	})

	require.NoError(t, err)
	assert.Equal(t, "ch_123", resp.TransactionID)
	assert.Equal(t, "https://pay.cardpoint.test/ch_123", resp.PaymentURL)
	assert.Equal(t, billing.PaymentStatusPending, resp.Status)
}

func TestCardpointAdapter_CreateCharge_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"error":{"code":"card_declined","message":"Card was declined"}}`)
	}))
	defer server.Close()

	adapter := NewCardpointAdapter(config.ProviderConfig{BaseURL: server.URL, APIKey: "sk_test"}, zap.NewNop())

	resp, err := adapter.CreateCharge(context.Background(), billing.ChargeRequest{
		InvoiceID: uuid.New(),
		Amount:    valueobject.NewMoneyUSDFromFloat(100),
	})

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Card was declined")
}

func TestCardpointAdapter_ParseCallback(t *testing.T) {
	adapter := NewCardpointAdapter(config.ProviderConfig{WebhookSecret: "whsec_cp"}, zap.NewNop())

	entityID := uuid.New()
	companyID := uuid.New()
	payload := []byte(fmt.Sprintf(`{
		"event_id": "evt_1001",
		"transaction_id": "ch_123",
		"entity_type": "invoice",
		"entity_id": %q,
		"company_id": %q,
		"amount": "1500.00",
		"currency": "USD",
		"status": "succeeded",
		"paid_at": "2026-08-20T14:30:00Z"
	}`, entityID, companyID))

	t.Run("round trip through verify and parse", func(t *testing.T) {
		require.NoError(t, adapter.VerifyCallback(payload, signPayload("whsec_cp", payload)))

		notification, err := adapter.ParseCallback(payload)
		require.NoError(t, err)
		assert.Equal(t, ProviderCardpoint, notification.Provider)
		assert.Equal(t, "evt_1001", notification.EventID)
		assert.Equal(t, "ch_123", notification.TransactionID)
		assert.Equal(t, billing.EntityTypeInvoice, notification.EntityType)
		assert.Equal(t, entityID, notification.EntityID)
		assert.Equal(t, companyID, notification.CompanyID)
		assert.Equal(t, "1500.00", notification.Amount.StringFixed(2))
		assert.Equal(t, billing.PaymentMethodCreditCard, notification.Method)
		assert.Equal(t, billing.PaymentStatusCompleted, notification.Status)
		assert.Equal(t, time.Date(2026, 8, 20, 14, 30, 0, 0, time.UTC), notification.PaidAt)
	})

	t.Run("rejects missing event id", func(t *testing.T) {
		_, err := adapter.ParseCallback([]byte(`{"transaction_id":"ch_1"}`))
		assert.Error(t, err)
	})

	t.Run("rejects unknown entity type", func(t *testing.T) {
		bad := []byte(fmt.Sprintf(`{"event_id":"evt_1","transaction_id":"ch_1","entity_type":"order","entity_id":%q,"company_id":%q,"amount":"10"}`,
			entityID, companyID))
		_, err := adapter.ParseCallback(bad)
		assert.Error(t, err)
	})
}

func TestCheckflowAdapter_ParseCallback(t *testing.T) {
	adapter := NewCheckflowAdapter(config.ProviderConfig{WebhookSecret: "whsec_cf"}, zap.NewNop())

	billID := uuid.New()
	companyID := uuid.New()
	payload := []byte(fmt.Sprintf(`{
		"notification_id": "ntf_42",
		"collection_id": "col_987",
		"target_type": "bill",
		"target_id": %q,
		"account_id": %q,
		"amount_cents": 325050,
		"currency": "USD",
		"channel": "check",
		"state": "settled",
		"settled_at": "2026-08-21T09:00:00Z"
	}`, billID, companyID))

	require.NoError(t, adapter.VerifyCallback(payload, signPayload("whsec_cf", payload)))

	notification, err := adapter.ParseCallback(payload)
	require.NoError(t, err)
	assert.Equal(t, ProviderCheckflow, notification.Provider)
	assert.Equal(t, "ntf_42", notification.EventID)
	assert.Equal(t, "col_987", notification.TransactionID)
	assert.Equal(t, billing.EntityTypeBill, notification.EntityType)
	assert.Equal(t, billID, notification.EntityID)
	assert.Equal(t, "3250.50", notification.Amount.StringFixed(2))
	assert.Equal(t, billing.PaymentMethodCheck, notification.Method)
	assert.Equal(t, billing.PaymentStatusCompleted, notification.Status)
}

func TestMapCheckflowState(t *testing.T) {
	cases := map[string]billing.PaymentStatus{
		"settled":    billing.PaymentStatusCompleted,
		"cleared":    billing.PaymentStatusCompleted,
		"in_transit": billing.PaymentStatusProcessing,
		"returned":   billing.PaymentStatusFailed,
		"voided":     billing.PaymentStatusCancelled,
		"initiated":  billing.PaymentStatusPending,
	}
	for state, expected := range cases {
		assert.Equal(t, expected, mapCheckflowState(state), "state %s", state)
	}
}

func TestRegistry(t *testing.T) {
	cfg := config.PaymentConfig{
		Cardpoint: config.ProviderConfig{Enabled: true, BaseURL: "https://api.cardpoint.test"},
		Checkflow: config.ProviderConfig{Enabled: true, BaseURL: "https://api.checkflow.test"},
	}
	registry := NewRegistry(cfg, zap.NewNop())

	t.Run("resolves gateways by name", func(t *testing.T) {
		gateway, ok := registry.Get(ProviderCardpoint)
		require.True(t, ok)
		assert.Equal(t, ProviderCardpoint, gateway.Name())

		_, ok = registry.Get("unknown")
		assert.False(t, ok)
	})

	t.Run("routes methods to providers", func(t *testing.T) {
		gateway, ok := registry.ForMethod(billing.PaymentMethodCreditCard)
		require.True(t, ok)
		assert.Equal(t, ProviderCardpoint, gateway.Name())

		gateway, ok = registry.ForMethod(billing.PaymentMethodACH)
		require.True(t, ok)
		assert.Equal(t, ProviderCheckflow, gateway.Name())

		gateway, ok = registry.ForMethod(billing.PaymentMethodCheck)
		require.True(t, ok)
		assert.Equal(t, ProviderCheckflow, gateway.Name())

		_, ok = registry.ForMethod(billing.PaymentMethodCash)
		assert.False(t, ok)
	})

	t.Run("skips disabled providers", func(t *testing.T) {
		partial := NewRegistry(config.PaymentConfig{
			Cardpoint: config.ProviderConfig{Enabled: true},
		}, zap.NewNop())

		_, ok := partial.Get(ProviderCheckflow)
		assert.False(t, ok)
		_, ok = partial.ForMethod(billing.PaymentMethodACH)
		assert.False(t, ok)
	})
}
