package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/buildpay/backend/internal/domain/billing"
	"github.com/buildpay/backend/internal/domain/shared/valueobject"
	"github.com/buildpay/backend/internal/infrastructure/config"
)

// ProviderCardpoint is the registry name for the card processing provider
const ProviderCardpoint = "cardpoint"

const cardpointRequestTimeout = 30 * time.Second

// CardpointAdapter talks to the Cardpoint card processing API and decodes
// its webhook callbacks into domain notifications.
type CardpointAdapter struct {
	baseURL       string
	apiKey        string
	webhookSecret string
	client        *http.Client
	logger        *zap.Logger
}

// NewCardpointAdapter creates a Cardpoint gateway adapter
func NewCardpointAdapter(cfg config.ProviderConfig, logger *zap.Logger) *CardpointAdapter {
	return &CardpointAdapter{
		baseURL:       cfg.BaseURL,
		apiKey:        cfg.APIKey,
		webhookSecret: cfg.WebhookSecret,
		client:        &http.Client{Timeout: cardpointRequestTimeout},
		logger:        logger.Named("cardpoint"),
	}
}

// Name returns the provider identifier
func (a *CardpointAdapter) Name() string {
	return ProviderCardpoint
}

type cardpointChargeRequest struct {
	Amount      string            `json:"amount"`
	Currency    string            `json:"currency"`
	Description string            `json:"description,omitempty"`
	Reference   string            `json:"reference"`
	ReturnURL   string            `json:"return_url,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type cardpointChargeResponse struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	PaymentURL string `json:"payment_url"`
	Error      struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateCharge initiates a card payment collection
func (a *CardpointAdapter) CreateCharge(ctx context.Context, req billing.ChargeRequest) (*billing.ChargeResponse, error) {
	body, err := json.Marshal(cardpointChargeRequest{
		Amount:      req.Amount.StringFixed(2),
		Currency:    string(req.Amount.Currency()),
		Description: req.Description,
		Reference:   req.InvoiceID.String(),
		ReturnURL:   req.ReturnURL,
		Metadata:    req.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode charge request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/charges", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build charge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)
	httpReq.Header.Set("Idempotency-Key", req.InvoiceID.String())

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("cardpoint charge request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read cardpoint response: %w", err)
	}

	var chargeResp cardpointChargeResponse
	if err := json.Unmarshal(raw, &chargeResp); err != nil {
		return nil, fmt.Errorf("failed to decode cardpoint response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		a.logger.Warn("Cardpoint charge rejected",
			zap.Int("status_code", resp.StatusCode),
			zap.String("error_code", chargeResp.Error.Code),
		)
		return nil, fmt.Errorf("cardpoint charge rejected (%d): %s", resp.StatusCode, chargeResp.Error.Message)
	}

	return &billing.ChargeResponse{
		TransactionID: chargeResp.ID,
		PaymentURL:    chargeResp.PaymentURL,
		Status:        mapCardpointStatus(chargeResp.Status),
		RawResponse:   string(raw),
	}, nil
}

// VerifyCallback checks the webhook signature against the shared secret
func (a *CardpointAdapter) VerifyCallback(payload []byte, signature string) error {
	return verifyHMACSignature(a.webhookSecret, payload, signature)
}

type cardpointWebhookPayload struct {
	EventID       string `json:"event_id"`
	TransactionID string `json:"transaction_id"`
	EntityType    string `json:"entity_type"`
	EntityID      string `json:"entity_id"`
	CompanyID     string `json:"company_id"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Status        string `json:"status"`
	PaidAt        string `json:"paid_at"`
}

// ParseCallback decodes a verified webhook payload into a domain notification
func (a *CardpointAdapter) ParseCallback(payload []byte) (*billing.CallbackNotification, error) {
	var wh cardpointWebhookPayload
	if err := json.Unmarshal(payload, &wh); err != nil {
		return nil, fmt.Errorf("failed to decode cardpoint webhook: %w", err)
	}
	if wh.EventID == "" || wh.TransactionID == "" {
		return nil, fmt.Errorf("cardpoint webhook missing event or transaction id")
	}

	entityID, err := uuid.Parse(wh.EntityID)
	if err != nil {
		return nil, fmt.Errorf("cardpoint webhook has invalid entity id: %w", err)
	}
	companyID, err := uuid.Parse(wh.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("cardpoint webhook has invalid company id: %w", err)
	}

	entityType := billing.EntityType(wh.EntityType)
	if !entityType.IsValid() {
		return nil, fmt.Errorf("cardpoint webhook has invalid entity type: %s", wh.EntityType)
	}

	amountDec, err := decimal.NewFromString(wh.Amount)
	if err != nil {
		return nil, fmt.Errorf("cardpoint webhook has invalid amount: %w", err)
	}
	currency := valueobject.Currency(wh.Currency)
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	amount, err := valueobject.NewMoney(amountDec, currency)
	if err != nil {
		return nil, fmt.Errorf("cardpoint webhook has invalid money value: %w", err)
	}

	paidAt := time.Now()
	if wh.PaidAt != "" {
		if parsed, err := time.Parse(time.RFC3339, wh.PaidAt); err == nil {
			paidAt = parsed
		}
	}

	return &billing.CallbackNotification{
		Provider:      ProviderCardpoint,
		EventID:       wh.EventID,
		TransactionID: wh.TransactionID,
		EntityType:    entityType,
		EntityID:      entityID,
		CompanyID:     companyID,
		Amount:        amount,
		Method:        billing.PaymentMethodCreditCard,
		Status:        mapCardpointStatus(wh.Status),
		PaidAt:        paidAt,
	}, nil
}

func mapCardpointStatus(status string) billing.PaymentStatus {
	switch status {
	case "succeeded", "captured":
		return billing.PaymentStatusCompleted
	case "processing", "authorized":
		return billing.PaymentStatusProcessing
	case "failed", "declined":
		return billing.PaymentStatusFailed
	case "canceled", "voided":
		return billing.PaymentStatusCancelled
	default:
		return billing.PaymentStatusPending
	}
}

// Ensure CardpointAdapter implements PaymentGateway
var _ billing.PaymentGateway = (*CardpointAdapter)(nil)
