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

// ProviderCheckflow is the registry name for the check and ACH provider
const ProviderCheckflow = "checkflow"

const checkflowRequestTimeout = 30 * time.Second

// CheckflowAdapter talks to the Checkflow ACH and check collection API.
// Checkflow settles asynchronously, so charges come back in transit and
// complete later via webhook.
type CheckflowAdapter struct {
	baseURL       string
	apiKey        string
	webhookSecret string
	client        *http.Client
	logger        *zap.Logger
}

// NewCheckflowAdapter creates a Checkflow gateway adapter
func NewCheckflowAdapter(cfg config.ProviderConfig, logger *zap.Logger) *CheckflowAdapter {
	return &CheckflowAdapter{
		baseURL:       cfg.BaseURL,
		apiKey:        cfg.APIKey,
		webhookSecret: cfg.WebhookSecret,
		client:        &http.Client{Timeout: checkflowRequestTimeout},
		logger:        logger.Named("checkflow"),
	}
}

// Name returns the provider identifier
func (a *CheckflowAdapter) Name() string {
	return ProviderCheckflow
}

type checkflowCollectionRequest struct {
	AmountCents int64             `json:"amount_cents"`
	Currency    string            `json:"currency"`
	Memo        string            `json:"memo,omitempty"`
	ExternalRef string            `json:"external_ref"`
	RedirectURL string            `json:"redirect_url,omitempty"`
	Channel     string            `json:"channel"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type checkflowCollectionResponse struct {
	CollectionID string `json:"collection_id"`
	State        string `json:"state"`
	HostedURL    string `json:"hosted_url"`
	Message      string `json:"message"`
}

// CreateCharge initiates an ACH or check collection
func (a *CheckflowAdapter) CreateCharge(ctx context.Context, req billing.ChargeRequest) (*billing.ChargeResponse, error) {
	cents := req.Amount.Amount().Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	body, err := json.Marshal(checkflowCollectionRequest{
		AmountCents: cents,
		Currency:    string(req.Amount.Currency()),
		Memo:        req.Description,
		ExternalRef: req.InvoiceID.String(),
		RedirectURL: req.ReturnURL,
		Channel:     checkflowChannel(req.Method),
		Metadata:    req.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode collection request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/collections", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build collection request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-Key", a.apiKey)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("checkflow collection request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkflow response: %w", err)
	}

	var collResp checkflowCollectionResponse
	if err := json.Unmarshal(raw, &collResp); err != nil {
		return nil, fmt.Errorf("failed to decode checkflow response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		a.logger.Warn("Checkflow collection rejected",
			zap.Int("status_code", resp.StatusCode),
			zap.String("message", collResp.Message),
		)
		return nil, fmt.Errorf("checkflow collection rejected (%d): %s", resp.StatusCode, collResp.Message)
	}

	return &billing.ChargeResponse{
		TransactionID: collResp.CollectionID,
		PaymentURL:    collResp.HostedURL,
		Status:        mapCheckflowState(collResp.State),
		RawResponse:   string(raw),
	}, nil
}

// VerifyCallback checks the webhook signature against the shared secret
func (a *CheckflowAdapter) VerifyCallback(payload []byte, signature string) error {
	return verifyHMACSignature(a.webhookSecret, payload, signature)
}

type checkflowWebhookPayload struct {
	NotificationID string `json:"notification_id"`
	CollectionID   string `json:"collection_id"`
	TargetType     string `json:"target_type"`
	TargetID       string `json:"target_id"`
	AccountID      string `json:"account_id"`
	AmountCents    int64  `json:"amount_cents"`
	Currency       string `json:"currency"`
	Channel        string `json:"channel"`
	State          string `json:"state"`
	SettledAt      string `json:"settled_at"`
}

// ParseCallback decodes a verified webhook payload into a domain notification
func (a *CheckflowAdapter) ParseCallback(payload []byte) (*billing.CallbackNotification, error) {
	var wh checkflowWebhookPayload
	if err := json.Unmarshal(payload, &wh); err != nil {
		return nil, fmt.Errorf("failed to decode checkflow webhook: %w", err)
	}
	if wh.NotificationID == "" || wh.CollectionID == "" {
		return nil, fmt.Errorf("checkflow webhook missing notification or collection id")
	}

	entityID, err := uuid.Parse(wh.TargetID)
	if err != nil {
		return nil, fmt.Errorf("checkflow webhook has invalid target id: %w", err)
	}
	companyID, err := uuid.Parse(wh.AccountID)
	if err != nil {
		return nil, fmt.Errorf("checkflow webhook has invalid account id: %w", err)
	}

	entityType := billing.EntityType(wh.TargetType)
	if !entityType.IsValid() {
		return nil, fmt.Errorf("checkflow webhook has invalid target type: %s", wh.TargetType)
	}

	currency := valueobject.Currency(wh.Currency)
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	amount, err := valueobject.NewMoney(decimal.New(wh.AmountCents, -2), currency)
	if err != nil {
		return nil, fmt.Errorf("checkflow webhook has invalid money value: %w", err)
	}

	settledAt := time.Now()
	if wh.SettledAt != "" {
		if parsed, err := time.Parse(time.RFC3339, wh.SettledAt); err == nil {
			settledAt = parsed
		}
	}

	return &billing.CallbackNotification{
		Provider:      ProviderCheckflow,
		EventID:       wh.NotificationID,
		TransactionID: wh.CollectionID,
		EntityType:    entityType,
		EntityID:      entityID,
		CompanyID:     companyID,
		Amount:        amount,
		Method:        checkflowMethod(wh.Channel),
		Status:        mapCheckflowState(wh.State),
		PaidAt:        settledAt,
	}, nil
}

func checkflowChannel(method billing.PaymentMethod) string {
	if method == billing.PaymentMethodCheck {
		return "check"
	}
	return "ach"
}

func checkflowMethod(channel string) billing.PaymentMethod {
	if channel == "check" {
		return billing.PaymentMethodCheck
	}
	return billing.PaymentMethodACH
}

func mapCheckflowState(state string) billing.PaymentStatus {
	switch state {
	case "settled", "cleared":
		return billing.PaymentStatusCompleted
	case "in_transit", "presented":
		return billing.PaymentStatusProcessing
	case "returned", "bounced":
		return billing.PaymentStatusFailed
	case "voided":
		return billing.PaymentStatusCancelled
	default:
		return billing.PaymentStatusPending
	}
}

// Ensure CheckflowAdapter implements PaymentGateway
var _ billing.PaymentGateway = (*CheckflowAdapter)(nil)
