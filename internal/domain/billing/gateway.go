package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/buildpay/backend/internal/domain/shared/valueobject"
)

// ChargeRequest asks a payment provider to collect money for an invoice
type ChargeRequest struct {
	CompanyID   uuid.UUID
	InvoiceID   uuid.UUID
	Amount      valueobject.Money
	Method      PaymentMethod
	Description string
	ReturnURL   string
	Metadata    map[string]string
}

// ChargeResponse is the provider's answer to a charge request
type ChargeResponse struct {
	TransactionID string
	PaymentURL    string
	Status        PaymentStatus
	RawResponse   string
}

// CallbackNotification is a provider webhook decoded into domain terms.
// EventID is the provider's own idempotency key for the notification.
type CallbackNotification struct {
	Provider      string
	EventID       string
	TransactionID string
	EntityType    EntityType
	EntityID      uuid.UUID
	CompanyID     uuid.UUID
	Amount        valueobject.Money
	Method        PaymentMethod
	Status        PaymentStatus
	PaidAt        time.Time
}

// PaymentGateway is the port every payment provider adapter implements.
// Adapters translate between provider wire formats and domain types;
// nothing above this interface knows provider specifics.
type PaymentGateway interface {
	// Name returns the provider identifier used in routing and records
	Name() string

	// CreateCharge initiates a payment collection with the provider
	CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeResponse, error)

	// VerifyCallback checks the webhook signature against the shared secret
	VerifyCallback(payload []byte, signature string) error

	// ParseCallback decodes a verified webhook payload
	ParseCallback(payload []byte) (*CallbackNotification, error)
}

// GatewayRegistry resolves payment gateways by provider name
type GatewayRegistry interface {
	Get(provider string) (PaymentGateway, bool)
	ForMethod(method PaymentMethod) (PaymentGateway, bool)
}
