package billing

import (
	"time"

	"github.com/google/uuid"

	"github.com/buildpay/backend/internal/domain/shared"
	"github.com/buildpay/backend/internal/domain/shared/valueobject"
)

// PaymentStatus represents the lifecycle state of a payment
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusCancelled  PaymentStatus = "cancelled"
)

// IsValid checks if the payment status is valid
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusProcessing, PaymentStatusCompleted,
		PaymentStatusFailed, PaymentStatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true if the status is a final state
func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusCancelled:
		return true
	}
	return false
}

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodACH          PaymentMethod = "ach"
	PaymentMethodCheck        PaymentMethod = "check"
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodWireTransfer PaymentMethod = "wire_transfer"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCreditCard, PaymentMethodACH, PaymentMethodCheck,
		PaymentMethodCash, PaymentMethodWireTransfer, PaymentMethodBankTransfer:
		return true
	}
	return false
}

// EntityType identifies which kind of document a payment applies to
type EntityType string

const (
	EntityTypeInvoice EntityType = "invoice"
	EntityTypeBill    EntityType = "bill"
)

// IsValid checks if the entity type is valid
func (t EntityType) IsValid() bool {
	return t == EntityTypeInvoice || t == EntityTypeBill
}

// Payment records money received against an invoice or paid against a
// bill. Completed payments are immutable: corrections are modeled as
// new payments, never edits.
type Payment struct {
	shared.BaseEntity
	CompanyID             uuid.UUID         `gorm:"type:uuid;not null;index"`
	EntityType            EntityType        `gorm:"not null;index:idx_payments_entity"`
	EntityID              uuid.UUID         `gorm:"type:uuid;not null;index:idx_payments_entity"`
	Amount                valueobject.Money `gorm:"type:decimal(15,2);not null"`
	Method                PaymentMethod     `gorm:"not null"`
	Status                PaymentStatus     `gorm:"not null;default:'pending'"`
	PaymentDate           time.Time         `gorm:"not null;index"`
	Provider              string
	ProviderTransactionID string `gorm:"index"`
	PayorName             string
	PayorCompany          string
	PaymentDetails        string
	RecordedBy            *uuid.UUID `gorm:"type:uuid"`
}

// NewCompletedPayment creates a payment already in the completed state.
// Both manual offline entry and confirmed online charges use this path.
func NewCompletedPayment(
	companyID uuid.UUID,
	entityType EntityType,
	entityID uuid.UUID,
	amount valueobject.Money,
	method PaymentMethod,
	paymentDate time.Time,
) (*Payment, error) {
	if !entityType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTITY_TYPE", "Entity type must be invoice or bill")
	}
	if entityID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ENTITY_ID", "Entity ID is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be greater than zero")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unsupported payment method")
	}
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	return &Payment{
		BaseEntity:  shared.NewBaseEntity(),
		CompanyID:   companyID,
		EntityType:  entityType,
		EntityID:    entityID,
		Amount:      amount,
		Method:      method,
		Status:      PaymentStatusCompleted,
		PaymentDate: paymentDate,
	}, nil
}

// WithProvider attaches the gateway provenance of an online payment
func (p *Payment) WithProvider(provider, transactionID string) *Payment {
	p.Provider = provider
	p.ProviderTransactionID = transactionID
	return p
}

// WithPayor attaches offline payor details (check memo, cash receipt, etc.)
func (p *Payment) WithPayor(name, company, details string) *Payment {
	p.PayorName = name
	p.PayorCompany = company
	p.PaymentDetails = details
	return p
}

// WithRecordedBy attaches the user who entered the payment
func (p *Payment) WithRecordedBy(userID uuid.UUID) *Payment {
	p.RecordedBy = &userID
	return p
}

// IsCompleted returns true if the payment counts toward paid totals
func (p *Payment) IsCompleted() bool {
	return p.Status == PaymentStatusCompleted
}
