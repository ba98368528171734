package billing

import (
	"github.com/buildpay/backend/internal/domain/shared"
)

// Event types for the billing context
const (
	EventTypeInvoiceCreated       = "billing.invoice.created"
	EventTypeInvoiceSent          = "billing.invoice.sent"
	EventTypeInvoiceStatusChanged = "billing.invoice.status_changed"
	EventTypePaymentRecorded      = "billing.payment.recorded"
)

// InvoiceCreatedEvent is emitted when a new invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
	ClientName    string `json:"client_name"`
	Amount        string `json:"amount"`
}

// NewInvoiceCreatedEvent creates an InvoiceCreatedEvent
func NewInvoiceCreatedEvent(invoice *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeInvoiceCreated, "Invoice", invoice.ID, invoice.CompanyID),
		InvoiceNumber: invoice.InvoiceNumber,
		ClientName:    invoice.ClientName,
		Amount:        invoice.Amount.StringFixed(2),
	}
}

// InvoiceSentEvent is emitted when an invoice is sent to the client
type InvoiceSentEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
	ClientEmail   string `json:"client_email"`
}

// NewInvoiceSentEvent creates an InvoiceSentEvent
func NewInvoiceSentEvent(invoice *Invoice) *InvoiceSentEvent {
	return &InvoiceSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeInvoiceSent, "Invoice", invoice.ID, invoice.CompanyID),
		InvoiceNumber: invoice.InvoiceNumber,
		ClientEmail:   invoice.ClientEmail,
	}
}

// InvoiceStatusChangedEvent is emitted whenever the invoice status moves
type InvoiceStatusChangedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber  string        `json:"invoice_number"`
	PreviousStatus InvoiceStatus `json:"previous_status"`
	NewStatus      InvoiceStatus `json:"new_status"`
}

// NewInvoiceStatusChangedEvent creates an InvoiceStatusChangedEvent
func NewInvoiceStatusChangedEvent(invoice *Invoice, previous, next InvoiceStatus) *InvoiceStatusChangedEvent {
	return &InvoiceStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeInvoiceStatusChanged, "Invoice", invoice.ID, invoice.CompanyID),
		InvoiceNumber:  invoice.InvoiceNumber,
		PreviousStatus: previous,
		NewStatus:      next,
	}
}

// PaymentRecordedEvent is emitted when a completed payment is persisted
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	EntityType EntityType    `json:"entity_type"`
	Amount     string        `json:"amount"`
	Method     PaymentMethod `json:"method"`
	Provider   string        `json:"provider,omitempty"`
}

// NewPaymentRecordedEvent creates a PaymentRecordedEvent
func NewPaymentRecordedEvent(payment *Payment) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypePaymentRecorded, "Payment", payment.EntityID, payment.CompanyID),
		EntityType: payment.EntityType,
		Amount:     payment.Amount.StringFixed(2),
		Method:     payment.Method,
		Provider:   payment.Provider,
	}
}
