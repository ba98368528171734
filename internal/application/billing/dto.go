package billing

import (
	"time"

	"github.com/google/uuid"

	"github.com/buildpay/backend/internal/domain/billing"
	"github.com/buildpay/backend/internal/domain/shared"
	"github.com/buildpay/backend/internal/domain/shared/valueobject"
)

func parseMoney(amount string) (valueobject.Money, error) {
	m, err := valueobject.NewMoneyUSDFromString(amount)
	if err != nil {
		return valueobject.Money{}, shared.NewDomainError("INVALID_AMOUNT", "Amount must be a valid decimal number")
	}
	return m, nil
}

// CreateInvoiceRequest describes a new invoice
type CreateInvoiceRequest struct {
	CompanyID   uuid.UUID
	ClientName  string
	ClientEmail string
	Amount      string
	DueDate     time.Time
	Notes       string
	ProjectID   *uuid.UUID
	MilestoneID *uuid.UUID
	CreatedBy   *uuid.UUID
}

// InvoiceResponse is the outward representation of an invoice
type InvoiceResponse struct {
	ID            uuid.UUID             `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	ClientName    string                `json:"client_name"`
	ClientEmail   string                `json:"client_email,omitempty"`
	Amount        string                `json:"amount"`
	DueDate       time.Time             `json:"due_date"`
	Status        billing.InvoiceStatus `json:"status"`
	ProjectID     *uuid.UUID            `json:"project_id,omitempty"`
	MilestoneID   *uuid.UUID            `json:"milestone_id,omitempty"`
	Notes         string                `json:"notes,omitempty"`
	SentAt        *time.Time            `json:"sent_at,omitempty"`
	PaidAt        *time.Time            `json:"paid_at,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
}

// ToInvoiceResponse maps an invoice aggregate to its response DTO
func ToInvoiceResponse(inv *billing.Invoice) *InvoiceResponse {
	return &InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		ClientName:    inv.ClientName,
		ClientEmail:   inv.ClientEmail,
		Amount:        inv.Amount.StringFixed(2),
		DueDate:       inv.DueDate,
		Status:        inv.Status,
		ProjectID:     inv.ProjectID,
		MilestoneID:   inv.MilestoneID,
		Notes:         inv.Notes,
		SentAt:        inv.SentAt,
		PaidAt:        inv.PaidAt,
		CreatedAt:     inv.CreatedAt,
	}
}

// CreateBillRequest describes a new bill
type CreateBillRequest struct {
	CompanyID  uuid.UUID
	VendorName string
	Amount     string
	DueDate    time.Time
	Notes      string
	ProjectID  *uuid.UUID
	CreatedBy  *uuid.UUID
}

// BillResponse is the outward representation of a bill
type BillResponse struct {
	ID         uuid.UUID          `json:"id"`
	BillNumber string             `json:"bill_number"`
	VendorName string             `json:"vendor_name"`
	Amount     string             `json:"amount"`
	DueDate    time.Time          `json:"due_date"`
	Status     billing.BillStatus `json:"status"`
	ProjectID  *uuid.UUID         `json:"project_id,omitempty"`
	Notes      string             `json:"notes,omitempty"`
	PaidAt     *time.Time         `json:"paid_at,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
}

// ToBillResponse maps a bill aggregate to its response DTO
func ToBillResponse(b *billing.Bill) *BillResponse {
	return &BillResponse{
		ID:         b.ID,
		BillNumber: b.BillNumber,
		VendorName: b.VendorName,
		Amount:     b.Amount.StringFixed(2),
		DueDate:    b.DueDate,
		Status:     b.Status,
		ProjectID:  b.ProjectID,
		Notes:      b.Notes,
		PaidAt:     b.PaidAt,
		CreatedAt:  b.CreatedAt,
	}
}

// PaymentResponse is the outward representation of a payment record
type PaymentResponse struct {
	ID                    uuid.UUID             `json:"id"`
	EntityType            billing.EntityType    `json:"entity_type"`
	EntityID              uuid.UUID             `json:"entity_id"`
	Amount                string                `json:"amount"`
	Method                billing.PaymentMethod `json:"method"`
	Status                billing.PaymentStatus `json:"status"`
	PaymentDate           time.Time             `json:"payment_date"`
	Provider              string                `json:"provider,omitempty"`
	ProviderTransactionID string                `json:"provider_transaction_id,omitempty"`
	PayorName             string                `json:"payor_name,omitempty"`
	PayorCompany          string                `json:"payor_company,omitempty"`
	PaymentDetails        string                `json:"payment_details,omitempty"`
}

// ToPaymentResponse maps a payment entity to its response DTO
func ToPaymentResponse(p *billing.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:                    p.ID,
		EntityType:            p.EntityType,
		EntityID:              p.EntityID,
		Amount:                p.Amount.StringFixed(2),
		Method:                p.Method,
		Status:                p.Status,
		PaymentDate:           p.PaymentDate,
		Provider:              p.Provider,
		ProviderTransactionID: p.ProviderTransactionID,
		PayorName:             p.PayorName,
		PayorCompany:          p.PayorCompany,
		PaymentDetails:        p.PaymentDetails,
	}
}
