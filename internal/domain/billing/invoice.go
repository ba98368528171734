package billing

import (
	"time"

	"github.com/google/uuid"

	"github.com/buildpay/backend/internal/domain/shared"
	"github.com/buildpay/backend/internal/domain/shared/valueobject"
)

// InvoiceStatus represents the lifecycle state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "draft"
	InvoiceStatusSent          InvoiceStatus = "sent"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusOverdue       InvoiceStatus = "overdue"
)

// IsValid checks if the invoice status is valid
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPartiallyPaid,
		InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// Invoice is a receivable issued to a client, optionally tied to a
// project milestone. Payment state is derived from payment records,
// never stored on the invoice beyond the status column.
type Invoice struct {
	shared.CompanyAggregateRoot
	InvoiceNumber string `gorm:"not null;index"`
	ClientName    string `gorm:"not null"`
	ClientEmail   string
	Amount        valueobject.Money `gorm:"type:decimal(15,2);not null"`
	DueDate       time.Time         `gorm:"not null"`
	Status        InvoiceStatus     `gorm:"not null;default:'draft'"`
	ProjectID     *uuid.UUID        `gorm:"type:uuid;index"`
	MilestoneID   *uuid.UUID        `gorm:"type:uuid;index"`
	Notes         string
	SentAt        *time.Time
	PaidAt        *time.Time
}

// NewInvoice creates a new draft invoice
func NewInvoice(
	companyID uuid.UUID,
	invoiceNumber string,
	clientName string,
	clientEmail string,
	amount valueobject.Money,
	dueDate time.Time,
) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number is required")
	}
	if clientName == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT_NAME", "Client name is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invoice amount must be greater than zero")
	}
	if dueDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date is required")
	}

	inv := &Invoice{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		InvoiceNumber:        invoiceNumber,
		ClientName:           clientName,
		ClientEmail:          clientEmail,
		Amount:               amount,
		DueDate:              dueDate,
		Status:               InvoiceStatusDraft,
	}
	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))
	return inv, nil
}

// LinkMilestone ties the invoice to the project milestone it bills for
func (i *Invoice) LinkMilestone(projectID, milestoneID uuid.UUID) {
	i.ProjectID = &projectID
	i.MilestoneID = &milestoneID
}

// Send transitions a draft invoice to sent
func (i *Invoice) Send() error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Only draft invoices can be sent")
	}
	now := time.Now()
	i.Status = InvoiceStatusSent
	i.SentAt = &now
	i.IncrementVersion()
	i.AddDomainEvent(NewInvoiceSentEvent(i))
	return nil
}

// MarkOverdue flags an unpaid invoice past its due date
func (i *Invoice) MarkOverdue() error {
	if i.Status != InvoiceStatusSent && i.Status != InvoiceStatusPartiallyPaid {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Only sent or partially paid invoices can become overdue")
	}
	i.applyStatus(InvoiceStatusOverdue)
	return nil
}

// ApplyPaymentState updates the stored status from a freshly computed
// payment summary. Fully paid wins over everything; partial payment wins
// over any externally set status. With no completed payments, statuses
// that cannot be derived from payments (draft, overdue) are preserved
// and anything else falls back to sent. Reports whether the status
// changed; when it did not, the version is untouched and no write is
// needed.
func (i *Invoice) ApplyPaymentState(summary PaymentSummary) bool {
	var next InvoiceStatus
	switch {
	case summary.FullyPaid:
		next = InvoiceStatusPaid
	case summary.PartiallyPaid:
		next = InvoiceStatusPartiallyPaid
	case i.Status == InvoiceStatusDraft || i.Status == InvoiceStatusOverdue:
		next = i.Status
	default:
		next = InvoiceStatusSent
	}

	if next == i.Status {
		return false
	}
	i.applyStatus(next)

	if next == InvoiceStatusPaid && i.PaidAt == nil {
		now := time.Now()
		i.PaidAt = &now
	}
	return true
}

func (i *Invoice) applyStatus(next InvoiceStatus) {
	previous := i.Status
	i.Status = next
	i.IncrementVersion()
	i.AddDomainEvent(NewInvoiceStatusChangedEvent(i, previous, next))
}

// IsPaid returns true if the invoice has been fully paid
func (i *Invoice) IsPaid() bool {
	return i.Status == InvoiceStatusPaid
}
