package billing

import (
	"time"

	"github.com/google/uuid"

	"github.com/buildpay/backend/internal/domain/shared"
	"github.com/buildpay/backend/internal/domain/shared/valueobject"
)

// BillStatus represents the lifecycle state of a bill
type BillStatus string

const (
	BillStatusDraft         BillStatus = "draft"
	BillStatusReceived      BillStatus = "received"
	BillStatusPartiallyPaid BillStatus = "partially_paid"
	BillStatusPaid          BillStatus = "paid"
	BillStatusOverdue       BillStatus = "overdue"
)

// IsValid checks if the bill status is valid
func (s BillStatus) IsValid() bool {
	switch s {
	case BillStatusDraft, BillStatusReceived, BillStatusPartiallyPaid,
		BillStatusPaid, BillStatusOverdue:
		return true
	}
	return false
}

// Bill is the payable mirror of Invoice: money the company owes a
// vendor, reconciled against outgoing payment records the same way
// invoices reconcile against incoming ones.
type Bill struct {
	shared.CompanyAggregateRoot
	BillNumber string            `gorm:"not null;index"`
	VendorName string            `gorm:"not null"`
	Amount     valueobject.Money `gorm:"type:decimal(15,2);not null"`
	DueDate    time.Time         `gorm:"not null"`
	Status     BillStatus        `gorm:"not null;default:'draft'"`
	ProjectID  *uuid.UUID        `gorm:"type:uuid;index"`
	Notes      string
	PaidAt     *time.Time
}

// NewBill creates a new draft bill
func NewBill(
	companyID uuid.UUID,
	billNumber string,
	vendorName string,
	amount valueobject.Money,
	dueDate time.Time,
) (*Bill, error) {
	if billNumber == "" {
		return nil, shared.NewDomainError("INVALID_BILL_NUMBER", "Bill number is required")
	}
	if vendorName == "" {
		return nil, shared.NewDomainError("INVALID_VENDOR_NAME", "Vendor name is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Bill amount must be greater than zero")
	}
	if dueDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date is required")
	}

	return &Bill{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		BillNumber:           billNumber,
		VendorName:           vendorName,
		Amount:               amount,
		DueDate:              dueDate,
		Status:               BillStatusDraft,
	}, nil
}

// MarkReceived transitions a draft bill to received
func (b *Bill) MarkReceived() error {
	if b.Status != BillStatusDraft {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Only draft bills can be marked received")
	}
	b.Status = BillStatusReceived
	b.IncrementVersion()
	return nil
}

// MarkOverdue flags an unpaid bill past its due date
func (b *Bill) MarkOverdue() error {
	if b.Status != BillStatusReceived && b.Status != BillStatusPartiallyPaid {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Only received or partially paid bills can become overdue")
	}
	b.Status = BillStatusOverdue
	b.IncrementVersion()
	return nil
}

// ApplyPaymentState updates the stored status from a freshly computed
// payment summary, mirroring the invoice rules: draft and overdue are
// preserved when no completed payments exist, otherwise received.
// Reports whether the status changed.
func (b *Bill) ApplyPaymentState(summary PaymentSummary) bool {
	var next BillStatus
	switch {
	case summary.FullyPaid:
		next = BillStatusPaid
	case summary.PartiallyPaid:
		next = BillStatusPartiallyPaid
	case b.Status == BillStatusDraft || b.Status == BillStatusOverdue:
		next = b.Status
	default:
		next = BillStatusReceived
	}

	if next == b.Status {
		return false
	}
	b.Status = next
	b.IncrementVersion()

	if next == BillStatusPaid && b.PaidAt == nil {
		now := time.Now()
		b.PaidAt = &now
	}
	return true
}

// IsPaid returns true if the bill has been fully paid
func (b *Bill) IsPaid() bool {
	return b.Status == BillStatusPaid
}
