package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// InvoiceFilter narrows invoice list queries
type InvoiceFilter struct {
	Status    *InvoiceStatus
	ProjectID *uuid.UUID
	DueBefore *time.Time
	Limit     int
	Offset    int
}

// InvoiceRepository is the persistence port for invoices
type InvoiceRepository interface {
	Save(ctx context.Context, invoice *Invoice) error
	// SaveWithLock persists the invoice only if its version still matches
	// the version it was loaded at, returning ErrConcurrencyConflict when
	// another writer got there first.
	SaveWithLock(ctx context.Context, invoice *Invoice) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Invoice, error)
	FindByNumber(ctx context.Context, companyID uuid.UUID, invoiceNumber string) (*Invoice, error)
	FindAll(ctx context.Context, companyID uuid.UUID, filter InvoiceFilter) ([]*Invoice, int64, error)
	// NextInvoiceNumber allocates the next sequential invoice number for
	// the company, formatted INV-YYYYMMDD-XXXXX.
	NextInvoiceNumber(ctx context.Context, companyID uuid.UUID) (string, error)
}

// BillFilter narrows bill list queries
type BillFilter struct {
	Status    *BillStatus
	ProjectID *uuid.UUID
	DueBefore *time.Time
	Limit     int
	Offset    int
}

// BillRepository is the persistence port for bills
type BillRepository interface {
	Save(ctx context.Context, bill *Bill) error
	SaveWithLock(ctx context.Context, bill *Bill) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Bill, error)
	FindAll(ctx context.Context, companyID uuid.UUID, filter BillFilter) ([]*Bill, int64, error)
	NextBillNumber(ctx context.Context, companyID uuid.UUID) (string, error)
}

// PaymentRepository is the persistence port for payment records
type PaymentRepository interface {
	Save(ctx context.Context, payment *Payment) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Payment, error)
	// FindCompletedByEntity returns the completed payments applied to an
	// invoice or bill, ordered by payment date descending with insertion
	// order as the stable tie-break.
	FindCompletedByEntity(ctx context.Context, companyID uuid.UUID, entityType EntityType, entityID uuid.UUID) ([]*Payment, error)
	FindByEntity(ctx context.Context, companyID uuid.UUID, entityType EntityType, entityID uuid.UUID) ([]*Payment, error)
	// FindByProviderTransaction looks up a payment by gateway provenance,
	// used to keep webhook redelivery from double-recording.
	FindByProviderTransaction(ctx context.Context, provider, transactionID string) (*Payment, error)
}
