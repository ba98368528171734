package billing

import (
	"context"
	"time"

	domainbilling "github.com/buildpay/backend/internal/domain/billing"
)

// IdempotencyStore remembers processed webhook event IDs so provider
// redeliveries do not double-record payments.
type IdempotencyStore interface {
	// MarkProcessed records the key if unseen, returning false when the
	// key was already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release forgets a claimed key so the provider's retry of a failed
	// delivery is not rejected as a duplicate.
	Release(ctx context.Context, key string) error
}

// PDFRenderer renders an invoice into a PDF document
type PDFRenderer interface {
	RenderInvoicePDF(ctx context.Context, invoice *domainbilling.Invoice, summary domainbilling.PaymentSummary) ([]byte, error)
}

// DocumentStorage persists rendered documents and returns a retrievable key
type DocumentStorage interface {
	Put(ctx context.Context, key string, contentType string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// EmailSender delivers transactional email
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
