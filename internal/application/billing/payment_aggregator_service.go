package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/buildpay/backend/internal/domain/billing"
	"github.com/buildpay/backend/internal/infrastructure/telemetry"
)

// PaymentAggregatorService derives the payment state of invoices and
// bills from their payment records. The derived summary is the source
// of truth; the stored status column is a projection of it.
type PaymentAggregatorService struct {
	invoiceRepo billing.InvoiceRepository
	billRepo    billing.BillRepository
	paymentRepo billing.PaymentRepository
	logger      *zap.Logger
}

// NewPaymentAggregatorService creates a new PaymentAggregatorService
func NewPaymentAggregatorService(
	invoiceRepo billing.InvoiceRepository,
	billRepo billing.BillRepository,
	paymentRepo billing.PaymentRepository,
	logger *zap.Logger,
) *PaymentAggregatorService {
	return &PaymentAggregatorService{
		invoiceRepo: invoiceRepo,
		billRepo:    billRepo,
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

// InvoiceSummaryResult is the aggregator's answer for an invoice.
// StatusWarning is set when the summary itself was computed but the
// derived status could not be written back; the summary stays valid.
type InvoiceSummaryResult struct {
	InvoiceID     uuid.UUID              `json:"invoice_id"`
	InvoiceNumber string                 `json:"invoice_number"`
	Status        billing.InvoiceStatus  `json:"status"`
	Summary       billing.PaymentSummary `json:"summary"`
	StatusWarning string                 `json:"status_warning,omitempty"`
}

// BillSummaryResult is the aggregator's answer for a bill
type BillSummaryResult struct {
	BillID        uuid.UUID              `json:"bill_id"`
	BillNumber    string                 `json:"bill_number"`
	Status        billing.BillStatus     `json:"status"`
	Summary       billing.PaymentSummary `json:"summary"`
	StatusWarning string                 `json:"status_warning,omitempty"`
}

// SummarizeInvoice computes the payment summary for an invoice and,
// when the derived status differs from the stored one, writes it back
// to the invoice row.
//
// When the payment fetch fails the zero-payment fallback summary is
// returned alongside the error so callers always have a well-formed
// result to show. A status write failure is reported as a warning on
// the result, never as an error: the computed summary is not affected
// by it.
func (s *PaymentAggregatorService) SummarizeInvoice(
	ctx context.Context,
	companyID, invoiceID uuid.UUID,
) (*InvoiceSummaryResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment_aggregator", "summarize_invoice")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrCompanyID, companyID.String(),
		telemetry.SpanAttrInvoiceID, invoiceID.String(),
	)

	invoice, err := s.invoiceRepo.FindByID(ctx, companyID, invoiceID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	payments, err := s.paymentRepo.FindCompletedByEntity(ctx, companyID, billing.EntityTypeInvoice, invoiceID)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to fetch payments for invoice",
			zap.String("invoice_id", invoiceID.String()),
			zap.Error(err),
		)
		return &InvoiceSummaryResult{
			InvoiceID:     invoice.ID,
			InvoiceNumber: invoice.InvoiceNumber,
			Status:        invoice.Status,
			Summary:       billing.EmptySummary(invoice.Amount),
		}, fmt.Errorf("failed to fetch payments: %w", err)
	}

	summary := billing.ComputeSummary(invoice.Amount, payments)
	telemetry.SetAttributes(span,
		telemetry.SpanAttrAmount, summary.TotalPaid.StringFixed(2),
		"payment_count", len(summary.Payments),
	)

	result := &InvoiceSummaryResult{
		InvoiceID:     invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		Summary:       summary,
	}

	// Only write when the derived status actually moved; the common
	// steady-state read leaves the version untouched and a locked save
	// would spuriously conflict.
	if invoice.ApplyPaymentState(summary) {
		if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
			s.logger.Warn("Failed to persist derived invoice status",
				zap.String("invoice_id", invoiceID.String()),
				zap.String("derived_status", string(invoice.Status)),
				zap.Error(err),
			)
			result.StatusWarning = fmt.Sprintf("invoice status update failed: %v", err)
		}
	}
	result.Status = invoice.Status

	return result, nil
}

// SummarizeBill is the payable mirror of SummarizeInvoice
func (s *PaymentAggregatorService) SummarizeBill(
	ctx context.Context,
	companyID, billID uuid.UUID,
) (*BillSummaryResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment_aggregator", "summarize_bill")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrCompanyID, companyID.String(),
		telemetry.SpanAttrBillID, billID.String(),
	)

	bill, err := s.billRepo.FindByID(ctx, companyID, billID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	payments, err := s.paymentRepo.FindCompletedByEntity(ctx, companyID, billing.EntityTypeBill, billID)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to fetch payments for bill",
			zap.String("bill_id", billID.String()),
			zap.Error(err),
		)
		return &BillSummaryResult{
			BillID:     bill.ID,
			BillNumber: bill.BillNumber,
			Status:     bill.Status,
			Summary:    billing.EmptySummary(bill.Amount),
		}, fmt.Errorf("failed to fetch payments: %w", err)
	}

	summary := billing.ComputeSummary(bill.Amount, payments)

	result := &BillSummaryResult{
		BillID:     bill.ID,
		BillNumber: bill.BillNumber,
		Summary:    summary,
	}

	if bill.ApplyPaymentState(summary) {
		if err := s.billRepo.SaveWithLock(ctx, bill); err != nil {
			s.logger.Warn("Failed to persist derived bill status",
				zap.String("bill_id", billID.String()),
				zap.String("derived_status", string(bill.Status)),
				zap.Error(err),
			)
			result.StatusWarning = fmt.Sprintf("bill status update failed: %v", err)
		}
	}
	result.Status = bill.Status

	return result, nil
}
