package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/buildpay/backend/internal/domain/billing"
	"github.com/buildpay/backend/internal/infrastructure/telemetry"
)

// PaymentRecorderService persists completed payments and re-derives the
// affected document's payment state. Both manual entry and confirmed
// gateway charges land here.
type PaymentRecorderService struct {
	paymentRepo billing.PaymentRepository
	aggregator  *PaymentAggregatorService
	logger      *zap.Logger
}

// NewPaymentRecorderService creates a new PaymentRecorderService
func NewPaymentRecorderService(
	paymentRepo billing.PaymentRepository,
	aggregator *PaymentAggregatorService,
	logger *zap.Logger,
) *PaymentRecorderService {
	return &PaymentRecorderService{
		paymentRepo: paymentRepo,
		aggregator:  aggregator,
		logger:      logger,
	}
}

// RecordPaymentRequest describes a payment to record
type RecordPaymentRequest struct {
	CompanyID   uuid.UUID
	EntityType  billing.EntityType
	EntityID    uuid.UUID
	Amount      string
	Method      billing.PaymentMethod
	PaymentDate time.Time
	// Gateway provenance for online payments
	Provider      string
	TransactionID string
	// Offline payor details for manual entry
	PayorName      string
	PayorCompany   string
	PaymentDetails string
	RecordedBy     *uuid.UUID
}

// RecordInvoicePaymentResult is the outcome of recording an invoice payment
type RecordInvoicePaymentResult struct {
	PaymentID uuid.UUID             `json:"payment_id"`
	Summary   *InvoiceSummaryResult `json:"summary"`
}

// RecordBillPaymentResult is the outcome of recording a bill payment
type RecordBillPaymentResult struct {
	PaymentID uuid.UUID          `json:"payment_id"`
	Summary   *BillSummaryResult `json:"summary"`
}

func (s *PaymentRecorderService) buildPayment(req RecordPaymentRequest) (*billing.Payment, error) {
	amount, err := parseMoney(req.Amount)
	if err != nil {
		return nil, err
	}

	payment, err := billing.NewCompletedPayment(
		req.CompanyID, req.EntityType, req.EntityID,
		amount, req.Method, req.PaymentDate,
	)
	if err != nil {
		return nil, err
	}

	if req.Provider != "" {
		payment.WithProvider(req.Provider, req.TransactionID)
	}
	if req.PayorName != "" || req.PayorCompany != "" || req.PaymentDetails != "" {
		payment.WithPayor(req.PayorName, req.PayorCompany, req.PaymentDetails)
	}
	if req.RecordedBy != nil {
		payment.WithRecordedBy(*req.RecordedBy)
	}
	return payment, nil
}

// RecordInvoicePayment inserts a completed payment against an invoice
// and re-runs the aggregator. An insert failure surfaces to the caller
// with no payment row written; there is no retry.
func (s *PaymentRecorderService) RecordInvoicePayment(
	ctx context.Context,
	req RecordPaymentRequest,
) (*RecordInvoicePaymentResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment_recorder", "record_invoice_payment")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrCompanyID, req.CompanyID.String(),
		telemetry.SpanAttrInvoiceID, req.EntityID.String(),
		telemetry.SpanAttrAmount, req.Amount,
		telemetry.SpanAttrMethod, string(req.Method),
	)

	req.EntityType = billing.EntityTypeInvoice
	payment, err := s.buildPayment(req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	s.logger.Info("Payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("invoice_id", req.EntityID.String()),
		zap.String("amount", payment.Amount.StringFixed(2)),
		zap.String("method", string(payment.Method)),
	)

	summary, err := s.aggregator.SummarizeInvoice(ctx, req.CompanyID, req.EntityID)
	if err != nil {
		// The payment row is durable; only the re-derivation failed.
		telemetry.RecordError(span, err)
		return &RecordInvoicePaymentResult{PaymentID: payment.ID, Summary: summary}, err
	}

	return &RecordInvoicePaymentResult{PaymentID: payment.ID, Summary: summary}, nil
}

// RecordBillPayment inserts a completed payment against a bill and
// re-runs the aggregator.
func (s *PaymentRecorderService) RecordBillPayment(
	ctx context.Context,
	req RecordPaymentRequest,
) (*RecordBillPaymentResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment_recorder", "record_bill_payment")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrCompanyID, req.CompanyID.String(),
		telemetry.SpanAttrBillID, req.EntityID.String(),
		telemetry.SpanAttrAmount, req.Amount,
	)

	req.EntityType = billing.EntityTypeBill
	payment, err := s.buildPayment(req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	s.logger.Info("Bill payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("bill_id", req.EntityID.String()),
		zap.String("amount", payment.Amount.StringFixed(2)),
	)

	summary, err := s.aggregator.SummarizeBill(ctx, req.CompanyID, req.EntityID)
	if err != nil {
		telemetry.RecordError(span, err)
		return &RecordBillPaymentResult{PaymentID: payment.ID, Summary: summary}, err
	}

	return &RecordBillPaymentResult{PaymentID: payment.ID, Summary: summary}, nil
}
