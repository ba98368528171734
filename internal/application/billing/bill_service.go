package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/buildpay/backend/internal/domain/billing"
	"github.com/buildpay/backend/internal/infrastructure/telemetry"
)

// BillService handles bill lifecycle operations
type BillService struct {
	billRepo    billing.BillRepository
	paymentRepo billing.PaymentRepository
	logger      *zap.Logger
}

// NewBillService creates a new BillService
func NewBillService(
	billRepo billing.BillRepository,
	paymentRepo billing.PaymentRepository,
	logger *zap.Logger,
) *BillService {
	return &BillService{
		billRepo:    billRepo,
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

// CreateBill creates a new draft bill with an allocated number
func (s *BillService) CreateBill(ctx context.Context, req CreateBillRequest) (*BillResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "bill", "create")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrCompanyID, req.CompanyID.String())

	amount, err := parseMoney(req.Amount)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	number, err := s.billRepo.NextBillNumber(ctx, req.CompanyID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to allocate bill number: %w", err)
	}

	bill, err := billing.NewBill(req.CompanyID, number, req.VendorName, amount, req.DueDate)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	bill.Notes = req.Notes
	bill.ProjectID = req.ProjectID
	if req.CreatedBy != nil {
		bill.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.billRepo.Save(ctx, bill); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save bill: %w", err)
	}

	s.logger.Info("Bill created",
		zap.String("bill_id", bill.ID.String()),
		zap.String("bill_number", bill.BillNumber),
		zap.String("vendor", bill.VendorName),
	)

	return ToBillResponse(bill), nil
}

// GetBill returns a single bill
func (s *BillService) GetBill(ctx context.Context, companyID, billID uuid.UUID) (*BillResponse, error) {
	bill, err := s.billRepo.FindByID(ctx, companyID, billID)
	if err != nil {
		return nil, err
	}
	return ToBillResponse(bill), nil
}

// ListBillsResult carries a page of bills
type ListBillsResult struct {
	Bills []*BillResponse `json:"bills"`
	Total int64           `json:"total"`
}

// ListBills returns bills for a company, filtered and paginated
func (s *BillService) ListBills(ctx context.Context, companyID uuid.UUID, filter billing.BillFilter) (*ListBillsResult, error) {
	bills, total, err := s.billRepo.FindAll(ctx, companyID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}

	out := make([]*BillResponse, 0, len(bills))
	for _, b := range bills {
		out = append(out, ToBillResponse(b))
	}
	return &ListBillsResult{Bills: out, Total: total}, nil
}
