package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	appbilling "github.com/buildpay/backend/internal/application/billing"
	"github.com/buildpay/backend/internal/domain/billing"
	"github.com/buildpay/backend/internal/interfaces/http/dto"
)

// BillHandler handles vendor bill endpoints
type BillHandler struct {
	BaseHandler
	billService     *appbilling.BillService
	recorderService *appbilling.PaymentRecorderService
	aggregator      *appbilling.PaymentAggregatorService
}

// NewBillHandler creates a bill handler
func NewBillHandler(
	billService *appbilling.BillService,
	recorderService *appbilling.PaymentRecorderService,
	aggregator *appbilling.PaymentAggregatorService,
) *BillHandler {
	return &BillHandler{
		billService:     billService,
		recorderService: recorderService,
		aggregator:      aggregator,
	}
}

// Create creates a bill owed to a vendor
// POST /api/v1/bills
func (h *BillHandler) Create(c *gin.Context) {
	companyID, ok := requireCompanyID(c)
	if !ok {
		return
	}

	var req dto.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	projectID, err := optionalUUID(req.ProjectID)
	if err != nil {
		h.BadRequest(c, errors.New("invalid project_id"))
		return
	}

	bill, err := h.billService.CreateBill(c.Request.Context(), appbilling.CreateBillRequest{
		CompanyID:  companyID,
		VendorName: req.VendorName,
		Amount:     req.Amount,
		DueDate:    req.DueDate,
		Notes:      req.Notes,
		ProjectID:  projectID,
		CreatedBy:  currentUserID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, bill)
}

// Get returns a single bill
// GET /api/v1/bills/:id
func (h *BillHandler) Get(c *gin.Context) {
	companyID, ok := requireCompanyID(c)
	if !ok {
		return
	}
	billID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	bill, err := h.billService.GetBill(c.Request.Context(), companyID, billID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bill)
}

// List returns bills for the company
// GET /api/v1/bills
func (h *BillHandler) List(c *gin.Context) {
	companyID, ok := requireCompanyID(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	req.Normalize()

	filter := billing.BillFilter{
		Limit:  req.Limit(),
		Offset: req.Offset(),
	}
	if req.Status != "" {
		status := billing.BillStatus(req.Status)
		if !status.IsValid() {
			h.BadRequest(c, errors.New("invalid status filter"))
			return
		}
		filter.Status = &status
	}

	result, err := h.billService.ListBills(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Bills, result.Total, req.Page, req.PageSize)
}

// PaymentSummary returns the aggregated payment position of a bill
// GET /api/v1/bills/:id/payment-summary
func (h *BillHandler) PaymentSummary(c *gin.Context) {
	companyID, ok := requireCompanyID(c)
	if !ok {
		return
	}
	billID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	summary, err := h.aggregator.SummarizeBill(c.Request.Context(), companyID, billID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// RecordPayment records an offline payment against a bill
// POST /api/v1/bills/:id/payments
func (h *BillHandler) RecordPayment(c *gin.Context) {
	companyID, ok := requireCompanyID(c)
	if !ok {
		return
	}
	billID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	result, err := h.recorderService.RecordBillPayment(c.Request.Context(), appbilling.RecordPaymentRequest{
		CompanyID:      companyID,
		EntityType:     billing.EntityTypeBill,
		EntityID:       billID,
		Amount:         req.Amount,
		Method:         billing.PaymentMethod(req.Method),
		PaymentDate:    req.PaymentDate,
		PayorName:      req.PayorName,
		PayorCompany:   req.PayorCompany,
		PaymentDetails: req.PaymentDetails,
		RecordedBy:     currentUserID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}
