package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	appbilling "github.com/buildpay/backend/internal/application/billing"
	"github.com/buildpay/backend/internal/domain/billing"
	"github.com/buildpay/backend/internal/interfaces/http/dto"
)

// InvoiceHandler handles invoice endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService  *appbilling.InvoiceService
	recorderService *appbilling.PaymentRecorderService
	aggregator      *appbilling.PaymentAggregatorService
}

// NewInvoiceHandler creates an invoice handler
func NewInvoiceHandler(
	invoiceService *appbilling.InvoiceService,
	recorderService *appbilling.PaymentRecorderService,
	aggregator *appbilling.PaymentAggregatorService,
) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService:  invoiceService,
		recorderService: recorderService,
		aggregator:      aggregator,
	}
}

// Create creates a draft invoice
// POST /api/v1/invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	companyID, ok := requireCompanyID(c)
	if !ok {
		return
	}

	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	projectID, err := optionalUUID(req.ProjectID)
	if err != nil {
		h.BadRequest(c, errors.New("invalid project_id"))
		return
	}
	milestoneID, err := optionalUUID(req.MilestoneID)
	if err != nil {
		h.BadRequest(c, errors.New("invalid milestone_id"))
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), appbilling.CreateInvoiceRequest{
		CompanyID:   companyID,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		Amount:      req.Amount,
		DueDate:     req.DueDate,
		Notes:       req.Notes,
		ProjectID:   projectID,
		MilestoneID: milestoneID,
		CreatedBy:   currentUserID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, invoice)
}

// Get returns a single invoice
// GET /api/v1/invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	companyID, ok := requireCompanyID(c)
	if !ok {
		return
	}
	invoiceID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), companyID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// List returns invoices for the company
// GET /api/v1/invoices
func (h *InvoiceHandler) List(c *gin.Context) {
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

	filter := billing.InvoiceFilter{
		Limit:  req.Limit(),
		Offset: req.Offset(),
	}
	if req.Status != "" {
		status := billing.InvoiceStatus(req.Status)
		if !status.IsValid() {
			h.BadRequest(c, errors.New("invalid status filter"))
			return
		}
		filter.Status = &status
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Invoices, result.Total, req.Page, req.PageSize)
}

// Send marks an invoice sent and emails it to the client
// POST /api/v1/invoices/:id/send
func (h *InvoiceHandler) Send(c *gin.Context) {
	companyID, ok := requireCompanyID(c)
	if !ok {
		return
	}
	invoiceID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.SendInvoice(c.Request.Context(), companyID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// PDF renders the invoice as a PDF document
// GET /api/v1/invoices/:id/pdf
func (h *InvoiceHandler) PDF(c *gin.Context) {
	companyID, ok := requireCompanyID(c)
	if !ok {
		return
	}
	invoiceID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	pdf, err := h.invoiceService.GetInvoicePDF(c.Request.Context(), companyID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="invoice.pdf"`)
	c.Data(200, "application/pdf", pdf)
}

// ListPayments returns completed payments for an invoice, newest first
// GET /api/v1/invoices/:id/payments
func (h *InvoiceHandler) ListPayments(c *gin.Context) {
	companyID, ok := requireCompanyID(c)
	if !ok {
		return
	}
	invoiceID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	payments, err := h.invoiceService.ListInvoicePayments(c.Request.Context(), companyID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payments)
}

// PaymentSummary returns the aggregated payment position of an invoice
// GET /api/v1/invoices/:id/payment-summary
func (h *InvoiceHandler) PaymentSummary(c *gin.Context) {
	companyID, ok := requireCompanyID(c)
	if !ok {
		return
	}
	invoiceID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	summary, err := h.aggregator.SummarizeInvoice(c.Request.Context(), companyID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// RecordPayment records an offline payment against an invoice
// POST /api/v1/invoices/:id/payments
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	companyID, ok := requireCompanyID(c)
	if !ok {
		return
	}
	invoiceID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	result, err := h.recorderService.RecordInvoicePayment(c.Request.Context(), appbilling.RecordPaymentRequest{
		CompanyID:      companyID,
		EntityType:     billing.EntityTypeInvoice,
		EntityID:       invoiceID,
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
