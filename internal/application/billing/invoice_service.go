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

// InvoiceService handles invoice lifecycle operations
type InvoiceService struct {
	invoiceRepo billing.InvoiceRepository
	paymentRepo billing.PaymentRepository
	aggregator  *PaymentAggregatorService
	pdfRenderer PDFRenderer
	storage     DocumentStorage
	email       EmailSender
	logger      *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	paymentRepo billing.PaymentRepository,
	aggregator *PaymentAggregatorService,
	pdfRenderer PDFRenderer,
	storage DocumentStorage,
	email EmailSender,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		aggregator:  aggregator,
		pdfRenderer: pdfRenderer,
		storage:     storage,
		email:       email,
		logger:      logger,
	}
}

// CreateInvoice creates a new draft invoice with an allocated number
func (s *InvoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "create")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrCompanyID, req.CompanyID.String())

	amount, err := parseMoney(req.Amount)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	number, err := s.invoiceRepo.NextInvoiceNumber(ctx, req.CompanyID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to allocate invoice number: %w", err)
	}

	invoice, err := billing.NewInvoice(req.CompanyID, number, req.ClientName, req.ClientEmail, amount, req.DueDate)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	invoice.Notes = req.Notes
	if req.ProjectID != nil && req.MilestoneID != nil {
		invoice.LinkMilestone(*req.ProjectID, *req.MilestoneID)
	}
	if req.CreatedBy != nil {
		invoice.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	s.logger.Info("Invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("amount", invoice.Amount.StringFixed(2)),
	)

	return ToInvoiceResponse(invoice), nil
}

// GetInvoice returns a single invoice
func (s *InvoiceService) GetInvoice(ctx context.Context, companyID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(invoice), nil
}

// ListInvoicesResult carries a page of invoices
type ListInvoicesResult struct {
	Invoices []*InvoiceResponse `json:"invoices"`
	Total    int64              `json:"total"`
}

// ListInvoices returns invoices for a company, filtered and paginated
func (s *InvoiceService) ListInvoices(ctx context.Context, companyID uuid.UUID, filter billing.InvoiceFilter) (*ListInvoicesResult, error) {
	invoices, total, err := s.invoiceRepo.FindAll(ctx, companyID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	out := make([]*InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, ToInvoiceResponse(inv))
	}
	return &ListInvoicesResult{Invoices: out, Total: total}, nil
}

// SendInvoice transitions the invoice to sent, renders its PDF, stores
// it, and emails the client a link. Rendering or delivery failures are
// logged but do not roll back the status change.
func (s *InvoiceService) SendInvoice(ctx context.Context, companyID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "send")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrCompanyID, companyID.String(),
		telemetry.SpanAttrInvoiceID, invoiceID.String(),
	)

	invoice, err := s.invoiceRepo.FindByID(ctx, companyID, invoiceID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := invoice.Send(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	if invoice.ClientEmail != "" {
		s.deliverInvoice(ctx, invoice)
	}

	return ToInvoiceResponse(invoice), nil
}

func (s *InvoiceService) deliverInvoice(ctx context.Context, invoice *billing.Invoice) {
	payments, err := s.paymentRepo.FindCompletedByEntity(ctx, invoice.CompanyID, billing.EntityTypeInvoice, invoice.ID)
	if err != nil {
		payments = nil
	}
	summary := billing.ComputeSummary(invoice.Amount, payments)

	pdfURL := ""
	pdf, err := s.pdfRenderer.RenderInvoicePDF(ctx, invoice, summary)
	if err != nil {
		s.logger.Warn("Failed to render invoice PDF",
			zap.String("invoice_id", invoice.ID.String()),
			zap.Error(err),
		)
	} else {
		key := InvoiceDocumentKey(invoice.CompanyID, invoice.ID)
		if err := s.storage.Put(ctx, key, "application/pdf", pdf); err != nil {
			s.logger.Warn("Failed to store invoice PDF",
				zap.String("invoice_id", invoice.ID.String()),
				zap.Error(err),
			)
		} else if url, err := s.storage.PresignedURL(ctx, key, 7*24*time.Hour); err == nil {
			pdfURL = url
		}
	}

	subject := fmt.Sprintf("Invoice %s from your contractor", invoice.InvoiceNumber)
	body := invoiceEmailBody(invoice, pdfURL)
	if err := s.email.Send(ctx, invoice.ClientEmail, subject, body); err != nil {
		s.logger.Warn("Failed to send invoice email",
			zap.String("invoice_id", invoice.ID.String()),
			zap.String("client_email", invoice.ClientEmail),
			zap.Error(err),
		)
	}
}

// GetInvoicePDF renders the invoice PDF on demand
func (s *InvoiceService) GetInvoicePDF(ctx context.Context, companyID, invoiceID uuid.UUID) ([]byte, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.FindCompletedByEntity(ctx, companyID, billing.EntityTypeInvoice, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payments: %w", err)
	}
	summary := billing.ComputeSummary(invoice.Amount, payments)

	pdf, err := s.pdfRenderer.RenderInvoicePDF(ctx, invoice, summary)
	if err != nil {
		return nil, fmt.Errorf("failed to render invoice PDF: %w", err)
	}
	return pdf, nil
}

// ListInvoicePayments returns every payment recorded against an invoice,
// regardless of status
func (s *InvoiceService) ListInvoicePayments(ctx context.Context, companyID, invoiceID uuid.UUID) ([]*PaymentResponse, error) {
	payments, err := s.paymentRepo.FindByEntity(ctx, companyID, billing.EntityTypeInvoice, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payments: %w", err)
	}

	out := make([]*PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, ToPaymentResponse(p))
	}
	return out, nil
}

// InvoiceDocumentKey builds the company-scoped storage key for an
// invoice's rendered PDF
func InvoiceDocumentKey(companyID, invoiceID uuid.UUID) string {
	return fmt.Sprintf("companies/%s/invoices/%s.pdf", companyID, invoiceID)
}

func invoiceEmailBody(invoice *billing.Invoice, pdfURL string) string {
	body := fmt.Sprintf(
		`<html><body>
<p>Hello %s,</p>
<p>Invoice <strong>%s</strong> for <strong>$%s</strong> is due on %s.</p>`,
		invoice.ClientName,
		invoice.InvoiceNumber,
		invoice.Amount.StringFixed(2),
		invoice.DueDate.Format("January 2, 2006"),
	)
	if pdfURL != "" {
		body += fmt.Sprintf(`<p><a href="%s">View your invoice</a></p>`, pdfURL)
	}
	body += `<p>Thank you for your business.</p></body></html>`
	return body
}
