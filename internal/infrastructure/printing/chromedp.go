package printing

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	appbilling "github.com/buildpay/backend/internal/application/billing"
	"github.com/buildpay/backend/internal/domain/billing"
	"github.com/buildpay/backend/internal/infrastructure/config"
)

const (
	defaultChromeTimeout = 30 * time.Second

	// US Letter in inches, the paper construction clients expect
	letterWidthInches  = 8.5
	letterHeightInches = 11.0
	marginInches       = 0.5
)

// ChromedpRenderer renders invoice documents to PDF through the Chrome
// DevTools Protocol. A single allocator context is shared; each render
// gets its own short-lived browser context.
type ChromedpRenderer struct {
	timeout     time.Duration
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpRenderer creates a chromedp-based invoice PDF renderer
func NewChromedpRenderer(cfg config.PDFConfig, logger *zap.Logger) *ChromedpRenderer {
	timeout := cfg.ChromeTimeout
	if timeout == 0 {
		timeout = defaultChromeTimeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true), // Important for Docker
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &ChromedpRenderer{
		timeout:     timeout,
		logger:      logger.Named("pdf"),
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
	}
}

// RenderInvoicePDF renders an invoice with its payment summary to PDF
func (r *ChromedpRenderer) RenderInvoicePDF(ctx context.Context, invoice *billing.Invoice, summary billing.PaymentSummary) ([]byte, error) {
	html, err := buildInvoiceHTML(invoice, summary)
	if err != nil {
		return nil, fmt.Errorf("failed to build invoice document: %w", err)
	}

	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()

	var pdfData []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(letterWidthInches).
				WithPaperHeight(letterHeightInches).
				WithMarginTop(marginInches).
				WithMarginRight(marginInches).
				WithMarginBottom(marginInches).
				WithMarginLeft(marginInches).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfData = data
			return nil
		}),
	)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("invoice PDF rendering timed out after %v: %w", r.timeout, err)
		}
		r.logger.Error("chromedp rendering failed",
			zap.String("invoice_number", invoice.InvoiceNumber),
			zap.Error(err),
		)
		return nil, fmt.Errorf("invoice PDF rendering failed: %w", err)
	}
	if len(pdfData) == 0 {
		return nil, fmt.Errorf("generated invoice PDF is empty")
	}

	r.logger.Info("Invoice PDF rendered",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.Int("bytes", len(pdfData)),
		zap.Duration("duration", time.Since(startTime)),
	)

	return pdfData, nil
}

// Close releases the shared Chrome allocator
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

// Ensure ChromedpRenderer implements PDFRenderer
var _ appbilling.PDFRenderer = (*ChromedpRenderer)(nil)
