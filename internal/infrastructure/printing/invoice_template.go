package printing

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/buildpay/backend/internal/domain/billing"
)

var invoiceTemplate = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Invoice {{.InvoiceNumber}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #1a1a1a; font-size: 13px; }
  h1 { font-size: 22px; margin-bottom: 4px; }
  .meta { color: #555; margin-bottom: 24px; }
  .status { display: inline-block; padding: 2px 10px; border-radius: 3px;
            background: #eef2f7; text-transform: uppercase; font-size: 11px; }
  table { width: 100%; border-collapse: collapse; margin-top: 16px; }
  th { text-align: left; border-bottom: 2px solid #1a1a1a; padding: 6px 4px; }
  td { border-bottom: 1px solid #ddd; padding: 6px 4px; }
  .amount { text-align: right; }
  .totals { margin-top: 20px; width: 40%; margin-left: auto; }
  .totals td { border: none; padding: 3px 4px; }
  .totals .due { font-weight: bold; border-top: 2px solid #1a1a1a; }
  .notes { margin-top: 32px; color: #555; white-space: pre-wrap; }
</style>
</head>
<body>
<h1>Invoice {{.InvoiceNumber}}</h1>
<div class="meta">
  <div>Billed to: {{.ClientName}}</div>
  <div>Due date: {{.DueDate}}</div>
  <div class="status">{{.Status}}</div>
</div>

<table>
  <tr><th>Description</th><th class="amount">Amount</th></tr>
  <tr><td>{{.Description}}</td><td class="amount">{{.Amount}} {{.Currency}}</td></tr>
</table>

{{if .Payments}}
<table>
  <tr><th>Payment date</th><th>Method</th><th class="amount">Amount</th></tr>
  {{range .Payments}}
  <tr><td>{{.Date}}</td><td>{{.Method}}</td><td class="amount">{{.Amount}}</td></tr>
  {{end}}
</table>
{{end}}

<table class="totals">
  <tr><td>Total</td><td class="amount">{{.Amount}}</td></tr>
  <tr><td>Paid</td><td class="amount">{{.TotalPaid}}</td></tr>
  <tr class="due"><td>Balance due</td><td class="amount">{{.RemainingBalance}}</td></tr>
</table>

{{if .Notes}}<div class="notes">{{.Notes}}</div>{{end}}
</body>
</html>`))

type invoicePaymentRow struct {
	Date   string
	Method string
	Amount string
}

type invoiceTemplateData struct {
	InvoiceNumber    string
	ClientName       string
	DueDate          string
	Status           string
	Description      string
	Amount           string
	Currency         string
	TotalPaid        string
	RemainingBalance string
	Payments         []invoicePaymentRow
	Notes            string
}

func buildInvoiceHTML(invoice *billing.Invoice, summary billing.PaymentSummary) (string, error) {
	rows := make([]invoicePaymentRow, len(summary.Payments))
	for i, p := range summary.Payments {
		rows[i] = invoicePaymentRow{
			Date:   p.PaymentDate.Format("Jan 2, 2006"),
			Method: string(p.Method),
			Amount: p.Amount.StringFixed(2),
		}
	}

	data := invoiceTemplateData{
		InvoiceNumber:    invoice.InvoiceNumber,
		ClientName:       invoice.ClientName,
		DueDate:          invoice.DueDate.Format("Jan 2, 2006"),
		Status:           string(invoice.Status),
		Description:      fmt.Sprintf("Construction services, invoice %s", invoice.InvoiceNumber),
		Amount:           invoice.Amount.StringFixed(2),
		Currency:         string(invoice.Amount.Currency()),
		TotalPaid:        summary.TotalPaid.StringFixed(2),
		RemainingBalance: summary.RemainingBalance.StringFixed(2),
		Payments:         rows,
		Notes:            invoice.Notes,
	}

	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
