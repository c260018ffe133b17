package trade

import (
	"bytes"
	"html/template"

	"github.com/marketplace/backend/internal/domain/trade"
)

var quotationTemplate = template.Must(template.New("quotation").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: "Helvetica Neue", Arial, sans-serif; color: #1a1a1a; margin: 40px; }
  h1 { font-size: 22px; margin-bottom: 0; }
  .meta { color: #666; font-size: 12px; margin-bottom: 24px; }
  table { width: 100%; border-collapse: collapse; font-size: 13px; }
  th { text-align: left; border-bottom: 2px solid #1a1a1a; padding: 6px 8px; }
  td { border-bottom: 1px solid #ddd; padding: 6px 8px; }
  .num { text-align: right; }
  .totals { margin-top: 16px; width: 40%; margin-left: auto; }
  .totals td { border: none; padding: 3px 8px; }
  .totals .grand td { border-top: 2px solid #1a1a1a; font-weight: bold; }
  .terms { margin-top: 32px; font-size: 12px; color: #444; }
</style>
</head>
<body>
  <h1>Quotation {{.QuotationNumber}}</h1>
  <div class="meta">
    Prepared for {{.BuyerName}} &middot; Valid until {{.ValidUntil.Format "2 Jan 2006"}}
    {{if .Incoterm}}&middot; {{.Incoterm}}{{if .DestinationPort}} {{.DestinationPort}}{{end}}{{end}}
  </div>
  <table>
    <tr><th>SKU</th><th>Product</th><th class="num">Qty</th><th class="num">Unit Price</th><th class="num">Amount</th></tr>
    {{range .Items}}
    <tr>
      <td>{{.SKU}}</td>
      <td>{{.ProductName}}</td>
      <td class="num">{{.Quantity}}</td>
      <td class="num">{{.UnitPrice.StringFixed 2}}</td>
      <td class="num">{{.Amount.StringFixed 2}}</td>
    </tr>
    {{end}}
  </table>
  <table class="totals">
    <tr><td>Subtotal</td><td class="num">{{.Subtotal.StringFixed 2}} {{.Currency}}</td></tr>
    {{if not .FreightAmount.IsZero}}<tr><td>Freight</td><td class="num">{{.FreightAmount.StringFixed 2}} {{.Currency}}</td></tr>{{end}}
    {{if not .DiscountAmount.IsZero}}<tr><td>Discount</td><td class="num">-{{.DiscountAmount.StringFixed 2}} {{.Currency}}</td></tr>{{end}}
    <tr class="grand"><td>Total</td><td class="num">{{.TotalAmount.StringFixed 2}} {{.Currency}}</td></tr>
  </table>
  <div class="terms">
    <p>Payment term: {{.PaymentTerm}}</p>
    {{if .Remark}}<p>{{.Remark}}</p>{{end}}
  </div>
</body>
</html>`))

func renderQuotationHTML(q *trade.Quotation) (string, error) {
	var buf bytes.Buffer
	if err := quotationTemplate.Execute(&buf, q); err != nil {
		return "", err
	}
	return buf.String(), nil
}
