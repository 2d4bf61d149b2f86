package render

import (
	"bytes"
	"html/template"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const documentHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>{{title .}}</title>
  <style>
    :root {
      --brand: {{.Branding.BrandColor}};
      --accent: {{.Branding.AccentColor}};
    }
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 32px;
      width: 794px;
      font-family: "Helvetica Neue", Arial, sans-serif;
      color: #111827;
      background: #ffffff;
    }
    .document { margin: 0 auto; }
    .header {
      display: flex;
      justify-content: space-between;
      align-items: flex-start;
      border-bottom: 3px solid var(--brand);
      padding-bottom: 16px;
      margin-bottom: 24px;
    }
    .brand { display: flex; align-items: center; gap: 12px; }
    .brand img { max-height: 56px; }
    .meta { text-align: right; font-size: 14px; }
    .label {
      color: #6b7280;
      text-transform: uppercase;
      letter-spacing: 0.04em;
      font-size: 11px;
    }
    .section { margin-bottom: 24px; }
    .section h2 {
      font-size: 16px;
      color: var(--brand);
      border-bottom: 1px solid #e5e7eb;
      padding-bottom: 6px;
    }
    table { width: 100%; border-collapse: collapse; font-size: 14px; }
    th, td { padding: 10px; border-bottom: 1px solid #e5e7eb; text-align: left; }
    th {
      text-transform: uppercase;
      font-size: 11px;
      letter-spacing: 0.04em;
      color: #6b7280;
    }
    td.amount, th.amount { text-align: right; }
    .totals { margin-top: 12px; font-size: 14px; }
    .totals .row { display: flex; justify-content: flex-end; gap: 24px; padding: 4px 10px; }
    .totals .grand { font-size: 17px; border-top: 2px solid var(--brand); padding-top: 8px; }
    .signature {
      margin-top: 40px;
      display: flex;
      justify-content: space-between;
      gap: 48px;
    }
    .signature .line {
      flex: 1;
      border-top: 1px solid #111827;
      padding-top: 6px;
      font-size: 13px;
    }
    .clause { font-size: 13px; color: #374151; margin-bottom: 10px; }
    .footer {
      margin-top: 48px;
      border-top: 1px solid #e5e7eb;
      padding-top: 12px;
      font-size: 11px;
      color: #6b7280;
      text-align: center;
    }
  </style>
</head>
<body>
  <div class="document">
    <div class="header">
      <div class="brand">
        {{if and .Branding.ShowLogo .Branding.LogoURL}}
        <img src="{{.Branding.LogoURL}}" alt="Logo" />
        {{end}}
        <div>
          <div><strong>{{.Company.Name}}</strong></div>
          <div>{{.Company.Email}}</div>
          {{if .Company.ShowAddress}}<div>{{.Company.Address}}</div>{{end}}
        </div>
      </div>
      <div class="meta">
        <div class="label">{{kindLabel .Kind}}</div>
        {{if eq .Kind "invoice"}}<div><strong>{{.Invoice.Number}}</strong></div>{{end}}
        <div>Prepared for</div>
        <div><strong>{{.Client.Name}}</strong></div>
        {{if .Client.Company}}<div>{{.Client.Company}}</div>{{end}}
        <div>{{.Client.Email}}</div>
      </div>
    </div>

    {{if eq .Kind "proposal"}}
    <div class="section"><h2>{{.Proposal.Title}}</h2></div>
    {{range .Proposal.Blocks}}
    <div class="section">
      <h2>{{.Label}}</h2>
      <div class="clause">{{.Content}}</div>
    </div>
    {{end}}
    <div class="section">
      <h2>Investment</h2>
      <table>
        <thead>
          <tr><th>Item</th><th>Description</th><th class="amount">Price</th></tr>
        </thead>
        <tbody>
          {{range .Proposal.Items}}
          <tr><td>{{.Name}}</td><td>{{.Description}}</td><td class="amount">{{money .Price $.Proposal.Currency}}</td></tr>
          {{end}}
          {{range .Proposal.AddOns}}
          <tr><td>{{.Name}} (add-on)</td><td>{{.Description}}</td><td class="amount">{{money .Price $.Proposal.Currency}}</td></tr>
          {{end}}
        </tbody>
      </table>
      <div class="totals">
        <div class="row"><span>Subtotal</span><strong>{{money .Proposal.Subtotal .Proposal.Currency}}</strong></div>
        {{if not .Proposal.TaxRate.IsZero}}
        <div class="row"><span>Tax ({{percent .Proposal.TaxRate}})</span><strong>{{money .Proposal.TaxAmount .Proposal.Currency}}</strong></div>
        {{end}}
        <div class="row grand"><span>Total</span><strong>{{money .Proposal.Total .Proposal.Currency}}</strong></div>
      </div>
    </div>
    {{if .Proposal.Installments}}
    <div class="section">
      <h2>Payment Schedule</h2>
      <table>
        <thead><tr><th>Installment</th><th class="amount">Amount</th></tr></thead>
        <tbody>
          {{range .Proposal.Installments}}
          <tr><td>{{.Label}}</td><td class="amount">{{money .Amount $.Proposal.Currency}}</td></tr>
          {{end}}
        </tbody>
      </table>
    </div>
    {{end}}
    {{end}}

    {{if eq .Kind "contract"}}
    <div class="section"><h2>Agreement: {{.Contract.ProjectName}}</h2></div>
    {{range .Contract.Blocks}}
    <div class="section">
      <h2>{{.Label}}</h2>
      <div class="clause">{{.Content}}</div>
    </div>
    {{end}}
    <div class="section">
      <h2>Terms</h2>
      <div class="clause">This agreement includes {{.Contract.RevisionCount}} rounds of revisions.</div>
      {{if .Contract.IncludeHourlyClause}}
      <div class="clause">Work beyond the agreed scope is billed at {{money .Contract.HourlyRate .Contract.Currency}} per hour.</div>
      {{end}}
      {{if .Contract.IncludeLateFee}}
      <div class="clause">Invoices unpaid after {{.Contract.LateDays}} days accrue a late fee of {{percent .Contract.LateFeePercent}} per month.</div>
      {{end}}
      {{if .Contract.EstimatedCompletionDate}}
      <div class="clause">Estimated completion: {{date .Contract.EstimatedCompletionDate}}.</div>
      {{end}}
    </div>
    <div class="signature">
      <div class="line">
        {{if .Contract.ClientSignatureName}}{{.Contract.ClientSignatureName}} &mdash; signed {{date .Contract.ClientSignedAt}}{{else}}Client signature{{end}}
      </div>
      <div class="line">{{.Contract.YourName}}</div>
    </div>
    {{end}}

    {{if eq .Kind "invoice"}}
    <div class="section">
      <div class="label">Issued</div><div>{{date .Invoice.IssueDate}}</div>
      <div class="label">Due</div><div>{{date .Invoice.DueDate}}</div>
    </div>
    <div class="section">
      <table>
        <thead>
          <tr><th>Item</th><th>Description</th><th class="amount">Amount</th></tr>
        </thead>
        <tbody>
          {{range .Invoice.Items}}
          <tr><td>{{.Name}}</td><td>{{.Description}}</td><td class="amount">{{money .Price $.Invoice.Currency}}</td></tr>
          {{end}}
        </tbody>
      </table>
      <div class="totals">
        <div class="row"><span>Subtotal</span><strong>{{money .Invoice.Subtotal .Invoice.Currency}}</strong></div>
        {{if not .Invoice.TaxRate.IsZero}}
        <div class="row"><span>Tax ({{percent .Invoice.TaxRate}})</span><strong>{{money .Invoice.TaxAmount .Invoice.Currency}}</strong></div>
        {{end}}
        <div class="row grand"><span>Total Due</span><strong>{{money .Invoice.Total .Invoice.Currency}}</strong></div>
      </div>
    </div>
    {{if .Invoice.Installments}}
    <div class="section">
      <h2>Payment Schedule</h2>
      <table>
        <thead><tr><th>Installment</th><th class="amount">Amount</th></tr></thead>
        <tbody>
          {{range .Invoice.Installments}}
          <tr><td>{{.Label}}</td><td class="amount">{{money .Amount $.Invoice.Currency}}</td></tr>
          {{end}}
        </tbody>
      </table>
    </div>
    {{end}}
    {{end}}

    <div class="footer">
      {{if eq .Kind "contract"}}<p>This contract is valid and binding upon both parties upon signature.</p>{{end}}
      <p>Generated on {{stamp .GeneratedAt}}</p>
    </div>
  </div>
</body>
</html>
`

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type HTMLRenderer struct {
	tpl *template.Template
}

func NewRenderer() Renderer {
	funcs := template.FuncMap{
		"money":     formatMoney,
		"percent":   formatPercent,
		"date":      formatDate,
		"stamp":     formatStamp,
		"title":     documentTitle,
		"kindLabel": kindLabel,
	}
	return &HTMLRenderer{
		tpl: template.Must(template.New("document").Funcs(funcs).Parse(documentHTMLTemplate)),
	}
}

func (r *HTMLRenderer) RenderHTML(input DocumentInput) (string, error) {
	normalizeInput(&input)

	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, input); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// normalizeInput fills placeholder text for every optional field that is
// absent, so a sparsely filled document still renders a complete page.
func normalizeInput(input *DocumentInput) {
	input.Branding.BrandColor = sanitizeColor(input.Branding.BrandColor, "#111827")
	input.Branding.AccentColor = sanitizeColor(input.Branding.AccentColor, "#6b7280")
	fillPlaceholder(&input.Company.Name, "Untitled Studio")
	fillPlaceholder(&input.Client.Name, "Client Name")
	fillPlaceholder(&input.Proposal.Title, "Untitled Proposal")
	fillPlaceholder(&input.Contract.ProjectName, "Untitled Project")
	fillPlaceholder(&input.Contract.YourName, "Your Company")
	fillPlaceholder(&input.Invoice.Number, "Draft")
	normalizeBlocks(input.Proposal.Blocks)
	normalizeBlocks(input.Contract.Blocks)
	normalizeItems(input.Proposal.Items)
	normalizeItems(input.Proposal.AddOns)
	normalizeItems(input.Invoice.Items)
}

func fillPlaceholder(field *string, placeholder string) {
	if strings.TrimSpace(*field) == "" {
		*field = placeholder
	}
}

func normalizeBlocks(blocks []BlockView) {
	for i := range blocks {
		fillPlaceholder(&blocks[i].Label, "Details")
		fillPlaceholder(&blocks[i].Content, blocks[i].Label+" to be defined...")
	}
}

func normalizeItems(items []LineItemView) {
	for i := range items {
		fillPlaceholder(&items[i].Name, "Untitled Item")
		fillPlaceholder(&items[i].Description, "Service provided")
	}
}

func documentTitle(input DocumentInput) string {
	switch input.Kind {
	case DocumentKindProposal:
		return input.Proposal.Title
	case DocumentKindContract:
		return "Agreement: " + input.Contract.ProjectName
	case DocumentKindInvoice:
		return "Invoice " + input.Invoice.Number
	}
	return "Document"
}

func kindLabel(kind DocumentKind) string {
	switch kind {
	case DocumentKindProposal:
		return "Proposal"
	case DocumentKindContract:
		return "Contract"
	case DocumentKindInvoice:
		return "Invoice"
	}
	return "Document"
}

// formatMoney renders a currency amount with two decimals and thousands
// separators, e.g. "USD 12,500.00".
func formatMoney(amount decimal.Decimal, currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "USD"
	}
	return currency + " " + groupThousands(amount.StringFixed(2))
}

// groupThousands inserts commas into the integer part of a fixed-point
// decimal string, preserving sign and fraction.
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}
	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}
	if len(intPart) <= 3 {
		return sign + intPart + fracPart
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return sign + b.String() + fracPart
}

func formatPercent(rate decimal.Decimal) string {
	return strings.TrimRight(strings.TrimRight(rate.StringFixed(2), "0"), ".") + "%"
}

func formatDate(value *time.Time) string {
	if value == nil || value.IsZero() {
		return "-"
	}
	return value.UTC().Format("January 2, 2006")
}

// formatStamp renders the generation timestamp in the long US form used by
// the document footer, e.g. "January 2, 2006 at 03:04 PM".
func formatStamp(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.UTC().Format("January 2, 2006 at 03:04 PM")
}

func sanitizeColor(value string, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if hexColorPattern.MatchString(trimmed) {
		return trimmed
	}
	return fallback
}
