package render

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind selects which of the suite's documents a render produces.
type DocumentKind string

const (
	DocumentKindProposal DocumentKind = "proposal"
	DocumentKindContract DocumentKind = "contract"
	DocumentKindInvoice  DocumentKind = "invoice"
)

// DocumentInput is the deterministic input for document rendering. It is a
// snapshot: rendering the same input twice yields byte-identical HTML. The
// caller supplies GeneratedAt; the renderer never reads the clock, so the
// "Generated on" stamp is pinned by the input.
type DocumentInput struct {
	Kind        DocumentKind
	GeneratedAt time.Time
	Branding    BrandingView
	Company     CompanyView
	Client      ClientView
	Proposal    ProposalView
	Contract    ContractView
	Invoice     InvoiceView
}

type BrandingView struct {
	BrandColor  string
	AccentColor string
	LogoURL     string
	ShowLogo    bool
}

type CompanyView struct {
	Name        string
	Email       string
	Address     string
	ShowAddress bool
}

type ClientView struct {
	Name    string
	Email   string
	Company string
	Address string
}

type BlockView struct {
	Label   string
	Content string
}

type LineItemView struct {
	Name        string
	Description string
	Price       decimal.Decimal
}

type InstallmentView struct {
	Label  string
	Amount decimal.Decimal
}

type ProposalView struct {
	Title        string
	Currency     string
	Blocks       []BlockView
	Items        []LineItemView
	AddOns       []LineItemView
	Subtotal     decimal.Decimal
	TaxRate      decimal.Decimal
	TaxAmount    decimal.Decimal
	Total        decimal.Decimal
	Installments []InstallmentView
}

type ContractView struct {
	ProjectName             string
	RevisionCount           int
	HourlyRate              decimal.Decimal
	LateFeePercent          decimal.Decimal
	LateDays                int
	IncludeLateFee          bool
	IncludeHourlyClause     bool
	Currency                string
	YourName                string
	ClientSignatureName     string
	ClientSignedAt          *time.Time
	EstimatedCompletionDate *time.Time
	Blocks                  []BlockView
}

type InvoiceView struct {
	Number       string
	Currency     string
	IssueDate    *time.Time
	DueDate      *time.Time
	Items        []LineItemView
	Subtotal     decimal.Decimal
	TaxRate      decimal.Decimal
	TaxAmount    decimal.Decimal
	Total        decimal.Decimal
	Installments []InstallmentView
}

type Renderer interface {
	RenderHTML(input DocumentInput) (string, error)
}
