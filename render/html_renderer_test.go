package render

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func sampleProposalInput() DocumentInput {
	return DocumentInput{
		Kind:        DocumentKindProposal,
		GeneratedAt: time.Date(2026, 5, 4, 14, 30, 0, 0, time.UTC),
		Branding: BrandingView{
			BrandColor: "#1d4ed8",
			ShowLogo:   false,
		},
		Company: CompanyView{Name: "North Studio", Email: "hello@north.studio"},
		Client:  ClientView{Name: "Ada Wong", Email: "ada@example.com"},
		Proposal: ProposalView{
			Title:    "Brand Refresh",
			Currency: "USD",
			Blocks: []BlockView{
				{Label: "Goals", Content: "Refresh the visual identity."},
			},
			Items: []LineItemView{
				{Name: "Design", Description: "Logo and palette", Price: decimal.NewFromInt(12500)},
			},
			Subtotal:  decimal.NewFromInt(12500),
			TaxRate:   decimal.NewFromFloat(7.5),
			TaxAmount: decimal.NewFromFloat(937.50),
			Total:     decimal.NewFromFloat(13437.50),
			Installments: []InstallmentView{
				{Label: "Payment 1", Amount: decimal.NewFromFloat(6718.75)},
				{Label: "Payment 2", Amount: decimal.NewFromFloat(6718.75)},
			},
		},
	}
}

func TestRenderHTML_Deterministic(t *testing.T) {
	r := NewRenderer()
	input := sampleProposalInput()

	first, err := r.RenderHTML(input)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.RenderHTML(input)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("rendering the same input twice should be byte-identical")
	}
	// The stamp comes from the input, not the clock, so it stays pinned.
	if !strings.Contains(first, "Generated on May 4, 2026 at 02:30 PM") {
		t.Error("footer should carry the generation stamp from the input")
	}
}

func TestRenderHTML_ProposalContent(t *testing.T) {
	r := NewRenderer()
	html, err := r.RenderHTML(sampleProposalInput())
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"Brand Refresh",
		"USD 12,500.00",
		"USD 13,437.50",
		"7.5%",
		"Payment Schedule",
		"Refresh the visual identity.",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered HTML missing %q", want)
		}
	}
}

func TestRenderHTML_InvalidColorFallsBack(t *testing.T) {
	r := NewRenderer()
	input := sampleProposalInput()
	input.Branding.BrandColor = "javascript:alert(1)"

	html, err := r.RenderHTML(input)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(html, "javascript:") {
		t.Error("invalid brand color must not pass into the stylesheet")
	}
	if !strings.Contains(html, "#111827") {
		t.Error("invalid brand color should fall back to the default")
	}
}

func TestRenderHTML_ContractClauses(t *testing.T) {
	r := NewRenderer()
	signed := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	input := DocumentInput{
		Kind:    DocumentKindContract,
		Company: CompanyView{Name: "North Studio"},
		Client:  ClientView{Name: "Ada Wong"},
		Contract: ContractView{
			ProjectName:         "Brand Refresh",
			RevisionCount:       3,
			HourlyRate:          decimal.NewFromInt(150),
			LateFeePercent:      decimal.NewFromFloat(1.5),
			LateDays:            15,
			IncludeLateFee:      true,
			IncludeHourlyClause: true,
			Currency:            "USD",
			YourName:            "Noel Park",
			ClientSignatureName: "Ada Wong",
			ClientSignedAt:      &signed,
		},
	}
	html, err := r.RenderHTML(input)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"3 rounds of revisions",
		"USD 150.00 per hour",
		"15 days",
		"1.5%",
		"signed March 10, 2026",
		"This contract is valid and binding upon both parties upon signature.",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("contract HTML missing %q", want)
		}
	}

	// Optional clauses stay out when toggled off.
	input.Contract.IncludeLateFee = false
	input.Contract.IncludeHourlyClause = false
	html, err = r.RenderHTML(input)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(html, "per hour") || strings.Contains(html, "late fee") {
		t.Error("disabled clauses should not render")
	}
}

func TestRenderHTML_PlaceholdersForAbsentFields(t *testing.T) {
	r := NewRenderer()
	input := DocumentInput{
		Kind: DocumentKindProposal,
		Proposal: ProposalView{
			Blocks: []BlockView{{Label: "Project Scope"}},
			Items:  []LineItemView{{Price: decimal.NewFromInt(500)}},
		},
	}
	html, err := r.RenderHTML(input)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"Untitled Studio",
		"Client Name",
		"Untitled Proposal",
		"Project Scope to be defined...",
		"Untitled Item",
		"Service provided",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("sparse proposal HTML missing placeholder %q", want)
		}
	}

	contract, err := r.RenderHTML(DocumentInput{Kind: DocumentKindContract})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Untitled Project", "Your Company"} {
		if !strings.Contains(contract, want) {
			t.Errorf("sparse contract HTML missing placeholder %q", want)
		}
	}
}

func TestGroupThousands(t *testing.T) {
	cases := []struct{ in, want string }{
		{"0.00", "0.00"},
		{"999.99", "999.99"},
		{"1000.00", "1,000.00"},
		{"1234567.89", "1,234,567.89"},
		{"-45000.50", "-45,000.50"},
	}
	for _, c := range cases {
		if got := groupThousands(c.in); got != c.want {
			t.Errorf("groupThousands(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestPageSlices(t *testing.T) {
	// Exactly one page.
	if got := PageCount(PageHeightPx); got != 1 {
		t.Errorf("PageCount(full page) = %d, want 1", got)
	}
	// One pixel over spills to a second page.
	if got := PageCount(PageHeightPx + 1); got != 2 {
		t.Errorf("PageCount(page+1) = %d, want 2", got)
	}
	// Empty capture still emits a blank page.
	if got := PageCount(0); got != 1 {
		t.Errorf("PageCount(0) = %d, want 1", got)
	}

	slices := PageSlices(PageWidthPx, PageHeightPx*2+100)
	if len(slices) != 3 {
		t.Fatalf("got %d slices, want 3", len(slices))
	}
	if slices[1].Min.Y != PageHeightPx || slices[1].Max.Y != PageHeightPx*2 {
		t.Errorf("middle slice = %v", slices[1])
	}
	if slices[2].Dy() != 100 {
		t.Errorf("final slice height = %d, want 100", slices[2].Dy())
	}
}
