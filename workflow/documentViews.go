package workflow

import (
	"fmt"

	"github.com/craftfolio/studio_backend/models"
	"github.com/craftfolio/studio_backend/render"
)

// View builders snapshot persisted records into the renderer's input types.
// Rendering never touches the database after this point.

func buildBrandingView(b models.Branding) render.BrandingView {
	return render.BrandingView{
		BrandColor:  b.BrandColor,
		AccentColor: b.AccentColor,
		LogoURL:     b.LogoURL,
		ShowLogo:    b.ShowLogo,
	}
}

func buildCompanyView(c models.CompanyInfo) render.CompanyView {
	return render.CompanyView{
		Name:        c.Name,
		Email:       c.Email,
		Address:     c.Address,
		ShowAddress: c.ShowAddress,
	}
}

func buildClientView(c models.ClientInfo) render.ClientView {
	return render.ClientView{
		Name:    c.Name,
		Email:   c.Email,
		Company: c.Company,
		Address: c.Address,
	}
}

func buildBlockViews(blocks models.BlockList) []render.BlockView {
	out := make([]render.BlockView, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, render.BlockView{Label: b.Label, Content: b.Content})
	}
	return out
}

// BuildProposalInput assembles the proposal document view, resolving the
// payment plan into concrete installments.
func BuildProposalInput(p *models.Proposal) (render.DocumentInput, error) {
	total := p.Total()
	amounts, err := p.PaymentPlan.Schedule(total)
	if err != nil {
		return render.DocumentInput{}, err
	}

	installments := make([]render.InstallmentView, 0, len(amounts))
	if p.PaymentPlan.Enabled {
		for i, amount := range amounts {
			label := fmt.Sprintf("Payment %d", i+1)
			if p.PaymentPlan.Type == models.PaymentPlanTypeMilestone && i < len(p.PaymentPlan.Milestones) {
				label = p.PaymentPlan.Milestones[i].Name
			}
			installments = append(installments, render.InstallmentView{Label: label, Amount: amount})
		}
	}

	items := make([]render.LineItemView, 0, len(p.PricingItems))
	for _, item := range p.PricingItems {
		items = append(items, render.LineItemView{Name: item.Name, Description: item.Description, Price: item.Price})
	}
	addOns := make([]render.LineItemView, 0)
	for _, addon := range p.AddOns {
		if addon.Selected {
			addOns = append(addOns, render.LineItemView{Name: addon.Name, Description: addon.Description, Price: addon.Price})
		}
	}

	return render.DocumentInput{
		Kind:     render.DocumentKindProposal,
		Branding: buildBrandingView(p.Branding),
		Company:  buildCompanyView(p.Company),
		Client:   buildClientView(p.Client),
		Proposal: render.ProposalView{
			Title:        p.Title,
			Currency:     p.Currency,
			Blocks:       buildBlockViews(p.Blocks),
			Items:        items,
			AddOns:       addOns,
			Subtotal:     p.Subtotal(),
			TaxRate:      p.TaxRate,
			TaxAmount:    p.TaxAmount(),
			Total:        total,
			Installments: installments,
		},
	}, nil
}

// BuildContractInputFromProposal renders the contract document bundled with
// a proposal.
func BuildContractInputFromProposal(p *models.Proposal) render.DocumentInput {
	return render.DocumentInput{
		Kind:     render.DocumentKindContract,
		Branding: buildBrandingView(p.Branding),
		Company:  buildCompanyView(p.Company),
		Client:   buildClientView(p.Client),
		Contract: render.ContractView{
			ProjectName:             p.Contract.ProjectName,
			RevisionCount:           p.Contract.RevisionCount,
			HourlyRate:              p.Contract.HourlyRate,
			LateFeePercent:          p.Contract.LateFeePercent,
			LateDays:                p.Contract.LateDays,
			IncludeLateFee:          p.Contract.IncludeLateFee,
			IncludeHourlyClause:     p.Contract.IncludeHourlyClause,
			Currency:                p.Currency,
			YourName:                p.Contract.YourName,
			ClientSignatureName:     p.Contract.ClientSignatureName,
			ClientSignedAt:          p.Contract.ClientSignedAt,
			EstimatedCompletionDate: p.Contract.EstimatedCompletionDate,
			Blocks:                  buildBlockViews(p.Blocks),
		},
	}
}

// BuildContractInput renders a standalone contract record.
func BuildContractInput(c *models.Contract) render.DocumentInput {
	return render.DocumentInput{
		Kind:     render.DocumentKindContract,
		Branding: buildBrandingView(c.Branding),
		Company:  buildCompanyView(c.Company),
		Client:   buildClientView(c.Client),
		Contract: render.ContractView{
			ProjectName:             c.Terms.ProjectName,
			RevisionCount:           c.Terms.RevisionCount,
			HourlyRate:              c.Terms.HourlyRate,
			LateFeePercent:          c.Terms.LateFeePercent,
			LateDays:                c.Terms.LateDays,
			IncludeLateFee:          c.Terms.IncludeLateFee,
			IncludeHourlyClause:     c.Terms.IncludeHourlyClause,
			Currency:                c.Currency,
			YourName:                c.Terms.YourName,
			ClientSignatureName:     c.Terms.ClientSignatureName,
			ClientSignedAt:          c.Terms.ClientSignedAt,
			EstimatedCompletionDate: c.Terms.EstimatedCompletionDate,
			Blocks:                  buildBlockViews(c.Blocks),
		},
	}
}

// BuildInvoiceInput renders the invoice document bundled with a proposal.
func BuildInvoiceInput(p *models.Proposal) (render.DocumentInput, error) {
	total := p.Total()
	amounts, err := p.PaymentPlan.Schedule(total)
	if err != nil {
		return render.DocumentInput{}, err
	}
	installments := make([]render.InstallmentView, 0, len(amounts))
	if p.PaymentPlan.Enabled {
		for i, amount := range amounts {
			installments = append(installments, render.InstallmentView{
				Label:  fmt.Sprintf("Payment %d", i+1),
				Amount: amount,
			})
		}
	}

	items := make([]render.LineItemView, 0, len(p.PricingItems))
	for _, item := range p.PricingItems {
		items = append(items, render.LineItemView{Name: item.Name, Description: item.Description, Price: item.Price})
	}
	for _, addon := range p.AddOns {
		if addon.Selected {
			items = append(items, render.LineItemView{Name: addon.Name, Description: addon.Description, Price: addon.Price})
		}
	}

	return render.DocumentInput{
		Kind:     render.DocumentKindInvoice,
		Branding: buildBrandingView(p.Branding),
		Company:  buildCompanyView(p.Company),
		Client:   buildClientView(p.Client),
		Invoice: render.InvoiceView{
			Number:       p.Invoice.Number,
			Currency:     p.Currency,
			IssueDate:    p.Invoice.IssueDate,
			DueDate:      p.Invoice.DueDate,
			Items:        items,
			Subtotal:     p.Subtotal(),
			TaxRate:      p.TaxRate,
			TaxAmount:    p.TaxAmount(),
			Total:        total,
			Installments: installments,
		},
	}, nil
}
