package models

import (
	"context"
	"errors"
	"time"

	"github.com/craftfolio/studio_backend/config"
	"github.com/craftfolio/studio_backend/utils"
	"github.com/shopspring/decimal"
)

// ClientInfo is the recipient of the proposal (a lead or client snapshot,
// denormalized into the document so later edits to the client record do not
// rewrite sent documents).
type ClientInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Address string `json:"address"`
}

type CompanyInfo struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	ShowAddress bool   `json:"show_address"`
}

type Branding struct {
	BrandColor  string `json:"brand_color"`
	AccentColor string `json:"accent_color"`
	LogoURL     string `json:"logo_url"`
	ShowLogo    bool   `json:"show_logo"`
}

type PricingLineItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// AddOn is a pricing line the client can opt into; only selected add-ons
// contribute to totals.
type AddOn struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Selected    bool            `json:"selected"`
}

type Milestone struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

type PaymentPlan struct {
	Enabled              bool              `json:"enabled"`
	Type                 PaymentPlanType   `json:"type"`
	CustomPaymentsCount  int               `json:"custom_payments_count"`
	CustomEqualSplit     bool              `json:"custom_equal_split"`
	CustomPaymentAmounts []decimal.Decimal `json:"custom_payment_amounts"`
	Milestones           []Milestone       `json:"milestones"`
}

type ContractTerms struct {
	ProjectName             string          `json:"project_name"`
	RevisionCount           int             `json:"revision_count"`
	HourlyRate              decimal.Decimal `json:"hourly_rate"`
	LateFeePercent          decimal.Decimal `json:"late_fee_percent"`
	LateDays                int             `json:"late_days"`
	IncludeLateFee          bool            `json:"include_late_fee"`
	IncludeHourlyClause     bool            `json:"include_hourly_clause"`
	YourName                string          `json:"your_name"`
	ClientSignatureName     string          `json:"client_signature_name"`
	ClientSignedAt          *time.Time      `json:"client_signed_at"`
	EstimatedCompletionDate *time.Time      `json:"estimated_completion_date"`
}

type InvoiceTerms struct {
	Number    string     `json:"number"`
	IssueDate *time.Time `json:"issue_date"`
	DueDate   *time.Time `json:"due_date"`
}

type DocumentToggles struct {
	ProposalEnabled bool `json:"proposal_enabled"`
	ContractEnabled bool `json:"contract_enabled"`
	InvoiceEnabled  bool `json:"invoice_enabled"`
}

type Proposal struct {
	ID           int               `gorm:"primary_key" json:"id"`
	AccountId    string            `gorm:"index;not null" json:"account_id"`
	ClientId     int               `gorm:"default:0" json:"client_id"`
	LeadId       int               `gorm:"default:0" json:"lead_id"`
	Title        string            `gorm:"size:255;not null" json:"title"`
	Status       ProposalStatus    `gorm:"type:enum('Draft','Sent','Viewed','Accepted','Declined');not null;default:'Draft'" json:"status"`
	Currency     string            `gorm:"size:10;default:'USD'" json:"currency"`
	TaxRate      decimal.Decimal   `gorm:"type:decimal(20,4);default:0" json:"tax_rate"`
	Client       ClientInfo        `gorm:"serializer:json" json:"client"`
	Company      CompanyInfo       `gorm:"serializer:json" json:"company"`
	Branding     Branding          `gorm:"serializer:json" json:"branding"`
	Blocks       BlockList         `gorm:"serializer:json" json:"blocks"`
	PricingItems []PricingLineItem `gorm:"serializer:json" json:"pricing_items"`
	AddOns       []AddOn           `gorm:"serializer:json" json:"add_ons"`
	PaymentPlan  PaymentPlan       `gorm:"serializer:json" json:"payment_plan"`
	Contract     ContractTerms     `gorm:"serializer:json" json:"contract"`
	Invoice      InvoiceTerms      `gorm:"serializer:json" json:"invoice"`
	Documents    DocumentToggles   `gorm:"serializer:json" json:"documents"`
	SentAt       *time.Time        `json:"sent_at"`
	ViewedAt     *time.Time        `json:"viewed_at"`
	AcceptedAt   *time.Time        `json:"accepted_at"`
	CreatedAt    time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProposal struct {
	Title        string            `json:"title" binding:"required"`
	ClientId     int               `json:"client_id"`
	LeadId       int               `json:"lead_id"`
	Currency     string            `json:"currency"`
	TaxRate      decimal.Decimal   `json:"tax_rate"`
	Client       ClientInfo        `json:"client"`
	Company      CompanyInfo       `json:"company"`
	Branding     Branding          `json:"branding"`
	Blocks       BlockList         `json:"blocks"`
	PricingItems []PricingLineItem `json:"pricing_items"`
	AddOns       []AddOn           `json:"add_ons"`
	PaymentPlan  PaymentPlan       `json:"payment_plan"`
	Contract     ContractTerms     `json:"contract"`
	Invoice      InvoiceTerms      `json:"invoice"`
	Documents    DocumentToggles   `json:"documents"`
}

/* Totals */

// Subtotal sums pricing items plus selected add-ons only.
func (p *Proposal) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range p.PricingItems {
		sum = sum.Add(item.Price)
	}
	for _, addon := range p.AddOns {
		if addon.Selected {
			sum = sum.Add(addon.Price)
		}
	}
	return sum
}

func (p *Proposal) TaxAmount() decimal.Decimal {
	return p.Subtotal().Mul(p.TaxRate).DivRound(decimal.NewFromInt(100), 4)
}

func (p *Proposal) Total() decimal.Decimal {
	return p.Subtotal().Add(p.TaxAmount())
}

/* Payment schedule policy */

// Schedule resolves the plan into ordered installment amounts for the given
// total. Equal-split variants go through the exact-cent calculator; custom
// explicit amounts and milestone amounts are taken as entered, with no sum
// reconciliation (user-owned override).
func (plan PaymentPlan) Schedule(total decimal.Decimal) ([]decimal.Decimal, error) {
	if !plan.Enabled {
		return []decimal.Decimal{total}, nil
	}
	switch plan.Type {
	case PaymentPlanTypeHalves:
		return utils.PaymentSchedule(total, 2)
	case PaymentPlanTypeThirds:
		return utils.PaymentSchedule(total, 3)
	case PaymentPlanTypeCustom:
		if plan.CustomEqualSplit {
			return utils.PaymentSchedule(total, plan.CustomPaymentsCount)
		}
		count := plan.CustomPaymentsCount
		if count < 1 {
			return nil, utils.ErrorInvalidSplitCount
		}
		amounts := make([]decimal.Decimal, count)
		for i := 0; i < count; i++ {
			if i < len(plan.CustomPaymentAmounts) {
				amounts[i] = plan.CustomPaymentAmounts[i]
			} else {
				amounts[i] = decimal.Zero
			}
		}
		return amounts, nil
	case PaymentPlanTypeMilestone:
		amounts := make([]decimal.Decimal, 0, len(plan.Milestones))
		for _, m := range plan.Milestones {
			amounts = append(amounts, m.Amount)
		}
		if len(amounts) == 0 {
			return []decimal.Decimal{total}, nil
		}
		return amounts, nil
	default:
		return []decimal.Decimal{total}, nil
	}
}

/* CRUD */

// validate input for both create & update. (id = 0 for create)
func (input *NewProposal) validate(ctx context.Context, accountId string, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Proposal](ctx, accountId, id); err != nil {
			return err
		}
	}
	if input.ClientId > 0 {
		if err := utils.ValidateResourceId[Client](ctx, accountId, input.ClientId); err != nil {
			return errors.New("client not found")
		}
	}
	if input.LeadId > 0 {
		if err := utils.ValidateResourceId[Lead](ctx, accountId, input.LeadId); err != nil {
			return errors.New("lead not found")
		}
	}
	if input.PaymentPlan.Enabled && !input.PaymentPlan.Type.IsValid() {
		return errors.New("invalid payment plan type")
	}
	for _, b := range input.Blocks {
		if !b.Type.IsValid() {
			return errors.New("invalid block type")
		}
	}
	if input.TaxRate.IsNegative() {
		return errors.New("tax rate cannot be negative")
	}
	return nil
}

// CountActiveProposals counts the account's open proposals. Draft, sent and
// viewed proposals count toward the plan cap; closed ones do not.
func CountActiveProposals(ctx context.Context) (int64, error) {
	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return 0, errors.New("account id is required")
	}
	return utils.ResourceCountWhere[Proposal](ctx, accountId, "status IN ?",
		[]ProposalStatus{ProposalStatusDraft, ProposalStatusSent, ProposalStatusViewed})
}

func CreateProposal(ctx context.Context, input *NewProposal) (*Proposal, error) {

	db := config.GetDB()
	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}

	if err := input.validate(ctx, accountId, 0); err != nil {
		return nil, err
	}

	blocks := input.Blocks
	if len(blocks) == 0 {
		blocks = DefaultBlocks()
	}

	proposal := Proposal{
		AccountId:    accountId,
		ClientId:     input.ClientId,
		LeadId:       input.LeadId,
		Title:        input.Title,
		Status:       ProposalStatusDraft,
		Currency:     defaultCurrency(input.Currency),
		TaxRate:      input.TaxRate,
		Client:       input.Client,
		Company:      input.Company,
		Branding:     input.Branding,
		Blocks:       blocks.normalize(),
		PricingItems: input.PricingItems,
		AddOns:       input.AddOns,
		PaymentPlan:  input.PaymentPlan,
		Contract:     input.Contract,
		Invoice:      input.Invoice,
		Documents:    input.Documents,
	}

	if err := db.WithContext(ctx).Create(&proposal).Error; err != nil {
		return nil, err
	}

	return &proposal, nil
}

func UpdateProposal(ctx context.Context, id int, input *NewProposal) (*Proposal, error) {

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}
	if err := input.validate(ctx, accountId, id); err != nil {
		return nil, err
	}

	proposal, err := utils.FetchModel[Proposal](ctx, accountId, id)
	if err != nil {
		return nil, err
	}

	proposal.ClientId = input.ClientId
	proposal.LeadId = input.LeadId
	proposal.Title = input.Title
	proposal.Currency = defaultCurrency(input.Currency)
	proposal.TaxRate = input.TaxRate
	proposal.Client = input.Client
	proposal.Company = input.Company
	proposal.Branding = input.Branding
	proposal.Blocks = input.Blocks.normalize()
	proposal.PricingItems = input.PricingItems
	proposal.AddOns = input.AddOns
	proposal.PaymentPlan = input.PaymentPlan
	proposal.Contract = input.Contract
	proposal.Invoice = input.Invoice
	proposal.Documents = input.Documents

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(proposal).Error; err != nil {
		return nil, err
	}
	return proposal, nil
}

func GetProposal(ctx context.Context, id int) (*Proposal, error) {

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}
	return utils.FetchModel[Proposal](ctx, accountId, id)
}

func GetProposals(ctx context.Context, status *ProposalStatus, search *string) ([]*Proposal, error) {

	db := config.GetDB()
	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}

	dbCtx := db.WithContext(ctx).Where("account_id = ?", accountId)
	if status != nil {
		dbCtx = dbCtx.Where("status = ?", *status)
	}
	if search != nil && len(*search) > 0 {
		dbCtx = dbCtx.Where("title LIKE ?", "%"+*search+"%")
	}

	var results []*Proposal
	if err := dbCtx.Order("updated_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func DeleteProposal(ctx context.Context, id int) (*Proposal, error) {

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}

	result, err := utils.FetchModel[Proposal](ctx, accountId, id)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// DuplicateProposal copies an existing document. Copies always start over as
// drafts with signature state cleared.
func DuplicateProposal(ctx context.Context, id int) (*Proposal, error) {

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}

	src, err := utils.FetchModel[Proposal](ctx, accountId, id)
	if err != nil {
		return nil, err
	}

	dup := *src
	dup.ID = 0
	dup.Title = src.Title + " (Copy)"
	dup.Status = ProposalStatusDraft
	dup.SentAt = nil
	dup.ViewedAt = nil
	dup.AcceptedAt = nil
	dup.Contract.ClientSignatureName = ""
	dup.Contract.ClientSignedAt = nil
	dup.CreatedAt = time.Time{}
	dup.UpdatedAt = time.Time{}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&dup).Error; err != nil {
		return nil, err
	}
	return &dup, nil
}

// UpdateProposalStatus records a status change plus its timestamp marker.
func UpdateProposalStatus(ctx context.Context, id int, status ProposalStatus) (*Proposal, error) {

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}
	if !status.IsValid() {
		return nil, errors.New("invalid proposal status")
	}

	proposal, err := utils.FetchModel[Proposal](ctx, accountId, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{"Status": status}
	switch status {
	case ProposalStatusSent:
		updates["SentAt"] = &now
	case ProposalStatusViewed:
		if proposal.ViewedAt == nil {
			updates["ViewedAt"] = &now
		}
	case ProposalStatusAccepted:
		updates["AcceptedAt"] = &now
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(proposal).Updates(updates).Error; err != nil {
		return nil, err
	}
	return proposal, nil
}

// AcceptProposalWithSignature is the client-facing accept path: records the
// typed signature and flips the document to Accepted.
func AcceptProposalWithSignature(ctx context.Context, id int, signatureName string) (*Proposal, error) {

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}

	proposal, err := utils.FetchModel[Proposal](ctx, accountId, id)
	if err != nil {
		return nil, err
	}
	if proposal.Documents.ContractEnabled && len(signatureName) == 0 {
		return nil, errors.New("signature name is required")
	}
	if proposal.Status == ProposalStatusAccepted {
		return nil, errors.New("proposal is already accepted")
	}

	now := time.Now()
	proposal.Status = ProposalStatusAccepted
	proposal.AcceptedAt = &now
	proposal.Contract.ClientSignatureName = signatureName
	proposal.Contract.ClientSignedAt = &now

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(proposal).Error; err != nil {
		return nil, err
	}
	return proposal, nil
}

func defaultCurrency(c string) string {
	if c == "" {
		return "USD"
	}
	return c
}
