package models

import (
	"context"
	"errors"
	"time"

	"github.com/craftfolio/studio_backend/config"
	"github.com/craftfolio/studio_backend/utils"
	"github.com/shopspring/decimal"
)

// Contract is a standalone agreement document, created either from scratch,
// from a template, or promoted out of an accepted proposal.
type Contract struct {
	ID         int             `gorm:"primary_key" json:"id"`
	AccountId  string          `gorm:"index;not null" json:"account_id"`
	ProposalId int             `gorm:"default:0" json:"proposal_id"`
	ClientId   int             `gorm:"default:0" json:"client_id"`
	TemplateId int             `gorm:"default:0" json:"template_id"`
	Title      string          `gorm:"size:255;not null" json:"title"`
	Status     ContractStatus  `gorm:"type:enum('Draft','Sent','Signed','Declined','Expired','Archived');not null;default:'Draft'" json:"status"`
	Client     ClientInfo      `gorm:"serializer:json" json:"client"`
	Company    CompanyInfo     `gorm:"serializer:json" json:"company"`
	Branding   Branding        `gorm:"serializer:json" json:"branding"`
	Terms      ContractTerms   `gorm:"serializer:json" json:"terms"`
	Blocks     BlockList       `gorm:"serializer:json" json:"blocks"`
	Value      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"value"`
	Currency   string          `gorm:"size:10;default:'USD'" json:"currency"`
	SentAt     *time.Time      `json:"sent_at"`
	SignedAt   *time.Time      `json:"signed_at"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewContract struct {
	Title      string          `json:"title" binding:"required"`
	ProposalId int             `json:"proposal_id"`
	ClientId   int             `json:"client_id"`
	TemplateId int             `json:"template_id"`
	Client     ClientInfo      `json:"client"`
	Company    CompanyInfo     `json:"company"`
	Branding   Branding        `json:"branding"`
	Terms      ContractTerms   `json:"terms"`
	Blocks     BlockList       `json:"blocks"`
	Value      decimal.Decimal `json:"value"`
	Currency   string          `json:"currency"`
}

type ContractStats struct {
	Total    int64 `json:"total"`
	Draft    int64 `json:"draft"`
	Sent     int64 `json:"sent"`
	Signed   int64 `json:"signed"`
	Declined int64 `json:"declined"`
}

func (input *NewContract) validate(ctx context.Context, accountId string, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Contract](ctx, accountId, id); err != nil {
			return err
		}
	}
	if input.ClientId > 0 {
		if err := utils.ValidateResourceId[Client](ctx, accountId, input.ClientId); err != nil {
			return errors.New("client not found")
		}
	}
	if input.TemplateId > 0 {
		if err := utils.ValidateResourceId[ContractTemplate](ctx, accountId, input.TemplateId); err != nil {
			return errors.New("contract template not found")
		}
	}
	if input.Value.IsNegative() {
		return errors.New("contract value cannot be negative")
	}
	return nil
}

func CreateContract(ctx context.Context, input *NewContract) (*Contract, error) {

	db := config.GetDB()
	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}
	if err := input.validate(ctx, accountId, 0); err != nil {
		return nil, err
	}

	contract := Contract{
		AccountId:  accountId,
		ProposalId: input.ProposalId,
		ClientId:   input.ClientId,
		TemplateId: input.TemplateId,
		Title:      input.Title,
		Status:     ContractStatusDraft,
		Client:     input.Client,
		Company:    input.Company,
		Branding:   input.Branding,
		Terms:      input.Terms,
		Blocks:     input.Blocks.normalize(),
		Value:      input.Value,
		Currency:   defaultCurrency(input.Currency),
	}

	// Seed from template when one is referenced and the caller sent no body.
	if input.TemplateId > 0 && len(input.Blocks) == 0 {
		template, err := utils.FetchModel[ContractTemplate](ctx, accountId, input.TemplateId)
		if err != nil {
			return nil, err
		}
		contract.Blocks = template.Blocks.normalize()
		if contract.Terms == (ContractTerms{}) {
			contract.Terms = template.Terms
		}
	}

	if err := db.WithContext(ctx).Create(&contract).Error; err != nil {
		return nil, err
	}
	return &contract, nil
}

func UpdateContract(ctx context.Context, id int, input *NewContract) (*Contract, error) {

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}
	if err := input.validate(ctx, accountId, id); err != nil {
		return nil, err
	}

	contract, err := utils.FetchModel[Contract](ctx, accountId, id)
	if err != nil {
		return nil, err
	}
	if contract.Status == ContractStatusSigned {
		return nil, errors.New("signed contracts cannot be edited")
	}

	contract.Title = input.Title
	contract.ClientId = input.ClientId
	contract.Client = input.Client
	contract.Company = input.Company
	contract.Branding = input.Branding
	contract.Terms = input.Terms
	contract.Blocks = input.Blocks.normalize()
	contract.Value = input.Value
	contract.Currency = defaultCurrency(input.Currency)

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(contract).Error; err != nil {
		return nil, err
	}
	return contract, nil
}

func GetContract(ctx context.Context, id int) (*Contract, error) {

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}
	return utils.FetchModel[Contract](ctx, accountId, id)
}

func GetContracts(ctx context.Context, status *ContractStatus) ([]*Contract, error) {

	db := config.GetDB()
	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}

	dbCtx := db.WithContext(ctx).Where("account_id = ?", accountId)
	if status != nil {
		dbCtx = dbCtx.Where("status = ?", *status)
	}

	var results []*Contract
	if err := dbCtx.Order("updated_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func DeleteContract(ctx context.Context, id int) (*Contract, error) {

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}

	result, err := utils.FetchModel[Contract](ctx, accountId, id)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateContractStatus stamps sent / signed markers alongside the transition.
func UpdateContractStatus(ctx context.Context, id int, status ContractStatus) (*Contract, error) {

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}
	if !status.IsValid() {
		return nil, errors.New("invalid contract status")
	}

	contract, err := utils.FetchModel[Contract](ctx, accountId, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{"Status": status}
	switch status {
	case ContractStatusSent:
		updates["SentAt"] = &now
	case ContractStatusSigned:
		updates["SignedAt"] = &now
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(contract).Updates(updates).Error; err != nil {
		return nil, err
	}
	return contract, nil
}

// GetContractStats counts contracts per status for the dashboard header.
func GetContractStats(ctx context.Context) (*ContractStats, error) {

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}

	stats := ContractStats{}
	counts := []struct {
		status ContractStatus
		dest   *int64
	}{
		{ContractStatusDraft, &stats.Draft},
		{ContractStatusSent, &stats.Sent},
		{ContractStatusSigned, &stats.Signed},
		{ContractStatusDeclined, &stats.Declined},
	}
	for _, c := range counts {
		n, err := utils.ResourceCountWhere[Contract](ctx, accountId, "status = ?", c.status)
		if err != nil {
			return nil, err
		}
		*c.dest = n
		stats.Total += n
	}
	return &stats, nil
}
