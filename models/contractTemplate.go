package models

import (
	"context"
	"errors"
	"time"

	"github.com/craftfolio/studio_backend/config"
	"github.com/craftfolio/studio_backend/utils"
)

// ContractTemplate stores reusable terms and blocks that seed new contracts.
type ContractTemplate struct {
	ID          int           `gorm:"primary_key" json:"id"`
	AccountId   string        `gorm:"index;not null" json:"account_id"`
	Name        string        `gorm:"size:255;not null" json:"name"`
	Description string        `gorm:"size:1000" json:"description"`
	Terms       ContractTerms `gorm:"serializer:json" json:"terms"`
	Blocks      BlockList     `gorm:"serializer:json" json:"blocks"`
	CreatedAt   time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewContractTemplate struct {
	Name        string        `json:"name" binding:"required"`
	Description string        `json:"description"`
	Terms       ContractTerms `json:"terms"`
	Blocks      BlockList     `json:"blocks"`
}

func (input *NewContractTemplate) validate(ctx context.Context, accountId string, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[ContractTemplate](ctx, accountId, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateUnique[ContractTemplate](ctx, accountId, "name", input.Name, id); err != nil {
		return errors.New("template name already exists")
	}
	return nil
}

func CreateContractTemplate(ctx context.Context, input *NewContractTemplate) (*ContractTemplate, error) {

	db := config.GetDB()
	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}
	if err := input.validate(ctx, accountId, 0); err != nil {
		return nil, err
	}

	template := ContractTemplate{
		AccountId:   accountId,
		Name:        input.Name,
		Description: input.Description,
		Terms:       input.Terms,
		Blocks:      input.Blocks.normalize(),
	}
	if err := db.WithContext(ctx).Create(&template).Error; err != nil {
		return nil, err
	}

	if err := utils.StoreRedis[ContractTemplate](&template, template.ID); err != nil {
		config.LogWarn(config.GetLogger(), "ContractTemplate", "CreateContractTemplate", "cache store", err)
	}
	return &template, nil
}

func UpdateContractTemplate(ctx context.Context, id int, input *NewContractTemplate) (*ContractTemplate, error) {

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}
	if err := input.validate(ctx, accountId, id); err != nil {
		return nil, err
	}

	template, err := utils.FetchModel[ContractTemplate](ctx, accountId, id)
	if err != nil {
		return nil, err
	}

	template.Name = input.Name
	template.Description = input.Description
	template.Terms = input.Terms
	template.Blocks = input.Blocks.normalize()

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(template).Error; err != nil {
		return nil, err
	}

	if err := utils.StoreRedis[ContractTemplate](template, template.ID); err != nil {
		config.LogWarn(config.GetLogger(), "ContractTemplate", "UpdateContractTemplate", "cache store", err)
	}
	return template, nil
}

func GetContractTemplate(ctx context.Context, id int) (*ContractTemplate, error) {

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}

	if cached, err := utils.RetrieveRedis[ContractTemplate](id); err == nil && cached != nil && cached.AccountId == accountId {
		return cached, nil
	}

	template, err := utils.FetchModel[ContractTemplate](ctx, accountId, id)
	if err != nil {
		return nil, err
	}
	if err := utils.StoreRedis[ContractTemplate](template, template.ID); err != nil {
		config.LogWarn(config.GetLogger(), "ContractTemplate", "GetContractTemplate", "cache store", err)
	}
	return template, nil
}

func GetContractTemplates(ctx context.Context) ([]*ContractTemplate, error) {

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}
	return utils.FetchAllModels[ContractTemplate](ctx, accountId)
}

func DeleteContractTemplate(ctx context.Context, id int) (*ContractTemplate, error) {

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}

	result, err := utils.FetchModel[ContractTemplate](ctx, accountId, id)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}

	if err := utils.InvalidateRedis[ContractTemplate](id, accountId); err != nil {
		config.LogWarn(config.GetLogger(), "ContractTemplate", "DeleteContractTemplate", "cache invalidate", err)
	}
	return result, nil
}
