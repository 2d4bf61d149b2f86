package models

import (
	"context"
	"errors"
	"time"

	"github.com/craftfolio/studio_backend/config"
	"github.com/craftfolio/studio_backend/utils"
	"github.com/shopspring/decimal"
)

type Project struct {
	ID          int             `gorm:"primary_key" json:"id"`
	AccountId   string          `gorm:"index;not null" json:"account_id"`
	ClientId    int             `gorm:"index;default:0" json:"client_id"`
	ProposalId  int             `gorm:"default:0" json:"proposal_id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Status      string          `gorm:"size:50;default:'Active'" json:"status"`
	Budget      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"budget"`
	Currency    string          `gorm:"size:10;default:'USD'" json:"currency"`
	StartDate   *time.Time      `json:"start_date"`
	DueDate     *time.Time      `json:"due_date"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	Client      *Client         `gorm:"foreignKey:ClientId" json:"client,omitempty"`
}

type NewProject struct {
	Name        string          `json:"name" binding:"required"`
	ClientId    int             `json:"client_id"`
	ProposalId  int             `json:"proposal_id"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	Budget      decimal.Decimal `json:"budget"`
	Currency    string          `json:"currency"`
	StartDate   *time.Time      `json:"start_date"`
	DueDate     *time.Time      `json:"due_date"`
}

func (input *NewProject) validate(ctx context.Context, accountId string, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Project](ctx, accountId, id); err != nil {
			return err
		}
	}
	if input.ClientId > 0 {
		if err := utils.ValidateResourceId[Client](ctx, accountId, input.ClientId); err != nil {
			return errors.New("client not found")
		}
	}
	if input.Budget.IsNegative() {
		return errors.New("budget cannot be negative")
	}
	if input.StartDate != nil && input.DueDate != nil && input.DueDate.Before(*input.StartDate) {
		return errors.New("due date cannot be before start date")
	}
	return nil
}

func CreateProject(ctx context.Context, input *NewProject) (*Project, error) {

	db := config.GetDB()
	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}
	if err := input.validate(ctx, accountId, 0); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = "Active"
	}

	project := Project{
		AccountId:   accountId,
		ClientId:    input.ClientId,
		ProposalId:  input.ProposalId,
		Name:        input.Name,
		Description: input.Description,
		Status:      status,
		Budget:      input.Budget,
		Currency:    defaultCurrency(input.Currency),
		StartDate:   input.StartDate,
		DueDate:     input.DueDate,
	}
	if err := db.WithContext(ctx).Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func UpdateProject(ctx context.Context, id int, input *NewProject) (*Project, error) {

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}
	if err := input.validate(ctx, accountId, id); err != nil {
		return nil, err
	}

	project, err := utils.FetchModel[Project](ctx, accountId, id)
	if err != nil {
		return nil, err
	}

	project.ClientId = input.ClientId
	project.Name = input.Name
	project.Description = input.Description
	if input.Status != "" {
		project.Status = input.Status
	}
	project.Budget = input.Budget
	project.Currency = defaultCurrency(input.Currency)
	project.StartDate = input.StartDate
	project.DueDate = input.DueDate

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

func GetProject(ctx context.Context, id int) (*Project, error) {

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}
	return utils.FetchModel[Project](ctx, accountId, id, "Client")
}

func GetProjects(ctx context.Context, clientId *int) ([]*Project, error) {

	db := config.GetDB()
	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}

	dbCtx := db.WithContext(ctx).Where("account_id = ?", accountId)
	if clientId != nil && *clientId > 0 {
		dbCtx = dbCtx.Where("client_id = ?", *clientId)
	}

	var results []*Project
	if err := dbCtx.Order("updated_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func DeleteProject(ctx context.Context, id int) (*Project, error) {

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}

	result, err := utils.FetchModel[Project](ctx, accountId, id)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}
