package models

import (
	"context"
	"errors"
	"time"

	"github.com/craftfolio/studio_backend/config"
	"github.com/craftfolio/studio_backend/utils"
)

type Client struct {
	ID        int       `gorm:"primary_key" json:"id"`
	AccountId string    `gorm:"index;not null" json:"account_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255" json:"email"`
	Phone     string    `gorm:"size:50" json:"phone"`
	Company   string    `gorm:"size:255" json:"company"`
	Address   string    `gorm:"size:1000" json:"address"`
	Notes     string    `gorm:"type:text" json:"notes"`
	IsActive  *bool     `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewClient struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

func (input *NewClient) validate(ctx context.Context, accountId string, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Client](ctx, accountId, id); err != nil {
			return err
		}
	}
	if len(input.Email) > 0 {
		if !utils.IsValidEmail(input.Email) {
			return errors.New("invalid email address")
		}
		if err := utils.ValidateUnique[Client](ctx, accountId, "email", input.Email, id); err != nil {
			return errors.New("a client with this email already exists")
		}
	}
	if len(input.Phone) > 0 {
		if err := utils.ValidatePhoneNumber(input.Phone, "US"); err != nil {
			return errors.New("invalid phone number")
		}
	}
	return nil
}

func CreateClient(ctx context.Context, input *NewClient) (*Client, error) {

	db := config.GetDB()
	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}
	if err := input.validate(ctx, accountId, 0); err != nil {
		return nil, err
	}

	client := Client{
		AccountId: accountId,
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Company:   input.Company,
		Address:   input.Address,
		Notes:     input.Notes,
		IsActive:  utils.NewTrue(),
	}
	if err := db.WithContext(ctx).Create(&client).Error; err != nil {
		if utils.IsDuplicateEntry(err) {
			return nil, errors.New("a client with this email already exists")
		}
		return nil, err
	}
	return &client, nil
}

func UpdateClient(ctx context.Context, id int, input *NewClient) (*Client, error) {

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}
	if err := input.validate(ctx, accountId, id); err != nil {
		return nil, err
	}

	client, err := utils.FetchModel[Client](ctx, accountId, id)
	if err != nil {
		return nil, err
	}

	client.Name = input.Name
	client.Email = input.Email
	client.Phone = input.Phone
	client.Company = input.Company
	client.Address = input.Address
	client.Notes = input.Notes

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(client).Error; err != nil {
		return nil, err
	}
	return client, nil
}

func GetClient(ctx context.Context, id int) (*Client, error) {

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}
	return utils.FetchModel[Client](ctx, accountId, id)
}

func GetClients(ctx context.Context, search *string) ([]*Client, error) {

	db := config.GetDB()
	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}

	dbCtx := db.WithContext(ctx).Where("account_id = ?", accountId)
	if search != nil && len(*search) > 0 {
		like := "%" + *search + "%"
		dbCtx = dbCtx.Where("name LIKE ? OR email LIKE ? OR company LIKE ?", like, like, like)
	}

	var results []*Client
	if err := dbCtx.Order("name ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func DeleteClient(ctx context.Context, id int) (*Client, error) {

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}

	result, err := utils.FetchModel[Client](ctx, accountId, id)
	if err != nil {
		return nil, err
	}

	// Clients referenced by projects keep their history; block the delete.
	count, err := utils.ResourceCountWhere[Project](ctx, accountId, "client_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("client has projects and cannot be deleted")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}
