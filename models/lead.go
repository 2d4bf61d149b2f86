package models

import (
	"context"
	"errors"
	"time"

	"github.com/craftfolio/studio_backend/config"
	"github.com/craftfolio/studio_backend/utils"
)

// Lead is a prospect captured from the public site or entered by hand. Leads
// carry their acquisition source so analytics and the CRM agree on attribution.
type Lead struct {
	ID            int        `gorm:"primary_key" json:"id"`
	AccountId     string     `gorm:"index;not null" json:"account_id"`
	Name          string     `gorm:"size:255;not null" json:"name"`
	Email         string     `gorm:"size:255" json:"email"`
	Phone         string     `gorm:"size:50" json:"phone"`
	Company       string     `gorm:"size:255" json:"company"`
	Message       string     `gorm:"type:text" json:"message"`
	TrafficSource string     `gorm:"size:50" json:"traffic_source"`
	Status        string     `gorm:"size:50;default:'New'" json:"status"`
	ConvertedAt   *time.Time `json:"converted_at"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewLead struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Company       string `json:"company"`
	Message       string `json:"message"`
	TrafficSource string `json:"traffic_source"`
	Status        string `json:"status"`
}

func (input *NewLead) validate(ctx context.Context, accountId string, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Lead](ctx, accountId, id); err != nil {
			return err
		}
	}
	if len(input.Email) > 0 && !utils.IsValidEmail(input.Email) {
		return errors.New("invalid email address")
	}
	return nil
}

func CreateLead(ctx context.Context, input *NewLead) (*Lead, error) {

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
		status = "New"
	}
	source := input.TrafficSource
	if source == "" {
		source = utils.TrafficSourceDirect
	}

	lead := Lead{
		AccountId:     accountId,
		Name:          input.Name,
		Email:         input.Email,
		Phone:         input.Phone,
		Company:       input.Company,
		Message:       input.Message,
		TrafficSource: source,
		Status:        status,
	}
	if err := db.WithContext(ctx).Create(&lead).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

func UpdateLead(ctx context.Context, id int, input *NewLead) (*Lead, error) {

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}
	if err := input.validate(ctx, accountId, id); err != nil {
		return nil, err
	}

	lead, err := utils.FetchModel[Lead](ctx, accountId, id)
	if err != nil {
		return nil, err
	}

	lead.Name = input.Name
	lead.Email = input.Email
	lead.Phone = input.Phone
	lead.Company = input.Company
	lead.Message = input.Message
	if input.TrafficSource != "" {
		lead.TrafficSource = input.TrafficSource
	}
	if input.Status != "" {
		lead.Status = input.Status
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(lead).Error; err != nil {
		return nil, err
	}
	return lead, nil
}

func GetLead(ctx context.Context, id int) (*Lead, error) {

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}
	return utils.FetchModel[Lead](ctx, accountId, id)
}

func GetLeads(ctx context.Context, status *string) ([]*Lead, error) {

	db := config.GetDB()
	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}

	dbCtx := db.WithContext(ctx).Where("account_id = ?", accountId)
	if status != nil && len(*status) > 0 {
		dbCtx = dbCtx.Where("status = ?", *status)
	}

	var results []*Lead
	if err := dbCtx.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func DeleteLead(ctx context.Context, id int) (*Lead, error) {

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}

	result, err := utils.FetchModel[Lead](ctx, accountId, id)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// ConvertLeadToClient promotes a lead into the client list, stamping the
// conversion time on the lead.
func ConvertLeadToClient(ctx context.Context, id int) (*Client, error) {

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}

	lead, err := utils.FetchModel[Lead](ctx, accountId, id)
	if err != nil {
		return nil, err
	}
	if lead.ConvertedAt != nil {
		return nil, errors.New("lead is already converted")
	}

	client, err := CreateClient(ctx, &NewClient{
		Name:    lead.Name,
		Email:   lead.Email,
		Phone:   lead.Phone,
		Company: lead.Company,
		Notes:   lead.Message,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	db := config.GetDB()
	if err := db.WithContext(ctx).Model(lead).
		Updates(map[string]interface{}{"Status": "Converted", "ConvertedAt": &now}).Error; err != nil {
		config.LogWarn(config.GetLogger(), "Lead", "ConvertLeadToClient", "mark converted", err)
	}
	return client, nil
}
