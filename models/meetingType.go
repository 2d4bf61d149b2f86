package models

import (
	"context"
	"errors"
	"time"

	"github.com/craftfolio/studio_backend/config"
	"github.com/craftfolio/studio_backend/utils"
	"github.com/shopspring/decimal"
)

// MeetingType is a bookable session offering (duration, location, price)
// shown on the public scheduling page when active.
type MeetingType struct {
	ID              int             `gorm:"primary_key" json:"id"`
	AccountId       string          `gorm:"index;not null" json:"account_id"`
	Name            string          `gorm:"size:255;not null" json:"name"`
	Description     string          `gorm:"size:1000" json:"description"`
	DurationMinutes int             `gorm:"not null;default:30" json:"duration_minutes"`
	Location        LocationType    `gorm:"type:enum('Zoom','Google Meet','Phone','In-Person');not null;default:'Zoom'" json:"location"`
	LocationDetail  string          `gorm:"size:500" json:"location_detail"`
	Color           string          `gorm:"size:20" json:"color"`
	Price           decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"price"`
	IsActive        *bool           `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewMeetingType struct {
	Name            string          `json:"name" binding:"required"`
	Description     string          `json:"description"`
	DurationMinutes int             `json:"duration_minutes" binding:"required"`
	Location        LocationType    `json:"location"`
	LocationDetail  string          `json:"location_detail"`
	Color           string          `json:"color"`
	Price           decimal.Decimal `json:"price"`
}

func (input *NewMeetingType) validate(ctx context.Context, accountId string, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[MeetingType](ctx, accountId, id); err != nil {
			return err
		}
	}
	if input.DurationMinutes < 5 || input.DurationMinutes > 480 {
		return errors.New("duration must be between 5 and 480 minutes")
	}
	if input.Location != "" && !input.Location.IsValid() {
		return errors.New("invalid location type")
	}
	if input.Price.IsNegative() {
		return errors.New("price cannot be negative")
	}
	if err := utils.ValidateUnique[MeetingType](ctx, accountId, "name", input.Name, id); err != nil {
		return errors.New("meeting type name already exists")
	}
	return nil
}

// CountMeetingTypes counts every meeting type on the account, active or not,
// for plan cap checks.
func CountMeetingTypes(ctx context.Context) (int64, error) {
	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return 0, errors.New("account id is required")
	}
	return utils.ResourceCountWhere[MeetingType](ctx, accountId, "1 = 1")
}

func CreateMeetingType(ctx context.Context, input *NewMeetingType) (*MeetingType, error) {

	db := config.GetDB()
	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}
	if err := input.validate(ctx, accountId, 0); err != nil {
		return nil, err
	}

	location := input.Location
	if location == "" {
		location = LocationTypeZoom
	}

	meetingType := MeetingType{
		AccountId:       accountId,
		Name:            input.Name,
		Description:     input.Description,
		DurationMinutes: input.DurationMinutes,
		Location:        location,
		LocationDetail:  input.LocationDetail,
		Color:           input.Color,
		Price:           input.Price,
		IsActive:        utils.NewTrue(),
	}
	if err := db.WithContext(ctx).Create(&meetingType).Error; err != nil {
		return nil, err
	}

	if err := utils.StoreRedis[MeetingType](&meetingType, meetingType.ID); err != nil {
		config.LogWarn(config.GetLogger(), "MeetingType", "CreateMeetingType", "cache store", err)
	}
	return &meetingType, nil
}

func UpdateMeetingType(ctx context.Context, id int, input *NewMeetingType) (*MeetingType, error) {

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}
	if err := input.validate(ctx, accountId, id); err != nil {
		return nil, err
	}

	meetingType, err := utils.FetchModel[MeetingType](ctx, accountId, id)
	if err != nil {
		return nil, err
	}

	meetingType.Name = input.Name
	meetingType.Description = input.Description
	meetingType.DurationMinutes = input.DurationMinutes
	if input.Location != "" {
		meetingType.Location = input.Location
	}
	meetingType.LocationDetail = input.LocationDetail
	meetingType.Color = input.Color
	meetingType.Price = input.Price

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(meetingType).Error; err != nil {
		return nil, err
	}

	if err := utils.StoreRedis[MeetingType](meetingType, meetingType.ID); err != nil {
		config.LogWarn(config.GetLogger(), "MeetingType", "UpdateMeetingType", "cache store", err)
	}
	return meetingType, nil
}

func GetMeetingType(ctx context.Context, id int) (*MeetingType, error) {

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}

	if cached, err := utils.RetrieveRedis[MeetingType](id); err == nil && cached != nil && cached.AccountId == accountId {
		return cached, nil
	}

	meetingType, err := utils.FetchModel[MeetingType](ctx, accountId, id)
	if err != nil {
		return nil, err
	}
	if err := utils.StoreRedis[MeetingType](meetingType, meetingType.ID); err != nil {
		config.LogWarn(config.GetLogger(), "MeetingType", "GetMeetingType", "cache store", err)
	}
	return meetingType, nil
}

func GetMeetingTypes(ctx context.Context, activeOnly bool) ([]*MeetingType, error) {

	db := config.GetDB()
	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}

	dbCtx := db.WithContext(ctx).Where("account_id = ?", accountId)
	if activeOnly {
		dbCtx = dbCtx.Where("is_active = ?", true)
	}

	var results []*MeetingType
	if err := dbCtx.Order("name ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ToggleMeetingTypeActive archives or restores an offering without deleting
// its booking history.
func ToggleMeetingTypeActive(ctx context.Context, id int, isActive bool) (*MeetingType, error) {

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}

	meetingType, err := utils.FetchModel[MeetingType](ctx, accountId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(meetingType).Update("IsActive", isActive).Error; err != nil {
		return nil, err
	}
	meetingType.IsActive = &isActive

	if err := utils.InvalidateRedis[MeetingType](id, accountId); err != nil {
		config.LogWarn(config.GetLogger(), "MeetingType", "ToggleMeetingTypeActive", "cache invalidate", err)
	}
	return meetingType, nil
}

func DeleteMeetingType(ctx context.Context, id int) (*MeetingType, error) {

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}

	result, err := utils.FetchModel[MeetingType](ctx, accountId, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[Booking](ctx, accountId, "meeting_type_id = ? AND status = ?", id, BookingStatusScheduled)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("meeting type has scheduled bookings and cannot be deleted")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}

	if err := utils.InvalidateRedis[MeetingType](id, accountId); err != nil {
		config.LogWarn(config.GetLogger(), "MeetingType", "DeleteMeetingType", "cache invalidate", err)
	}
	return result, nil
}
