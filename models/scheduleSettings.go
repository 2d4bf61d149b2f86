package models

import (
	"context"
	"errors"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/craftfolio/studio_backend/config"
	"github.com/craftfolio/studio_backend/utils"
	"gorm.io/gorm"
)

// DayAvailability is one weekday's bookable window. Times are "HH:MM" in the
// account's timezone.
type DayAvailability struct {
	Enabled   bool   `json:"enabled"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// WeekAvailability is keyed by time.Weekday order, Sunday first.
type WeekAvailability [7]DayAvailability

// ScheduleSettings is the single per-account configuration of the public
// booking page. Slug is globally unique: it forms the public URL
// {origin}/schedule/{slug}.
type ScheduleSettings struct {
	ID                  int              `gorm:"primary_key" json:"id"`
	AccountId           string           `gorm:"uniqueIndex;not null" json:"account_id"`
	Slug                string           `gorm:"uniqueIndex;size:100;not null" json:"slug"`
	DisplayName         string           `gorm:"size:255" json:"display_name"`
	WelcomeMessage      string           `gorm:"size:1000" json:"welcome_message"`
	Timezone            string           `gorm:"size:100;default:'UTC'" json:"timezone"`
	Availability        WeekAvailability `gorm:"serializer:json" json:"availability"`
	BufferBeforeMinutes int              `gorm:"default:0" json:"buffer_before_minutes"`
	BufferAfterMinutes  int              `gorm:"default:0" json:"buffer_after_minutes"`
	AdvanceNoticeHours  int              `gorm:"default:24" json:"advance_notice_hours"`
	MaxDaysOut          int              `gorm:"default:60" json:"max_days_out"`
	SlotIntervalMinutes int              `gorm:"default:30" json:"slot_interval_minutes"`
	AccessCodeHash      string           `gorm:"size:255" json:"-"`
	IsPublic            *bool            `gorm:"default:true" json:"is_public"`
	CreatedAt           time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewScheduleSettings struct {
	Slug                string           `json:"slug" binding:"required"`
	DisplayName         string           `json:"display_name"`
	WelcomeMessage      string           `json:"welcome_message"`
	Timezone            string           `json:"timezone"`
	Availability        WeekAvailability `json:"availability"`
	BufferBeforeMinutes int              `json:"buffer_before_minutes"`
	BufferAfterMinutes  int              `json:"buffer_after_minutes"`
	AdvanceNoticeHours  int              `json:"advance_notice_hours"`
	MaxDaysOut          int              `json:"max_days_out"`
	SlotIntervalMinutes int              `json:"slot_interval_minutes"`
	AccessCode          *string          `json:"access_code"`
	IsPublic            *bool            `json:"is_public"`
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

func (input *NewScheduleSettings) validate() error {
	if !slugPattern.MatchString(input.Slug) {
		return errors.New("slug must be lowercase letters, digits and hyphens")
	}
	if input.Timezone != "" {
		if _, err := time.LoadLocation(input.Timezone); err != nil {
			return errors.New("invalid timezone")
		}
	}
	for _, day := range input.Availability {
		if !day.Enabled {
			continue
		}
		if !timePattern.MatchString(day.StartTime) || !timePattern.MatchString(day.EndTime) {
			return errors.New("availability times must be HH:MM")
		}
		if day.EndTime <= day.StartTime {
			return errors.New("availability end time must be after start time")
		}
	}
	if input.BufferBeforeMinutes < 0 || input.BufferAfterMinutes < 0 {
		return errors.New("buffers cannot be negative")
	}
	if input.AdvanceNoticeHours < 0 {
		return errors.New("advance notice cannot be negative")
	}
	if input.SlotIntervalMinutes != 0 && input.SlotIntervalMinutes < 5 {
		return errors.New("slot interval must be at least 5 minutes")
	}
	return nil
}

// scheduleSettingsCache restates the access code hash under an explicit
// name: the struct's own json tag hides it from API responses, which would
// otherwise strip it from the cache entry too.
type scheduleSettingsCache struct {
	ScheduleSettings
	AccessCodeHash string `json:"access_code_hash"`
}

func cacheScheduleSettings(s *ScheduleSettings) {
	entry := scheduleSettingsCache{ScheduleSettings: *s, AccessCodeHash: s.AccessCodeHash}
	if err := utils.StoreRedisKeyed[ScheduleSettings](&entry, "slug:"+s.Slug); err != nil {
		config.LogWarn(config.GetLogger(), "ScheduleSettings", "cacheScheduleSettings", "cache store", err)
	}
}

func cachedScheduleSettingsBySlug(slug string) *ScheduleSettings {
	var entry scheduleSettingsCache
	found, err := utils.RetrieveRedisKeyed[ScheduleSettings]("slug:"+slug, &entry)
	if err != nil {
		config.LogWarn(config.GetLogger(), "ScheduleSettings", "cachedScheduleSettingsBySlug", "cache read", err)
		return nil
	}
	if !found {
		return nil
	}
	settings := entry.ScheduleSettings
	settings.AccessCodeHash = entry.AccessCodeHash
	return &settings
}

// SaveScheduleSettings creates or replaces the account's booking page
// configuration. Slug uniqueness is global, not per account.
func SaveScheduleSettings(ctx context.Context, input *NewScheduleSettings) (*ScheduleSettings, error) {

	db := config.GetDB()
	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	var taken int64
	if err := db.WithContext(utils.SetSkipTenantScopeInContext(ctx, true)).
		Model(&ScheduleSettings{}).
		Where("slug = ? AND account_id <> ?", input.Slug, accountId).
		Count(&taken).Error; err != nil {
		return nil, err
	}
	if taken > 0 {
		return nil, errors.New("slug is already taken")
	}

	settings := ScheduleSettings{}
	err := db.WithContext(ctx).Where("account_id = ?", accountId).First(&settings).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	previousSlug := settings.Slug

	settings.AccountId = accountId
	settings.Slug = input.Slug
	settings.DisplayName = input.DisplayName
	settings.WelcomeMessage = input.WelcomeMessage
	if input.Timezone != "" {
		settings.Timezone = input.Timezone
	} else if settings.Timezone == "" {
		settings.Timezone = "UTC"
	}
	settings.Availability = input.Availability
	settings.BufferBeforeMinutes = input.BufferBeforeMinutes
	settings.BufferAfterMinutes = input.BufferAfterMinutes
	settings.AdvanceNoticeHours = input.AdvanceNoticeHours
	if input.MaxDaysOut > 0 {
		settings.MaxDaysOut = input.MaxDaysOut
	} else if settings.MaxDaysOut == 0 {
		settings.MaxDaysOut = 60
	}
	if input.SlotIntervalMinutes > 0 {
		settings.SlotIntervalMinutes = input.SlotIntervalMinutes
	} else if settings.SlotIntervalMinutes == 0 {
		settings.SlotIntervalMinutes = 30
	}
	if input.IsPublic != nil {
		settings.IsPublic = input.IsPublic
	} else if settings.IsPublic == nil {
		settings.IsPublic = utils.NewTrue()
	}

	// Access codes are stored hashed. Empty string clears the code; nil
	// leaves the existing one unchanged.
	if input.AccessCode != nil {
		if *input.AccessCode == "" {
			settings.AccessCodeHash = ""
		} else {
			hash, err := utils.HashSecret(*input.AccessCode)
			if err != nil {
				return nil, err
			}
			settings.AccessCodeHash = string(hash)
		}
	}

	if err := db.WithContext(ctx).Save(&settings).Error; err != nil {
		if utils.IsDuplicateEntry(err) {
			return nil, errors.New("slug is already taken")
		}
		return nil, err
	}

	if previousSlug != "" && previousSlug != settings.Slug {
		if err := utils.InvalidateRedisKeyed[ScheduleSettings]("slug:" + previousSlug); err != nil {
			config.LogWarn(config.GetLogger(), "ScheduleSettings", "SaveScheduleSettings", "cache invalidate", err)
		}
	}
	cacheScheduleSettings(&settings)
	return &settings, nil
}

func GetScheduleSettings(ctx context.Context) (*ScheduleSettings, error) {

	db := config.GetDB()
	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}

	settings := ScheduleSettings{}
	if err := db.WithContext(ctx).Where("account_id = ?", accountId).First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &settings, nil
}

// GetScheduleSettingsBySlug serves the public booking page. It runs outside
// any tenant context, so the query opts out of the tenant guard explicitly.
// Lookups read through the slug-keyed cache; the visibility check applies to
// cached entries too.
func GetScheduleSettingsBySlug(ctx context.Context, slug string) (*ScheduleSettings, error) {

	db := config.GetDB()
	slug = strings.ToLower(slug)

	if cached := cachedScheduleSettingsBySlug(slug); cached != nil {
		if !utils.DereferencePtr(cached.IsPublic) {
			return nil, utils.ErrorRecordNotFound
		}
		return cached, nil
	}

	settings := ScheduleSettings{}
	err := db.WithContext(utils.SetSkipTenantScopeInContext(ctx, true)).
		Where("slug = ?", slug).
		First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	cacheScheduleSettings(&settings)
	if !utils.DereferencePtr(settings.IsPublic) {
		return nil, utils.ErrorRecordNotFound
	}
	return &settings, nil
}

// VerifyScheduleAccessCode gates code-protected booking pages.
func (s *ScheduleSettings) VerifyScheduleAccessCode(code string) bool {
	if s.AccessCodeHash == "" {
		return true
	}
	return utils.CompareSecret(s.AccessCodeHash, code) == nil
}

// PublicBookingURL composes the shareable page address from the configured
// site origin.
func (s *ScheduleSettings) PublicBookingURL() string {
	origin := os.Getenv("PUBLIC_SITE_ORIGIN")
	if origin == "" {
		origin = "https://app.craftfolio.io"
	}
	return strings.TrimRight(origin, "/") + "/schedule/" + s.Slug
}
