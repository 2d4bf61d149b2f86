package models

import (
	"context"
	"errors"
	"time"

	"github.com/craftfolio/studio_backend/config"
	"github.com/craftfolio/studio_backend/utils"
	"gorm.io/gorm"
)

// AnalyticsEvent is one ingested page-view or interaction from a public
// page. Events arrive unauthenticated; the account is resolved from the
// page's slug by the handler, so writes here take the account id explicitly
// instead of reading it from a token context.
type AnalyticsEvent struct {
	ID            int       `gorm:"primary_key" json:"id"`
	AccountId     string    `gorm:"index;not null" json:"account_id"`
	VisitorId     string    `gorm:"index;size:100;not null" json:"visitor_id"`
	EventType     string    `gorm:"size:50;not null;default:'page_view'" json:"event_type"`
	PagePath      string    `gorm:"size:500" json:"page_path"`
	Referer       string    `gorm:"size:1000" json:"referer"`
	TrafficSource string    `gorm:"size:50" json:"traffic_source"`
	DeviceType    string    `gorm:"size:20" json:"device_type"`
	UserAgent     string    `gorm:"size:1000" json:"user_agent"`
	Country       string    `gorm:"size:100" json:"country"`
	CountryCode   string    `gorm:"size:2" json:"country_code"`
	OccurredAt    time.Time `gorm:"index;not null" json:"occurred_at"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NewAnalyticsEvent struct {
	EventType string `json:"event_type"`
	PagePath  string `json:"page_path"`
	Referer   string `json:"referer"`
}

// RecordAnalyticsEvent classifies and stores one event. Classification runs
// server side from the request's referer and user agent so clients cannot
// spoof the derived fields.
func RecordAnalyticsEvent(ctx context.Context, accountId string, input *NewAnalyticsEvent, userAgent string, clientIP string, pageHost string) (*AnalyticsEvent, error) {

	if accountId == "" {
		return nil, errors.New("account id is required")
	}

	eventType := input.EventType
	if eventType == "" {
		eventType = "page_view"
	}

	now := time.Now().UTC()
	event := AnalyticsEvent{
		AccountId:     accountId,
		VisitorId:     utils.VisitorFingerprint(clientIP, userAgent, now),
		EventType:     eventType,
		PagePath:      input.PagePath,
		Referer:       input.Referer,
		TrafficSource: utils.ClassifyTrafficSource(input.Referer, pageHost),
		DeviceType:    utils.ClassifyDeviceType(userAgent),
		UserAgent:     userAgent,
		OccurredAt:    now,
	}

	// Geolocation is page-view only and best effort; a failed lookup never
	// blocks ingestion.
	if eventType == "page_view" {
		if loc, err := utils.LookupIPLocation(ctx, clientIP); err == nil {
			event.Country = loc.Country
			event.CountryCode = loc.CountryCode
		} else {
			config.LogWarn(config.GetLogger(), "analyticsEvent.go", "RecordAnalyticsEvent", "geo lookup", err)
		}
	}

	db := config.GetDB()
	writeCtx := utils.SetSkipTenantScopeInContext(ctx, true)
	err := db.WithContext(writeCtx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		return EnqueueEventInTx(writeCtx, tx, accountId, "analytics.recorded", "analytics_event", event.ID, &event)
	})
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// AnalyticsSummary aggregates events for the dashboard over a window.
type AnalyticsSummary struct {
	TotalEvents    int64            `json:"total_events"`
	UniqueVisitors int64            `json:"unique_visitors"`
	BySource       map[string]int64 `json:"by_source"`
	ByDevice       map[string]int64 `json:"by_device"`
	TopPages       []PageCount      `json:"top_pages"`
}

type PageCount struct {
	PagePath string `json:"page_path"`
	Count    int64  `json:"count"`
}

func GetAnalyticsSummary(ctx context.Context, from, to time.Time) (*AnalyticsSummary, error) {

	db := config.GetDB()
	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}

	base := func() *gorm.DB {
		return db.WithContext(ctx).Model(&AnalyticsEvent{}).
			Where("account_id = ? AND occurred_at >= ? AND occurred_at < ?", accountId, from.UTC(), to.UTC())
	}

	summary := AnalyticsSummary{
		BySource: map[string]int64{},
		ByDevice: map[string]int64{},
	}

	if err := base().Count(&summary.TotalEvents).Error; err != nil {
		return nil, err
	}
	if err := base().Distinct("visitor_id").Count(&summary.UniqueVisitors).Error; err != nil {
		return nil, err
	}

	type bucket struct {
		Key   string
		Count int64
	}
	var sources []bucket
	if err := base().Select("traffic_source AS `key`, COUNT(*) AS count").
		Group("traffic_source").Scan(&sources).Error; err != nil {
		return nil, err
	}
	for _, s := range sources {
		summary.BySource[s.Key] = s.Count
	}

	var devices []bucket
	if err := base().Select("device_type AS `key`, COUNT(*) AS count").
		Group("device_type").Scan(&devices).Error; err != nil {
		return nil, err
	}
	for _, d := range devices {
		summary.ByDevice[d.Key] = d.Count
	}

	if err := base().Select("page_path, COUNT(*) AS count").
		Group("page_path").Order("count DESC").Limit(10).
		Scan(&summary.TopPages).Error; err != nil {
		return nil, err
	}
	return &summary, nil
}
