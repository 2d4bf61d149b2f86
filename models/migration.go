package models

import (
	"github.com/craftfolio/studio_backend/config"
)

// MigrateDatabase brings the schema up to date. Order matters for foreign
// key creation: referenced tables first.
func MigrateDatabase() error {
	db := config.GetDB()
	return db.AutoMigrate(
		&Client{},
		&Lead{},
		&Project{},
		&ContractTemplate{},
		&Proposal{},
		&Contract{},
		&MeetingType{},
		&ScheduleSettings{},
		&Booking{},
		&AnalyticsEvent{},
		&EventOutboxRecord{},
	)
}
