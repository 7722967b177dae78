package models

import (
	"football-sync/core/audit"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the service owns, then seeds
// the fixture status reference data. Safe to run repeatedly.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Country{},
		&Venue{},
		&League{},
		&Season{},
		&Team{},
		&Player{},
		&Coach{},
		&Fixture{},
		&FixtureEvent{},
		&FixtureScore{},
		&FixtureStatistic{},
		&FixtureLineup{},
		&PlayerStatistic{},
		&Odds{},
		&Standing{},
		&FixtureStatus{},
		&SyncJob{},
		&audit.ChangeRecord{},
	); err != nil {
		return err
	}
	return seedFixtureStatuses(db)
}

func seedFixtureStatuses(db *gorm.DB) error {
	for _, status := range DefaultFixtureStatuses() {
		if err := db.FirstOrCreate(&status, FixtureStatus{ShortCode: status.ShortCode}).Error; err != nil {
			return err
		}
	}
	return nil
}
