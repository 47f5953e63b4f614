package database

import (
	"popupzone/internal/approvals"
	"popupzone/internal/ledger"
	"popupzone/internal/occupancies"
	"popupzone/internal/zones"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&zones.ZoneArea{},
		&zones.ZoneCell{},
		&zones.AvailabilityWindow{},
		&occupancies.Occupancy{},
		&ledger.Entry{},
		&approvals.ApprovalRecord{},
	); err != nil {
		return err
	}
	return MigrateConstraints(db)
}
