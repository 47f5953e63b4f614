package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds the constraints the placement rules rely on.
// The ledger exclusion constraint makes overlapping committed intervals
// on one cell impossible even if the application lock is bypassed.
func MigrateConstraints(db *gorm.DB) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS btree_gist`,

		// Committed intervals on a cell never overlap (inclusive bounds)
		`DO $$
		BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'ledger_committed_no_overlap') THEN
				ALTER TABLE ledger_entries
				ADD CONSTRAINT ledger_committed_no_overlap
				EXCLUDE USING gist (zone_cell_id WITH =, daterange(start_date, end_date, '[]') WITH &&)
				WHERE (state = 'COMMITTED');
			END IF;
		END $$`,

		// Intervals are well formed
		`DO $$
		BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'occupancies_range_ordered') THEN
				ALTER TABLE occupancies ADD CONSTRAINT occupancies_range_ordered CHECK (start_date <= end_date);
			END IF;
			IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'availability_windows_range_ordered') THEN
				ALTER TABLE availability_windows ADD CONSTRAINT availability_windows_range_ordered CHECK (start_date <= end_date);
			END IF;
		END $$`,

		// A window targets exactly one of area or cell
		`DO $$
		BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'availability_windows_one_target') THEN
				ALTER TABLE availability_windows ADD CONSTRAINT availability_windows_one_target
				CHECK ((zone_area_id IS NULL) <> (zone_cell_id IS NULL));
			END IF;
		END $$`,

		// One decision per occupancy
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_approval_records_one_per_target
		ON approval_records (target_type, target_id)`,

		`CREATE INDEX IF NOT EXISTS idx_occupancies_pending_queue
		ON occupancies (created_at, id) WHERE approval_status = 'PENDING'`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
