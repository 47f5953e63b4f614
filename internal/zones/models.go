package zones

import (
	"time"

	"popupzone/internal/shared/utils/dates"

	"github.com/google/uuid"
)

// ZoneArea is an administratively defined region holding leasable cells.
type ZoneArea struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	RegionID       string     `gorm:"type:varchar(64);index" json:"region_id"`
	Name           string     `gorm:"type:varchar(100);not null" json:"name"`
	PolygonGeoJSON string     `gorm:"type:text;column:polygon_geo_json" json:"polygon_geo_json,omitempty"`
	Status         AreaStatus `gorm:"type:varchar(20);check:status IN ('AVAILABLE', 'UNAVAILABLE', 'HIDDEN');default:'AVAILABLE';not null" json:"status"`
	MaxCapacity    *int       `json:"max_capacity,omitempty"`
	Notice         string     `gorm:"type:text" json:"notice,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Relationships
	Cells []ZoneCell `json:"cells,omitempty" gorm:"foreignKey:ZoneAreaID;constraint:OnDelete:RESTRICT;"`
}

// ZoneCell is a single leasable unit inside a ZoneArea.
type ZoneCell struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ZoneAreaID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"zone_area_id"`
	OwnerID         uuid.UUID  `gorm:"type:uuid;index;not null" json:"owner_id"`
	Label           string     `gorm:"type:varchar(100);not null" json:"label"`
	DetailedAddress string     `gorm:"type:varchar(255)" json:"detailed_address,omitempty"`
	Lat             *float64   `json:"lat,omitempty"`
	Lng             *float64   `json:"lng,omitempty"`
	Status          CellStatus `gorm:"type:varchar(20);check:status IN ('PENDING', 'APPROVED', 'REJECTED', 'HIDDEN');default:'PENDING';not null" json:"status"`
	MaxCapacity     *int       `json:"max_capacity,omitempty"`
	Notice          string     `gorm:"type:text" json:"notice,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// AvailabilityWindow blacks out an inclusive date range on an area or a cell.
// Exactly one of ZoneAreaID and ZoneCellID is set.
type AvailabilityWindow struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ZoneAreaID *uuid.UUID `gorm:"type:uuid;index" json:"zone_area_id,omitempty"`
	ZoneCellID *uuid.UUID `gorm:"type:uuid;index" json:"zone_cell_id,omitempty"`
	StartDate  time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate    time.Time  `gorm:"type:date;not null" json:"end_date"`
	Reason     string     `gorm:"type:varchar(255)" json:"reason,omitempty"`
	CreatedBy  uuid.UUID  `gorm:"type:uuid" json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
}

// TableName sets the table name for ZoneArea
func (ZoneArea) TableName() string {
	return "zone_areas"
}

// TableName sets the table name for ZoneCell
func (ZoneCell) TableName() string {
	return "zone_cells"
}

// TableName sets the table name for AvailabilityWindow
func (AvailabilityWindow) TableName() string {
	return "availability_windows"
}

// Covers reports whether the window blocks any day of [from, to].
func (w AvailabilityWindow) Covers(from, to time.Time) bool {
	return dates.Overlaps(w.StartDate, w.EndDate, from, to)
}
