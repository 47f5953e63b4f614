package zones

type CreateAreaRequest struct {
	RegionID       string `json:"region_id" validate:"omitempty,max=64"`
	Name           string `json:"name" validate:"required,min=1,max=100"`
	PolygonGeoJSON string `json:"polygon_geo_json" validate:"omitempty"`
	MaxCapacity    *int   `json:"max_capacity" validate:"omitempty,min=1"`
	Notice         string `json:"notice" validate:"omitempty,max=2000"`
}

type ChangeAreaStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=AVAILABLE UNAVAILABLE HIDDEN"`
}

type CreateCellRequest struct {
	ZoneAreaID      string   `json:"zone_area_id" validate:"required,uuid"`
	Label           string   `json:"label" validate:"required,min=1,max=100"`
	DetailedAddress string   `json:"detailed_address" validate:"omitempty,max=255"`
	Lat             *float64 `json:"lat" validate:"omitempty,latitude"`
	Lng             *float64 `json:"lng" validate:"omitempty,longitude"`
	MaxCapacity     *int     `json:"max_capacity" validate:"omitempty,min=1"`
	Notice          string   `json:"notice" validate:"omitempty,max=2000"`
}

type ChangeCellStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING APPROVED REJECTED HIDDEN"`
}

// CreateWindowRequest targets either an area or a cell, never both.
type CreateWindowRequest struct {
	ZoneAreaID string `json:"zone_area_id" validate:"required_without=ZoneCellID,excluded_with=ZoneCellID,omitempty,uuid"`
	ZoneCellID string `json:"zone_cell_id" validate:"required_without=ZoneAreaID,excluded_with=ZoneAreaID,omitempty,uuid"`
	StartDate  string `json:"start_date" validate:"required,civildate"`
	EndDate    string `json:"end_date" validate:"required,civildate"`
	Reason     string `json:"reason" validate:"omitempty,max=255"`
}
