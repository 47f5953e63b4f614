package notifications

import (
	"encoding/json"
	"time"

	"popupzone/internal/approvals"
	"popupzone/internal/occupancies"
	"popupzone/internal/shared/utils/dates"

	"github.com/google/uuid"
)

type EventType string

const (
	EventOccupancyRequested EventType = "OCCUPANCY_REQUESTED"
	EventOccupancyApproved  EventType = "OCCUPANCY_APPROVED"
	EventOccupancyRejected  EventType = "OCCUPANCY_REJECTED"
)

// PlacementEvent describes a step in an occupancy's lifecycle.
type PlacementEvent struct {
	ID          uuid.UUID  `json:"id"`
	Type        EventType  `json:"type"`
	OccupancyID uuid.UUID  `json:"occupancy_id"`
	ZoneCellID  uuid.UUID  `json:"zone_cell_id"`
	SellerID    uuid.UUID  `json:"seller_id"`
	StartDate   string     `json:"start_date"`
	EndDate     string     `json:"end_date"`
	Status      string     `json:"status"`
	Decision    string     `json:"decision,omitempty"`
	Reason      string     `json:"reason,omitempty"`
	AdminID     *uuid.UUID `json:"admin_id,omitempty"`
	RecordID    *uuid.UUID `json:"approval_record_id,omitempty"`
	OccurredAt  time.Time  `json:"occurred_at"`
}

func newEvent(eventType EventType, occ *occupancies.Occupancy, at time.Time) *PlacementEvent {
	return &PlacementEvent{
		ID:          uuid.New(),
		Type:        eventType,
		OccupancyID: occ.ID,
		ZoneCellID:  occ.ZoneCellID,
		SellerID:    occ.SellerID,
		StartDate:   dates.Format(occ.StartDate),
		EndDate:     dates.Format(occ.EndDate),
		Status:      occ.ApprovalStatus.String(),
		OccurredAt:  at.UTC(),
	}
}

// NewRequestedEvent builds the event for a freshly admitted occupancy
func NewRequestedEvent(occ *occupancies.Occupancy) *PlacementEvent {
	return newEvent(EventOccupancyRequested, occ, occ.CreatedAt)
}

// NewDecidedEvent builds the event for a terminal decision
func NewDecidedEvent(occ *occupancies.Occupancy, record *approvals.ApprovalRecord) *PlacementEvent {
	eventType := EventOccupancyApproved
	if record.Decision == approvals.DecisionReject {
		eventType = EventOccupancyRejected
	}

	event := newEvent(eventType, occ, record.ProcessedAt)
	event.Decision = record.Decision.String()
	event.Reason = record.Reason
	adminID, recordID := record.AdminID, record.ID
	event.AdminID = &adminID
	event.RecordID = &recordID
	return event
}

// PartitionKey keeps every event of a cell on one partition
func (e *PlacementEvent) PartitionKey() string {
	return e.ZoneCellID.String()
}

// ToJSON converts the event to JSON
func (e *PlacementEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON creates an event from JSON
func EventFromJSON(data []byte) (*PlacementEvent, error) {
	var event PlacementEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
