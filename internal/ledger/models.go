package ledger

import (
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle of a held interval.
type State string

const (
	StateHeld      State = "HELD"
	StateCommitted State = "COMMITTED"
)

// IsValid checks if the entry state is valid
func (s State) IsValid() bool {
	switch s {
	case StateHeld, StateCommitted:
		return true
	}
	return false
}

// Entry is one held or committed interval of a cell, keyed by the
// occupancy that owns it.
type Entry struct {
	OccupancyID uuid.UUID `gorm:"type:uuid;primaryKey" json:"occupancy_id"`
	ZoneCellID  uuid.UUID `gorm:"type:uuid;not null;index:idx_ledger_cell_range,priority:1" json:"zone_cell_id"`
	StartDate   time.Time `gorm:"type:date;not null;index:idx_ledger_cell_range,priority:2" json:"start_date"`
	EndDate     time.Time `gorm:"type:date;not null;index:idx_ledger_cell_range,priority:3" json:"end_date"`
	State       State     `gorm:"type:varchar(20);check:state IN ('HELD', 'COMMITTED');not null" json:"state"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName sets the table name for Entry
func (Entry) TableName() string {
	return "ledger_entries"
}

// Verdict is the outcome of an availability query.
type Verdict string

const (
	VerdictFree            Verdict = "FREE"
	VerdictBlockedByWindow Verdict = "BLOCKED_BY_WINDOW"
	VerdictConflictsWith   Verdict = "CONFLICTS_WITH"
)

// Availability answers "is this cell free for this range". WindowID is set
// for BLOCKED_BY_WINDOW and ConflictingID for CONFLICTS_WITH.
type Availability struct {
	Verdict       Verdict    `json:"verdict"`
	WindowID      *uuid.UUID `json:"window_id,omitempty"`
	ConflictingID *uuid.UUID `json:"conflicting_id,omitempty"`
}

// IsFree reports whether nothing blocks the range.
func (a Availability) IsFree() bool {
	return a.Verdict == VerdictFree
}

func free() *Availability {
	return &Availability{Verdict: VerdictFree}
}

func blockedBy(windowID uuid.UUID) *Availability {
	return &Availability{Verdict: VerdictBlockedByWindow, WindowID: &windowID}
}

func conflictsWith(occupancyID uuid.UUID) *Availability {
	return &Availability{Verdict: VerdictConflictsWith, ConflictingID: &occupancyID}
}
