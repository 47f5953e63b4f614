package approvals

import (
	"time"

	"github.com/google/uuid"
)

type TargetType string

const (
	TargetOccupancy TargetType = "OCCUPANCY"
)

type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"
)

// IsValid checks if the decision is valid
func (d Decision) IsValid() bool {
	return d == DecisionApprove || d == DecisionReject
}

// String returns the string representation of Decision
func (d Decision) String() string {
	return string(d)
}

// ApprovalRecord is one administrative decision. Records are written once
// and never changed.
type ApprovalRecord struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"approval_record_id"`
	TargetType  TargetType `gorm:"type:varchar(20);not null;index:idx_approval_target,priority:1" json:"target_type"`
	TargetID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_approval_target,priority:2" json:"target_id"`
	Decision    Decision   `gorm:"type:varchar(10);check:decision IN ('APPROVE', 'REJECT');not null" json:"decision"`
	Reason      string     `gorm:"type:text" json:"reason,omitempty"`
	AdminID     uuid.UUID  `gorm:"type:uuid;not null" json:"admin_id"`
	ProcessedAt time.Time  `gorm:"not null;index:idx_approval_target,priority:3" json:"processed_at"`
}

// TableName sets the table name for ApprovalRecord
func (ApprovalRecord) TableName() string {
	return "approval_records"
}
