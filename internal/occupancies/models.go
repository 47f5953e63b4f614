package occupancies

import (
	"errors"
	"strings"
	"time"

	"popupzone/internal/approvals"

	"github.com/google/uuid"
)

var (
	ErrNotPending      = errors.New("occupancy is no longer pending")
	ErrInvalidDecision = errors.New("decision must be APPROVE or REJECT")
	ErrReasonRequired  = errors.New("a reason is required to reject")
)

// Occupancy is a seller's request to use a cell over an inclusive date range.
type Occupancy struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SellerID        uuid.UUID  `gorm:"type:uuid;index;not null" json:"seller_id"`
	ZoneCellID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"zone_cell_id"`
	Name            string     `gorm:"type:varchar(150);not null" json:"name"`
	Description     string     `gorm:"type:text" json:"description,omitempty"`
	StartDate       time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate         time.Time  `gorm:"type:date;not null" json:"end_date"`
	ApprovalStatus  Status     `gorm:"type:varchar(20);check:approval_status IN ('PENDING', 'APPROVED', 'REJECTED');default:'PENDING';not null;index" json:"approval_status"`
	RejectionReason string     `gorm:"type:text" json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
}

// TableName sets the table name for Occupancy
func (Occupancy) TableName() string {
	return "occupancies"
}

// Transition moves a pending occupancy to its terminal status and returns
// the audit record that has to be persisted together with the change.
func (o *Occupancy) Transition(decision approvals.Decision, adminID uuid.UUID, reason string, at time.Time) (*approvals.ApprovalRecord, error) {
	if o.ApprovalStatus != StatusPending {
		return nil, ErrNotPending
	}

	reason = strings.TrimSpace(reason)
	switch decision {
	case approvals.DecisionApprove:
		o.ApprovalStatus = StatusApproved
	case approvals.DecisionReject:
		if reason == "" {
			return nil, ErrReasonRequired
		}
		o.ApprovalStatus = StatusRejected
		o.RejectionReason = reason
	default:
		return nil, ErrInvalidDecision
	}

	at = at.UTC()
	o.DecidedAt = &at
	o.UpdatedAt = at

	return &approvals.ApprovalRecord{
		ID:          uuid.New(),
		TargetType:  approvals.TargetOccupancy,
		TargetID:    o.ID,
		Decision:    decision,
		Reason:      reason,
		AdminID:     adminID,
		ProcessedAt: at,
	}, nil
}
