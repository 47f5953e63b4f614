package placement

import (
	"time"

	"popupzone/internal/approvals"
	"popupzone/internal/ledger"
	"popupzone/internal/occupancies"
	"popupzone/internal/shared/utils/dates"
	"popupzone/internal/shared/utils/pagination"
)

const summaryRunes = 100

type OccupancyResponse struct {
	ID              string     `json:"id"`
	SellerID        string     `json:"seller_id"`
	ZoneCellID      string     `json:"zone_cell_id"`
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	StartDate       string     `json:"start_date"`
	EndDate         string     `json:"end_date"`
	ApprovalStatus  string     `json:"approval_status"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
}

func NewOccupancyResponse(o *occupancies.Occupancy) OccupancyResponse {
	return OccupancyResponse{
		ID:              o.ID.String(),
		SellerID:        o.SellerID.String(),
		ZoneCellID:      o.ZoneCellID.String(),
		Name:            o.Name,
		Description:     o.Description,
		StartDate:       dates.Format(o.StartDate),
		EndDate:         dates.Format(o.EndDate),
		ApprovalStatus:  o.ApprovalStatus.String(),
		RejectionReason: o.RejectionReason,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		DecidedAt:       o.DecidedAt,
	}
}

type OccupancyPage struct {
	Items []OccupancyResponse `json:"items"`
	pagination.Meta
}

// PendingItem is one row of the approval queue.
type PendingItem struct {
	ID            string    `json:"id"`
	TargetType    string    `json:"target_type"`
	TargetID      string    `json:"target_id"`
	TargetName    string    `json:"target_name"`
	CurrentStatus string    `json:"current_status"`
	RequesterID   string    `json:"requester_id"`
	RequestedAt   time.Time `json:"requested_at"`
	ZoneCellID    string    `json:"zone_cell_id"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date"`
	Description   string    `json:"description,omitempty"`
}

func NewPendingItem(o *occupancies.Occupancy) PendingItem {
	return PendingItem{
		ID:            o.ID.String(),
		TargetType:    string(approvals.TargetOccupancy),
		TargetID:      o.ID.String(),
		TargetName:    o.Name,
		CurrentStatus: o.ApprovalStatus.String(),
		RequesterID:   o.SellerID.String(),
		RequestedAt:   o.CreatedAt,
		ZoneCellID:    o.ZoneCellID.String(),
		StartDate:     dates.Format(o.StartDate),
		EndDate:       dates.Format(o.EndDate),
		Description:   Summarize(o.Description),
	}
}

type PendingPage struct {
	Items []PendingItem `json:"items"`
	pagination.Meta
}

// Summarize cuts s to its first 100 runes followed by "...".
func Summarize(s string) string {
	runes := []rune(s)
	if len(runes) <= summaryRunes {
		return s
	}
	return string(runes[:summaryRunes]) + "..."
}

type DecisionResponse struct {
	ApprovalRecordID string    `json:"approval_record_id"`
	TargetType       string    `json:"target_type"`
	TargetID         string    `json:"target_id"`
	Decision         string    `json:"decision"`
	Reason           string    `json:"reason,omitempty"`
	ProcessedAt      time.Time `json:"processed_at"`
}

func NewDecisionResponse(r *approvals.ApprovalRecord) DecisionResponse {
	return DecisionResponse{
		ApprovalRecordID: r.ID.String(),
		TargetType:       string(r.TargetType),
		TargetID:         r.TargetID.String(),
		Decision:         r.Decision.String(),
		Reason:           r.Reason,
		ProcessedAt:      r.ProcessedAt,
	}
}

type AvailabilityResponse struct {
	ZoneCellID    string  `json:"zone_cell_id"`
	From          string  `json:"from"`
	To            string  `json:"to"`
	Verdict       string  `json:"verdict"`
	Available     bool    `json:"available"`
	WindowID      *string `json:"window_id,omitempty"`
	ConflictingID *string `json:"conflicting_id,omitempty"`
}

func NewAvailabilityResponse(cellID string, from, to time.Time, a *ledger.Availability) AvailabilityResponse {
	resp := AvailabilityResponse{
		ZoneCellID: cellID,
		From:       dates.Format(from),
		To:         dates.Format(to),
		Verdict:    string(a.Verdict),
		Available:  a.IsFree(),
	}
	if a.WindowID != nil {
		id := a.WindowID.String()
		resp.WindowID = &id
	}
	if a.ConflictingID != nil {
		id := a.ConflictingID.String()
		resp.ConflictingID = &id
	}
	return resp
}
