package placement

type AllocateRequest struct {
	ZoneCellID  string `json:"zone_cell_id" validate:"required,uuid"`
	Name        string `json:"name" validate:"required,min=1,max=150"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	StartDate   string `json:"start_date" validate:"required,civildate"`
	EndDate     string `json:"end_date" validate:"required,civildate"`
}

type ApproveRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=1000"`
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=1000"`
}

// AvailabilityQuery is bound from ?from=&to=
type AvailabilityQuery struct {
	From string `form:"from" validate:"required,civildate"`
	To   string `form:"to" validate:"required,civildate"`
}
