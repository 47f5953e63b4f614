package occupancies

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// IsValid checks if the approval status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal checks if no further transition is possible
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// HoldsInterval checks if an occupancy in this status keeps its dates reserved
func (s Status) HoldsInterval() bool {
	return s == StatusPending || s == StatusApproved
}
