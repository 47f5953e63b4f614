package zones

type AreaStatus string

const (
	AreaStatusAvailable   AreaStatus = "AVAILABLE"
	AreaStatusUnavailable AreaStatus = "UNAVAILABLE"
	AreaStatusHidden      AreaStatus = "HIDDEN"
)

// IsValid checks if the area status is valid
func (s AreaStatus) IsValid() bool {
	switch s {
	case AreaStatusAvailable, AreaStatusUnavailable, AreaStatusHidden:
		return true
	}
	return false
}

// String returns the string representation of AreaStatus
func (s AreaStatus) String() string {
	return string(s)
}

// AcceptsCells reports whether new cells may be registered in the area
func (s AreaStatus) AcceptsCells() bool {
	return s == AreaStatusAvailable
}

type CellStatus string

const (
	CellStatusPending  CellStatus = "PENDING"
	CellStatusApproved CellStatus = "APPROVED"
	CellStatusRejected CellStatus = "REJECTED"
	CellStatusHidden   CellStatus = "HIDDEN"
)

// IsValid checks if the cell status is valid
func (s CellStatus) IsValid() bool {
	switch s {
	case CellStatusPending, CellStatusApproved, CellStatusRejected, CellStatusHidden:
		return true
	}
	return false
}

// String returns the string representation of CellStatus
func (s CellStatus) String() string {
	return string(s)
}

// IsLeasable reports whether occupancies may be requested on the cell
func (s CellStatus) IsLeasable() bool {
	return s != CellStatusHidden
}
