package placement

import (
	"errors"
	"fmt"

	"popupzone/pkg/lock"

	"github.com/google/uuid"
)

var (
	ErrInvalidRange       = errors.New("invalid date range")
	ErrCellUnavailable    = errors.New("zone cell is unavailable")
	ErrSchedulingConflict = errors.New("scheduling conflict")
	ErrAlreadyDecided     = errors.New("occupancy has already been decided")
	ErrLockTimeout        = lock.ErrLockTimeout
	ErrNotFound           = errors.New("not found")
	ErrInvalidDecision    = errors.New("invalid decision")
)

// ConflictError names the occupancy whose interval collides with a request.
type ConflictError struct {
	ConflictingID uuid.UUID
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with occupancy %s", ErrSchedulingConflict, e.ConflictingID)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrSchedulingConflict
}

// ConflictingID extracts the id carried by a scheduling conflict.
func ConflictingID(err error) (uuid.UUID, bool) {
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return conflict.ConflictingID, true
	}
	return uuid.Nil, false
}
