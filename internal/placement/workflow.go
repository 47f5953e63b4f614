package placement

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"popupzone/internal/approvals"
	"popupzone/internal/notifications"
	"popupzone/internal/occupancies"

	"github.com/google/uuid"
)

type DecideInput struct {
	OccupancyID uuid.UUID
	AdminID     uuid.UUID
	Decision    approvals.Decision
	Reason      string
}

func (in DecideInput) validate() error {
	if !in.Decision.IsValid() {
		return fmt.Errorf("%w: %q is not APPROVE or REJECT", ErrInvalidDecision, in.Decision)
	}
	if in.Decision == approvals.DecisionReject && strings.TrimSpace(in.Reason) == "" {
		return fmt.Errorf("%w: a reason is required to reject", ErrInvalidDecision)
	}
	return nil
}

// Decide moves a PENDING occupancy to APPROVED or REJECTED and records the
// decision. Overlapping pending siblings are left untouched on approval;
// approving one of them later fails with a scheduling conflict.
func (s *service) Decide(ctx context.Context, in DecideInput) (*approvals.ApprovalRecord, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	// the cell is needed to pick the lock, so read once before locking
	current, err := s.uow.Repos().Occupancies.GetByID(ctx, in.OccupancyID)
	if err != nil {
		return nil, notFound(err, "occupancy", in.OccupancyID)
	}

	var (
		decided *occupancies.Occupancy
		record  *approvals.ApprovalRecord
	)
	err = s.locker.WithLock(ctx, cellKey(current.ZoneCellID), func(ctx context.Context) error {
		return s.uow.Within(ctx, func(ctx context.Context, repos Repos) error {
			occ, err := repos.Occupancies.GetByIDForUpdate(ctx, in.OccupancyID)
			if err != nil {
				return notFound(err, "occupancy", in.OccupancyID)
			}
			if occ.ApprovalStatus != occupancies.StatusPending {
				return fmt.Errorf("%w: occupancy %s is %s", ErrAlreadyDecided, occ.ID, occ.ApprovalStatus)
			}

			if in.Decision == approvals.DecisionApprove {
				availability, err := repos.Ledger.Conflicts(ctx, occ.ZoneCellID, occ.StartDate, occ.EndDate, occ.ID)
				if err != nil {
					return fmt.Errorf("failed to check conflicts: %w", err)
				}
				if !availability.IsFree() {
					return &ConflictError{ConflictingID: *availability.ConflictingID}
				}
			}

			rec, err := occ.Transition(in.Decision, in.AdminID, in.Reason, s.now())
			if err != nil {
				return transitionError(err)
			}
			if err := repos.Occupancies.ApplyTransition(ctx, occ); err != nil {
				return transitionError(err)
			}

			if in.Decision == approvals.DecisionApprove {
				err = repos.Ledger.Commit(ctx, occ.ID)
			} else {
				err = repos.Ledger.Release(ctx, occ.ID)
			}
			if err != nil {
				return err
			}

			if err := repos.Approvals.Append(ctx, rec); err != nil {
				return fmt.Errorf("failed to append approval record: %w", err)
			}

			decided, record = occ, rec
			return nil
		})
	})
	if err != nil {
		s.lockFailed(ctx, current.ZoneCellID, err)
		return nil, err
	}

	s.afterCommit(ctx, notifications.NewDecidedEvent(decided, record))
	s.log.LogOccupancyDecided(ctx, decided.ID.String(), record.Decision.String(), record.AdminID.String())
	return record, nil
}

func transitionError(err error) error {
	switch {
	case errors.Is(err, occupancies.ErrNotPending):
		return fmt.Errorf("%w: %v", ErrAlreadyDecided, err)
	case errors.Is(err, occupancies.ErrInvalidDecision), errors.Is(err, occupancies.ErrReasonRequired):
		return fmt.Errorf("%w: %v", ErrInvalidDecision, err)
	default:
		return fmt.Errorf("failed to apply decision: %w", err)
	}
}
