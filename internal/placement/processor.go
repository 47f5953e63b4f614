package placement

import (
	"context"
	"fmt"
	"strings"
	"time"

	"popupzone/internal/ledger"
	"popupzone/internal/notifications"
	"popupzone/internal/occupancies"
	"popupzone/internal/shared/utils/dates"

	"github.com/google/uuid"
)

const DefaultMaxSpanDays = 180

// Policy bounds the ranges sellers may request.
type Policy struct {
	MaxSpanDays     int
	RejectPastDates bool
}

func DefaultPolicy() Policy {
	return Policy{MaxSpanDays: DefaultMaxSpanDays, RejectPastDates: true}
}

func (p Policy) withDefaults() Policy {
	if p.MaxSpanDays <= 0 {
		p.MaxSpanDays = DefaultMaxSpanDays
	}
	return p
}

// Validate checks an inclusive range against the policy. today is the
// current civil date.
func (p Policy) Validate(from, to, today time.Time) error {
	from, to = dates.Normalize(from), dates.Normalize(to)

	if from.After(to) {
		return fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange, dates.Format(from), dates.Format(to))
	}
	if span := dates.SpanDays(from, to); span > p.MaxSpanDays {
		return fmt.Errorf("%w: %d days exceeds the maximum of %d", ErrInvalidRange, span, p.MaxSpanDays)
	}
	if p.RejectPastDates && from.Before(dates.Normalize(today)) {
		return fmt.Errorf("%w: start %s is in the past", ErrInvalidRange, dates.Format(from))
	}
	return nil
}

type AllocateInput struct {
	SellerID    uuid.UUID
	CellID      uuid.UUID
	Name        string
	Description string
	From        time.Time
	To          time.Time
}

// Allocate admits a new PENDING occupancy when the cell is free over the
// requested range.
func (s *service) Allocate(ctx context.Context, in AllocateInput) (*occupancies.Occupancy, error) {
	from, to := dates.Normalize(in.From), dates.Normalize(in.To)
	if err := s.policy.Validate(from, to, s.now()); err != nil {
		return nil, err
	}

	var created *occupancies.Occupancy
	err := s.locker.WithLock(ctx, cellKey(in.CellID), func(ctx context.Context) error {
		return s.uow.Within(ctx, func(ctx context.Context, repos Repos) error {
			cell, err := repos.Cells.LockCell(ctx, in.CellID)
			if err != nil {
				return notFound(err, "zone cell", in.CellID)
			}
			if !cell.Status.IsLeasable() {
				return fmt.Errorf("%w: cell %s is %s", ErrCellUnavailable, cell.ID, cell.Status)
			}

			area, err := repos.Cells.GetAreaByID(ctx, cell.ZoneAreaID)
			if err != nil {
				return notFound(err, "zone area", cell.ZoneAreaID)
			}
			if !area.Status.AcceptsCells() {
				return fmt.Errorf("%w: area %s is %s", ErrCellUnavailable, area.ID, area.Status)
			}

			availability, err := repos.Ledger.Query(ctx, cell.ID, from, to)
			if err != nil {
				return fmt.Errorf("failed to query availability: %w", err)
			}
			switch availability.Verdict {
			case ledger.VerdictBlockedByWindow:
				return fmt.Errorf("%w: blocked by availability window %s", ErrCellUnavailable, *availability.WindowID)
			case ledger.VerdictConflictsWith:
				return &ConflictError{ConflictingID: *availability.ConflictingID}
			}

			now := s.now()
			occ := &occupancies.Occupancy{
				ID:             uuid.New(),
				SellerID:       in.SellerID,
				ZoneCellID:     cell.ID,
				Name:           strings.TrimSpace(in.Name),
				Description:    in.Description,
				StartDate:      from,
				EndDate:        to,
				ApprovalStatus: occupancies.StatusPending,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := repos.Occupancies.Create(ctx, occ); err != nil {
				return fmt.Errorf("failed to create occupancy: %w", err)
			}
			if err := repos.Ledger.Hold(ctx, cell.ID, occ.ID, from, to); err != nil {
				return err
			}

			created = occ
			return nil
		})
	})
	if err != nil {
		s.lockFailed(ctx, in.CellID, err)
		return nil, err
	}

	s.afterCommit(ctx, notifications.NewRequestedEvent(created))
	s.log.LogOccupancyRequested(ctx, created.ID.String(), created.ZoneCellID.String(), created.SellerID.String())
	return created, nil
}
