package ledger

import (
	"context"
	"fmt"
	"time"

	"popupzone/internal/shared/utils/dates"

	"github.com/google/uuid"
)

// Ledger is the authoritative record of which intervals are held on which
// cell. Callers serialize mutations per cell; the ledger itself does not
// lock.
type Ledger interface {
	// Query checks windows first, then held and committed entries.
	Query(ctx context.Context, cellID uuid.UUID, from, to time.Time) (*Availability, error)
	// Conflicts checks committed entries only, ignoring the one owned by
	// exclude. Held siblings do not block a decision.
	Conflicts(ctx context.Context, cellID uuid.UUID, from, to time.Time, exclude uuid.UUID) (*Availability, error)
	Hold(ctx context.Context, cellID, occupancyID uuid.UUID, from, to time.Time) error
	Commit(ctx context.Context, occupancyID uuid.UUID) error
	Release(ctx context.Context, occupancyID uuid.UUID) error
}

type ledger struct {
	store   Store
	windows WindowSource
	now     func() time.Time
}

func New(store Store, windows WindowSource) Ledger {
	return &ledger{
		store:   store,
		windows: windows,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (l *ledger) Query(ctx context.Context, cellID uuid.UUID, from, to time.Time) (*Availability, error) {
	from, to = dates.Normalize(from), dates.Normalize(to)

	windows, err := l.windows.BlockingWindows(ctx, cellID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load availability windows: %w", err)
	}
	for _, w := range windows {
		if w.Covers(from, to) {
			return blockedBy(w.ID), nil
		}
	}

	return l.overlap(ctx, cellID, from, to, uuid.Nil, false)
}

func (l *ledger) Conflicts(ctx context.Context, cellID uuid.UUID, from, to time.Time, exclude uuid.UUID) (*Availability, error) {
	return l.overlap(ctx, cellID, dates.Normalize(from), dates.Normalize(to), exclude, true)
}

func (l *ledger) overlap(ctx context.Context, cellID uuid.UUID, from, to time.Time, exclude uuid.UUID, committedOnly bool) (*Availability, error) {
	entries, err := l.store.ActiveEntries(ctx, cellID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger entries: %w", err)
	}

	if committedOnly {
		kept := entries[:0]
		for _, e := range entries {
			if e.State == StateCommitted {
				kept = append(kept, e)
			}
		}
		entries = kept
	}

	if hit, ok := NewTimeline(entries, exclude).FirstOverlap(from, to); ok {
		return conflictsWith(hit.OccupancyID), nil
	}
	return free(), nil
}

func (l *ledger) Hold(ctx context.Context, cellID, occupancyID uuid.UUID, from, to time.Time) error {
	now := l.now()
	entry := &Entry{
		OccupancyID: occupancyID,
		ZoneCellID:  cellID,
		StartDate:   dates.Normalize(from),
		EndDate:     dates.Normalize(to),
		State:       StateHeld,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := l.store.CreateEntry(ctx, entry); err != nil {
		return fmt.Errorf("failed to hold interval: %w", err)
	}
	return nil
}

func (l *ledger) Commit(ctx context.Context, occupancyID uuid.UUID) error {
	if err := l.store.UpdateEntryState(ctx, occupancyID, StateHeld, StateCommitted); err != nil {
		return fmt.Errorf("failed to commit interval of %s: %w", occupancyID, err)
	}
	return nil
}

func (l *ledger) Release(ctx context.Context, occupancyID uuid.UUID) error {
	if err := l.store.DeleteEntry(ctx, occupancyID); err != nil {
		return fmt.Errorf("failed to release interval of %s: %w", occupancyID, err)
	}
	return nil
}
