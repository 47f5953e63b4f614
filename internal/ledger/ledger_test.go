package ledger

import (
	"context"
	"testing"
	"time"

	"popupzone/internal/shared/utils/dates"
	"popupzone/internal/zones"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	entries map[uuid.UUID]Entry
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: make(map[uuid.UUID]Entry)}
}

func (f *fakeStore) ActiveEntries(ctx context.Context, cellID uuid.UUID) ([]Entry, error) {
	var out []Entry
	for _, e := range f.entries {
		if e.ZoneCellID == cellID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) GetEntry(ctx context.Context, occupancyID uuid.UUID) (*Entry, error) {
	e, ok := f.entries[occupancyID]
	if !ok {
		return nil, ErrEntryNotFound
	}
	return &e, nil
}

func (f *fakeStore) CreateEntry(ctx context.Context, entry *Entry) error {
	f.entries[entry.OccupancyID] = *entry
	return nil
}

func (f *fakeStore) UpdateEntryState(ctx context.Context, occupancyID uuid.UUID, from, to State) error {
	e, ok := f.entries[occupancyID]
	if !ok || e.State != from {
		return ErrEntryNotFound
	}
	e.State = to
	f.entries[occupancyID] = e
	return nil
}

func (f *fakeStore) DeleteEntry(ctx context.Context, occupancyID uuid.UUID) error {
	if _, ok := f.entries[occupancyID]; !ok {
		return ErrEntryNotFound
	}
	delete(f.entries, occupancyID)
	return nil
}

type fakeWindows []zones.AvailabilityWindow

func (f fakeWindows) BlockingWindows(ctx context.Context, cellID uuid.UUID, from, to time.Time) ([]zones.AvailabilityWindow, error) {
	var out []zones.AvailabilityWindow
	for _, w := range f {
		if w.ZoneCellID != nil && *w.ZoneCellID == cellID && w.Covers(from, to) {
			out = append(out, w)
		}
	}
	return out, nil
}

func d(s string) time.Time { return dates.MustParse(s) }

func TestLedger_QueryOrder(t *testing.T) {
	ctx := context.Background()
	cell := uuid.New()
	window := zones.AvailabilityWindow{ID: uuid.New(), ZoneCellID: &cell, StartDate: d("2024-07-01"), EndDate: d("2024-07-10")}

	store := newFakeStore()
	l := New(store, fakeWindows{window})

	occ := uuid.New()
	require.NoError(t, l.Hold(ctx, cell, occ, d("2024-07-08"), d("2024-07-15")))

	// window wins over the overlapping entry
	av, err := l.Query(ctx, cell, d("2024-07-09"), d("2024-07-12"))
	require.NoError(t, err)
	assert.Equal(t, VerdictBlockedByWindow, av.Verdict)
	require.NotNil(t, av.WindowID)
	assert.Equal(t, window.ID, *av.WindowID)

	av, err = l.Query(ctx, cell, d("2024-07-11"), d("2024-07-12"))
	require.NoError(t, err)
	assert.Equal(t, VerdictConflictsWith, av.Verdict)
	require.NotNil(t, av.ConflictingID)
	assert.Equal(t, occ, *av.ConflictingID)

	av, err = l.Query(ctx, cell, d("2024-07-16"), d("2024-07-20"))
	require.NoError(t, err)
	assert.True(t, av.IsFree())

	// other cells are unaffected
	av, err = l.Query(ctx, uuid.New(), d("2024-07-01"), d("2024-07-31"))
	require.NoError(t, err)
	assert.True(t, av.IsFree())
}

func TestLedger_ConflictsOnlySeesCommitted(t *testing.T) {
	ctx := context.Background()
	cell := uuid.New()
	l := New(newFakeStore(), fakeWindows{})

	first, second := uuid.New(), uuid.New()
	require.NoError(t, l.Hold(ctx, cell, first, d("2024-07-01"), d("2024-07-05")))
	require.NoError(t, l.Hold(ctx, cell, second, d("2024-07-04"), d("2024-07-06")))

	// held siblings do not block a decision
	av, err := l.Conflicts(ctx, cell, d("2024-07-01"), d("2024-07-05"), first)
	require.NoError(t, err)
	assert.True(t, av.IsFree())

	require.NoError(t, l.Commit(ctx, second))

	av, err = l.Conflicts(ctx, cell, d("2024-07-01"), d("2024-07-05"), first)
	require.NoError(t, err)
	assert.Equal(t, VerdictConflictsWith, av.Verdict)
	assert.Equal(t, second, *av.ConflictingID)

	// the target's own entry never conflicts with itself
	require.NoError(t, l.Commit(ctx, first))
	av, err = l.Conflicts(ctx, cell, d("2024-07-01"), d("2024-07-03"), first)
	require.NoError(t, err)
	assert.True(t, av.IsFree())

	// Query still sees held and committed entries alike
	av, err = l.Query(ctx, cell, d("2024-07-06"), d("2024-07-06"))
	require.NoError(t, err)
	assert.Equal(t, second, *av.ConflictingID)
}

func TestLedger_CommitAndRelease(t *testing.T) {
	ctx := context.Background()
	cell := uuid.New()
	store := newFakeStore()
	l := New(store, fakeWindows{})

	occ := uuid.New()
	require.NoError(t, l.Hold(ctx, cell, occ, d("2024-07-11"), d("2024-07-15")))

	require.NoError(t, l.Commit(ctx, occ))
	e, err := store.GetEntry(ctx, occ)
	require.NoError(t, err)
	assert.Equal(t, StateCommitted, e.State)

	// committed intervals still block
	av, err := l.Query(ctx, cell, d("2024-07-13"), d("2024-07-14"))
	require.NoError(t, err)
	assert.Equal(t, occ, *av.ConflictingID)

	// a committed entry cannot be committed again
	assert.ErrorIs(t, l.Commit(ctx, occ), ErrEntryNotFound)

	require.NoError(t, l.Release(ctx, occ))
	assert.ErrorIs(t, l.Release(ctx, occ), ErrEntryNotFound)

	av, err = l.Query(ctx, cell, d("2024-07-13"), d("2024-07-14"))
	require.NoError(t, err)
	assert.True(t, av.IsFree())
}

func TestLedger_HoldNormalizesDates(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	l := New(store, fakeWindows{})

	occ := uuid.New()
	kst := time.FixedZone("KST", 9*3600)
	require.NoError(t, l.Hold(ctx, uuid.New(), occ,
		time.Date(2024, 7, 11, 18, 0, 0, 0, kst),
		time.Date(2024, 7, 15, 9, 0, 0, 0, kst)))

	e, err := store.GetEntry(ctx, occ)
	require.NoError(t, err)
	assert.Equal(t, d("2024-07-11"), e.StartDate)
	assert.Equal(t, d("2024-07-15"), e.EndDate)
	assert.Equal(t, StateHeld, e.State)
}
