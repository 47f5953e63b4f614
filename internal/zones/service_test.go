package zones_test

import (
	"context"
	"testing"

	"popupzone/internal/shared/utils/pagination"
	"popupzone/internal/storage/memory"
	"popupzone/internal/zones"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) zones.Service {
	t.Helper()
	return zones.NewService(memory.NewStore().Zones())
}

func TestCreateCellRequiresAvailableArea(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	owner := uuid.New()

	area, err := svc.CreateArea(ctx, zones.CreateAreaRequest{Name: "  Old Town  "})
	require.NoError(t, err)
	assert.Equal(t, "Old Town", area.Name)
	assert.Equal(t, zones.AreaStatusAvailable, area.Status)

	cell, err := svc.CreateCell(ctx, owner, zones.CreateCellRequest{ZoneAreaID: area.ID.String(), Label: "OT-7"})
	require.NoError(t, err)
	assert.Equal(t, zones.CellStatusPending, cell.Status)
	assert.Equal(t, owner, cell.OwnerID)

	for _, status := range []zones.AreaStatus{zones.AreaStatusUnavailable, zones.AreaStatusHidden} {
		require.NoError(t, svc.ChangeAreaStatus(ctx, area.ID, status))
		_, err = svc.CreateCell(ctx, owner, zones.CreateCellRequest{ZoneAreaID: area.ID.String(), Label: "OT-8"})
		assert.ErrorIs(t, err, zones.ErrAreaUnavailable, status)
	}

	_, err = svc.CreateCell(ctx, owner, zones.CreateCellRequest{ZoneAreaID: uuid.NewString(), Label: "nowhere"})
	assert.ErrorIs(t, err, zones.ErrNotFound)

	mine, err := svc.ListMyCells(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestStatusChanges(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	area, err := svc.CreateArea(ctx, zones.CreateAreaRequest{Name: "Docks"})
	require.NoError(t, err)
	cell, err := svc.CreateCell(ctx, uuid.New(), zones.CreateCellRequest{ZoneAreaID: area.ID.String(), Label: "D-1"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangeAreaStatus(ctx, area.ID, "CLOSED"), zones.ErrInvalidStatus)
	assert.ErrorIs(t, svc.ChangeCellStatus(ctx, cell.ID, "GONE"), zones.ErrInvalidStatus)
	assert.ErrorIs(t, svc.ChangeCellStatus(ctx, uuid.New(), zones.CellStatusHidden), zones.ErrNotFound)

	require.NoError(t, svc.ChangeCellStatus(ctx, cell.ID, zones.CellStatusApproved))
	got, err := svc.GetCell(ctx, cell.ID)
	require.NoError(t, err)
	assert.Equal(t, zones.CellStatusApproved, got.Status)
}

func TestListCellsByAreaPaging(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	area, err := svc.CreateArea(ctx, zones.CreateAreaRequest{Name: "Market"})
	require.NoError(t, err)
	for _, label := range []string{"M-1", "M-2", "M-3"} {
		_, err := svc.CreateCell(ctx, uuid.New(), zones.CreateCellRequest{ZoneAreaID: area.ID.String(), Label: label})
		require.NoError(t, err)
	}

	page, err := svc.ListCellsByArea(ctx, area.ID, pagination.Query{Page: 1, Size: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 1)

	_, err = svc.ListCellsByArea(ctx, uuid.New(), pagination.Query{})
	assert.ErrorIs(t, err, zones.ErrNotFound)
}

func TestAddWindow(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	admin := uuid.New()

	area, err := svc.CreateArea(ctx, zones.CreateAreaRequest{Name: "Plaza"})
	require.NoError(t, err)
	cell, err := svc.CreateCell(ctx, uuid.New(), zones.CreateCellRequest{ZoneAreaID: area.ID.String(), Label: "P-1"})
	require.NoError(t, err)

	cellWindow, err := svc.AddWindow(ctx, admin, zones.CreateWindowRequest{
		ZoneCellID: cell.ID.String(), StartDate: "2024-07-01", EndDate: "2024-07-10", Reason: "resurfacing",
	})
	require.NoError(t, err)
	assert.Equal(t, admin, cellWindow.CreatedBy)

	_, err = svc.AddWindow(ctx, admin, zones.CreateWindowRequest{
		ZoneAreaID: area.ID.String(), StartDate: "2024-08-01", EndDate: "2024-08-02",
	})
	require.NoError(t, err)

	windows, err := svc.ListWindows(ctx, cell.ID)
	require.NoError(t, err)
	require.Len(t, windows, 2)
	assert.Equal(t, cellWindow.ID, windows[0].ID)

	_, err = svc.AddWindow(ctx, admin, zones.CreateWindowRequest{
		ZoneCellID: cell.ID.String(), StartDate: "2024-07-10", EndDate: "2024-07-01",
	})
	assert.ErrorIs(t, err, zones.ErrInvalidWindow)

	_, err = svc.AddWindow(ctx, admin, zones.CreateWindowRequest{StartDate: "2024-07-01", EndDate: "2024-07-02"})
	assert.ErrorIs(t, err, zones.ErrInvalidWindow)

	require.NoError(t, svc.RemoveWindow(ctx, cellWindow.ID))
	assert.ErrorIs(t, svc.RemoveWindow(ctx, cellWindow.ID), zones.ErrNotFound)
}
