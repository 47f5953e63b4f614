package memory

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"popupzone/internal/zones"

	"github.com/google/uuid"
)

type zoneRepository struct {
	a access
}

func stamp(created, updated *time.Time) {
	now := time.Now().UTC()
	if created.IsZero() {
		*created = now
	}
	if updated != nil && updated.IsZero() {
		*updated = now
	}
}

func (r *zoneRepository) CreateArea(ctx context.Context, area *zones.ZoneArea) error {
	return r.a.write(func(d *dataset) error {
		if _, exists := d.areas[area.ID]; exists {
			return fmt.Errorf("%w: zone area %s", ErrDuplicateKey, area.ID)
		}
		stamp(&area.CreatedAt, &area.UpdatedAt)
		stored := *area
		stored.Cells = nil
		d.areas[area.ID] = stored
		return nil
	})
}

func (r *zoneRepository) GetAreaByID(ctx context.Context, id uuid.UUID) (*zones.ZoneArea, error) {
	var area zones.ZoneArea
	err := r.a.read(func(d *dataset) error {
		found, ok := d.areas[id]
		if !ok {
			return zones.ErrNotFound
		}
		area = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &area, nil
}

func (r *zoneRepository) ListAreas(ctx context.Context) ([]zones.ZoneArea, error) {
	var areas []zones.ZoneArea
	err := r.a.read(func(d *dataset) error {
		areas = slices.Collect(maps.Values(d.areas))
		return nil
	})
	slices.SortFunc(areas, func(x, y zones.ZoneArea) int {
		return cmp.Compare(x.Name, y.Name)
	})
	return areas, err
}

func (r *zoneRepository) UpdateAreaStatus(ctx context.Context, id uuid.UUID, status zones.AreaStatus) error {
	return r.a.write(func(d *dataset) error {
		area, ok := d.areas[id]
		if !ok {
			return zones.ErrNotFound
		}
		area.Status = status
		area.UpdatedAt = time.Now().UTC()
		d.areas[id] = area
		return nil
	})
}

func (r *zoneRepository) CreateCell(ctx context.Context, cell *zones.ZoneCell) error {
	return r.a.write(func(d *dataset) error {
		if _, exists := d.cells[cell.ID]; exists {
			return fmt.Errorf("%w: zone cell %s", ErrDuplicateKey, cell.ID)
		}
		if _, ok := d.areas[cell.ZoneAreaID]; !ok {
			return fmt.Errorf("zone cell %s references missing area %s", cell.ID, cell.ZoneAreaID)
		}
		stamp(&cell.CreatedAt, &cell.UpdatedAt)
		d.cells[cell.ID] = *cell
		return nil
	})
}

func (r *zoneRepository) GetCellByID(ctx context.Context, id uuid.UUID) (*zones.ZoneCell, error) {
	var cell zones.ZoneCell
	err := r.a.read(func(d *dataset) error {
		found, ok := d.cells[id]
		if !ok {
			return zones.ErrNotFound
		}
		cell = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cell, nil
}

// LockCell is a plain read: writers are already serialized.
func (r *zoneRepository) LockCell(ctx context.Context, id uuid.UUID) (*zones.ZoneCell, error) {
	return r.GetCellByID(ctx, id)
}

func (r *zoneRepository) UpdateCellStatus(ctx context.Context, id uuid.UUID, status zones.CellStatus) error {
	return r.a.write(func(d *dataset) error {
		cell, ok := d.cells[id]
		if !ok {
			return zones.ErrNotFound
		}
		cell.Status = status
		cell.UpdatedAt = time.Now().UTC()
		d.cells[id] = cell
		return nil
	})
}

func byCreatedAsc(x, y zones.ZoneCell) int {
	if c := x.CreatedAt.Compare(y.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(x.ID.String(), y.ID.String())
}

func (r *zoneRepository) ListCellsByArea(ctx context.Context, areaID uuid.UUID, offset, limit int) ([]zones.ZoneCell, int64, error) {
	var cells []zones.ZoneCell
	err := r.a.read(func(d *dataset) error {
		for _, cell := range d.cells {
			if cell.ZoneAreaID == areaID {
				cells = append(cells, cell)
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	slices.SortFunc(cells, byCreatedAsc)
	return page(cells, offset, limit), int64(len(cells)), nil
}

func (r *zoneRepository) ListCellsByOwner(ctx context.Context, ownerID uuid.UUID) ([]zones.ZoneCell, error) {
	var cells []zones.ZoneCell
	err := r.a.read(func(d *dataset) error {
		for _, cell := range d.cells {
			if cell.OwnerID == ownerID {
				cells = append(cells, cell)
			}
		}
		return nil
	})

	slices.SortFunc(cells, func(x, y zones.ZoneCell) int { return -byCreatedAsc(x, y) })
	return cells, err
}

func (r *zoneRepository) CreateWindow(ctx context.Context, window *zones.AvailabilityWindow) error {
	return r.a.write(func(d *dataset) error {
		if _, exists := d.windows[window.ID]; exists {
			return fmt.Errorf("%w: availability window %s", ErrDuplicateKey, window.ID)
		}
		stamp(&window.CreatedAt, nil)
		d.windows[window.ID] = *window
		return nil
	})
}

func (r *zoneRepository) GetWindowByID(ctx context.Context, id uuid.UUID) (*zones.AvailabilityWindow, error) {
	var window zones.AvailabilityWindow
	err := r.a.read(func(d *dataset) error {
		found, ok := d.windows[id]
		if !ok {
			return zones.ErrNotFound
		}
		window = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &window, nil
}

func (r *zoneRepository) DeleteWindow(ctx context.Context, id uuid.UUID) error {
	return r.a.write(func(d *dataset) error {
		if _, ok := d.windows[id]; !ok {
			return zones.ErrNotFound
		}
		delete(d.windows, id)
		return nil
	})
}

// windowsForCell returns the windows set on the cell or on its area.
func windowsForCell(d *dataset, cellID uuid.UUID) []zones.AvailabilityWindow {
	cell, ok := d.cells[cellID]

	var out []zones.AvailabilityWindow
	for _, w := range d.windows {
		switch {
		case w.ZoneCellID != nil && *w.ZoneCellID == cellID:
			out = append(out, w)
		case ok && w.ZoneAreaID != nil && *w.ZoneAreaID == cell.ZoneAreaID:
			out = append(out, w)
		}
	}
	return out
}

func byStart(x, y zones.AvailabilityWindow) int {
	if c := x.StartDate.Compare(y.StartDate); c != 0 {
		return c
	}
	if c := x.EndDate.Compare(y.EndDate); c != 0 {
		return c
	}
	return cmp.Compare(x.ID.String(), y.ID.String())
}

func (r *zoneRepository) ListWindowsForCell(ctx context.Context, cellID uuid.UUID) ([]zones.AvailabilityWindow, error) {
	var windows []zones.AvailabilityWindow
	err := r.a.read(func(d *dataset) error {
		windows = windowsForCell(d, cellID)
		return nil
	})
	slices.SortFunc(windows, byStart)
	return windows, err
}

func (r *zoneRepository) BlockingWindows(ctx context.Context, cellID uuid.UUID, from, to time.Time) ([]zones.AvailabilityWindow, error) {
	var windows []zones.AvailabilityWindow
	err := r.a.read(func(d *dataset) error {
		for _, w := range windowsForCell(d, cellID) {
			if w.Covers(from, to) {
				windows = append(windows, w)
			}
		}
		return nil
	})
	slices.SortFunc(windows, byStart)
	return windows, err
}
