package zones

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("zone record not found")

type Repository interface {
	// Areas
	CreateArea(ctx context.Context, area *ZoneArea) error
	GetAreaByID(ctx context.Context, id uuid.UUID) (*ZoneArea, error)
	ListAreas(ctx context.Context) ([]ZoneArea, error)
	UpdateAreaStatus(ctx context.Context, id uuid.UUID, status AreaStatus) error

	// Cells
	CreateCell(ctx context.Context, cell *ZoneCell) error
	GetCellByID(ctx context.Context, id uuid.UUID) (*ZoneCell, error)
	LockCell(ctx context.Context, id uuid.UUID) (*ZoneCell, error)
	UpdateCellStatus(ctx context.Context, id uuid.UUID, status CellStatus) error
	ListCellsByArea(ctx context.Context, areaID uuid.UUID, offset, limit int) ([]ZoneCell, int64, error)
	ListCellsByOwner(ctx context.Context, ownerID uuid.UUID) ([]ZoneCell, error)

	// Availability windows
	CreateWindow(ctx context.Context, window *AvailabilityWindow) error
	GetWindowByID(ctx context.Context, id uuid.UUID) (*AvailabilityWindow, error)
	DeleteWindow(ctx context.Context, id uuid.UUID) error
	ListWindowsForCell(ctx context.Context, cellID uuid.UUID) ([]AvailabilityWindow, error)
	BlockingWindows(ctx context.Context, cellID uuid.UUID, from, to time.Time) ([]AvailabilityWindow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (r *repository) CreateArea(ctx context.Context, area *ZoneArea) error {
	return r.db.WithContext(ctx).Create(area).Error
}

func (r *repository) GetAreaByID(ctx context.Context, id uuid.UUID) (*ZoneArea, error) {
	var area ZoneArea
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&area).Error; err != nil {
		return nil, notFound(err)
	}
	return &area, nil
}

func (r *repository) ListAreas(ctx context.Context) ([]ZoneArea, error) {
	var areas []ZoneArea
	err := r.db.WithContext(ctx).Order("name ASC").Find(&areas).Error
	return areas, err
}

func (r *repository) UpdateAreaStatus(ctx context.Context, id uuid.UUID, status AreaStatus) error {
	result := r.db.WithContext(ctx).
		Model(&ZoneArea{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) CreateCell(ctx context.Context, cell *ZoneCell) error {
	return r.db.WithContext(ctx).Create(cell).Error
}

func (r *repository) GetCellByID(ctx context.Context, id uuid.UUID) (*ZoneCell, error) {
	var cell ZoneCell
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&cell).Error; err != nil {
		return nil, notFound(err)
	}
	return &cell, nil
}

// LockCell reads the cell with a row lock held until the surrounding
// transaction ends.
func (r *repository) LockCell(ctx context.Context, id uuid.UUID) (*ZoneCell, error) {
	var cell ZoneCell
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&cell).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &cell, nil
}

func (r *repository) UpdateCellStatus(ctx context.Context, id uuid.UUID, status CellStatus) error {
	result := r.db.WithContext(ctx).
		Model(&ZoneCell{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) ListCellsByArea(ctx context.Context, areaID uuid.UUID, offset, limit int) ([]ZoneCell, int64, error) {
	var cells []ZoneCell
	var totalCount int64

	baseQuery := r.db.WithContext(ctx).
		Model(&ZoneCell{}).
		Where("zone_area_id = ?", areaID)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	err := baseQuery.
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&cells).Error

	return cells, totalCount, err
}

func (r *repository) ListCellsByOwner(ctx context.Context, ownerID uuid.UUID) ([]ZoneCell, error) {
	var cells []ZoneCell
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&cells).Error
	return cells, err
}

func (r *repository) CreateWindow(ctx context.Context, window *AvailabilityWindow) error {
	return r.db.WithContext(ctx).Create(window).Error
}

func (r *repository) GetWindowByID(ctx context.Context, id uuid.UUID) (*AvailabilityWindow, error) {
	var window AvailabilityWindow
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&window).Error; err != nil {
		return nil, notFound(err)
	}
	return &window, nil
}

func (r *repository) DeleteWindow(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&AvailabilityWindow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// windowsForCell scopes a query to the windows of a cell and of its area.
func (r *repository) windowsForCell(ctx context.Context, cellID uuid.UUID) *gorm.DB {
	areaOfCell := r.db.Model(&ZoneCell{}).Select("zone_area_id").Where("id = ?", cellID)
	return r.db.WithContext(ctx).
		Model(&AvailabilityWindow{}).
		Where("zone_cell_id = ? OR zone_area_id IN (?)", cellID, areaOfCell)
}

func (r *repository) ListWindowsForCell(ctx context.Context, cellID uuid.UUID) ([]AvailabilityWindow, error) {
	var windows []AvailabilityWindow
	err := r.windowsForCell(ctx, cellID).
		Order("start_date ASC, end_date ASC").
		Find(&windows).Error
	return windows, err
}

func (r *repository) BlockingWindows(ctx context.Context, cellID uuid.UUID, from, to time.Time) ([]AvailabilityWindow, error) {
	var windows []AvailabilityWindow
	err := r.windowsForCell(ctx, cellID).
		Where("start_date <= ? AND end_date >= ?", to, from).
		Order("start_date ASC").
		Find(&windows).Error
	return windows, err
}
