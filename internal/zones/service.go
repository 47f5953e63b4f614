package zones

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"popupzone/internal/shared/utils/dates"
	"popupzone/internal/shared/utils/pagination"

	"github.com/google/uuid"
)

var (
	ErrAreaUnavailable = errors.New("zone area does not accept new cells")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidWindow   = errors.New("invalid availability window")
)

type Service interface {
	// Areas
	CreateArea(ctx context.Context, req CreateAreaRequest) (*ZoneArea, error)
	GetArea(ctx context.Context, id uuid.UUID) (*ZoneArea, error)
	ListAreas(ctx context.Context) ([]ZoneArea, error)
	ChangeAreaStatus(ctx context.Context, id uuid.UUID, status AreaStatus) error

	// Cells
	CreateCell(ctx context.Context, ownerID uuid.UUID, req CreateCellRequest) (*ZoneCell, error)
	GetCell(ctx context.Context, id uuid.UUID) (*ZoneCell, error)
	ListCellsByArea(ctx context.Context, areaID uuid.UUID, query pagination.Query) (*CellPage, error)
	ListMyCells(ctx context.Context, ownerID uuid.UUID) ([]ZoneCell, error)
	ChangeCellStatus(ctx context.Context, id uuid.UUID, status CellStatus) error

	// Availability windows
	AddWindow(ctx context.Context, adminID uuid.UUID, req CreateWindowRequest) (*AvailabilityWindow, error)
	ListWindows(ctx context.Context, cellID uuid.UUID) ([]AvailabilityWindow, error)
	RemoveWindow(ctx context.Context, id uuid.UUID) error
}

// CellPage is a page of cells of one area.
type CellPage struct {
	Items []ZoneCell `json:"items"`
	pagination.Meta
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) CreateArea(ctx context.Context, req CreateAreaRequest) (*ZoneArea, error) {
	now := s.now()
	area := &ZoneArea{
		ID:             uuid.New(),
		RegionID:       req.RegionID,
		Name:           strings.TrimSpace(req.Name),
		PolygonGeoJSON: req.PolygonGeoJSON,
		Status:         AreaStatusAvailable,
		MaxCapacity:    req.MaxCapacity,
		Notice:         req.Notice,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.CreateArea(ctx, area); err != nil {
		return nil, fmt.Errorf("failed to create zone area: %w", err)
	}
	return area, nil
}

func (s *service) GetArea(ctx context.Context, id uuid.UUID) (*ZoneArea, error) {
	area, err := s.repo.GetAreaByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get zone area: %w", err)
	}
	return area, nil
}

func (s *service) ListAreas(ctx context.Context) ([]ZoneArea, error) {
	areas, err := s.repo.ListAreas(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list zone areas: %w", err)
	}
	return areas, nil
}

func (s *service) ChangeAreaStatus(ctx context.Context, id uuid.UUID, status AreaStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	if err := s.repo.UpdateAreaStatus(ctx, id, status); err != nil {
		return fmt.Errorf("failed to change zone area status: %w", err)
	}
	return nil
}

func (s *service) CreateCell(ctx context.Context, ownerID uuid.UUID, req CreateCellRequest) (*ZoneCell, error) {
	areaID, err := uuid.Parse(req.ZoneAreaID)
	if err != nil {
		return nil, fmt.Errorf("invalid zone area id: %w", err)
	}

	area, err := s.repo.GetAreaByID(ctx, areaID)
	if err != nil {
		return nil, fmt.Errorf("failed to get zone area: %w", err)
	}
	if !area.Status.AcceptsCells() {
		return nil, fmt.Errorf("%w: area %s is %s", ErrAreaUnavailable, area.ID, area.Status)
	}

	now := s.now()
	cell := &ZoneCell{
		ID:              uuid.New(),
		ZoneAreaID:      area.ID,
		OwnerID:         ownerID,
		Label:           strings.TrimSpace(req.Label),
		DetailedAddress: req.DetailedAddress,
		Lat:             req.Lat,
		Lng:             req.Lng,
		Status:          CellStatusPending,
		MaxCapacity:     req.MaxCapacity,
		Notice:          req.Notice,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.CreateCell(ctx, cell); err != nil {
		return nil, fmt.Errorf("failed to create zone cell: %w", err)
	}
	return cell, nil
}

func (s *service) GetCell(ctx context.Context, id uuid.UUID) (*ZoneCell, error) {
	cell, err := s.repo.GetCellByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get zone cell: %w", err)
	}
	return cell, nil
}

func (s *service) ListCellsByArea(ctx context.Context, areaID uuid.UUID, query pagination.Query) (*CellPage, error) {
	query = query.Normalize()

	if _, err := s.repo.GetAreaByID(ctx, areaID); err != nil {
		return nil, fmt.Errorf("failed to get zone area: %w", err)
	}

	cells, total, err := s.repo.ListCellsByArea(ctx, areaID, query.Offset(), query.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to list zone cells: %w", err)
	}

	if cells == nil {
		cells = []ZoneCell{}
	}
	return &CellPage{Items: cells, Meta: pagination.NewMeta(query, total)}, nil
}

func (s *service) ListMyCells(ctx context.Context, ownerID uuid.UUID) ([]ZoneCell, error) {
	cells, err := s.repo.ListCellsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owner cells: %w", err)
	}
	return cells, nil
}

func (s *service) ChangeCellStatus(ctx context.Context, id uuid.UUID, status CellStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	if err := s.repo.UpdateCellStatus(ctx, id, status); err != nil {
		return fmt.Errorf("failed to change zone cell status: %w", err)
	}
	return nil
}

func (s *service) AddWindow(ctx context.Context, adminID uuid.UUID, req CreateWindowRequest) (*AvailabilityWindow, error) {
	start, err := dates.Parse(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWindow, err)
	}
	end, err := dates.Parse(req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWindow, err)
	}
	if start.After(end) {
		return nil, fmt.Errorf("%w: start %s is after end %s", ErrInvalidWindow, req.StartDate, req.EndDate)
	}

	window := &AvailabilityWindow{
		ID:        uuid.New(),
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
		CreatedBy: adminID,
		CreatedAt: s.now(),
	}

	switch {
	case req.ZoneCellID != "" && req.ZoneAreaID == "":
		cellID, err := uuid.Parse(req.ZoneCellID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid zone cell id", ErrInvalidWindow)
		}
		if _, err := s.repo.GetCellByID(ctx, cellID); err != nil {
			return nil, fmt.Errorf("failed to get zone cell: %w", err)
		}
		window.ZoneCellID = &cellID
	case req.ZoneAreaID != "" && req.ZoneCellID == "":
		areaID, err := uuid.Parse(req.ZoneAreaID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid zone area id", ErrInvalidWindow)
		}
		if _, err := s.repo.GetAreaByID(ctx, areaID); err != nil {
			return nil, fmt.Errorf("failed to get zone area: %w", err)
		}
		window.ZoneAreaID = &areaID
	default:
		return nil, fmt.Errorf("%w: exactly one of zone_area_id and zone_cell_id is required", ErrInvalidWindow)
	}

	if err := s.repo.CreateWindow(ctx, window); err != nil {
		return nil, fmt.Errorf("failed to create availability window: %w", err)
	}
	return window, nil
}

func (s *service) ListWindows(ctx context.Context, cellID uuid.UUID) ([]AvailabilityWindow, error) {
	if _, err := s.repo.GetCellByID(ctx, cellID); err != nil {
		return nil, fmt.Errorf("failed to get zone cell: %w", err)
	}

	windows, err := s.repo.ListWindowsForCell(ctx, cellID)
	if err != nil {
		return nil, fmt.Errorf("failed to list availability windows: %w", err)
	}
	return windows, nil
}

func (s *service) RemoveWindow(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteWindow(ctx, id); err != nil {
		return fmt.Errorf("failed to remove availability window: %w", err)
	}
	return nil
}
