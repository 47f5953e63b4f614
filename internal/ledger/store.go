package ledger

import (
	"context"
	"errors"
	"time"

	"popupzone/internal/zones"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrEntryNotFound = errors.New("ledger entry not found")

// Store persists ledger entries.
type Store interface {
	ActiveEntries(ctx context.Context, cellID uuid.UUID) ([]Entry, error)
	GetEntry(ctx context.Context, occupancyID uuid.UUID) (*Entry, error)
	CreateEntry(ctx context.Context, entry *Entry) error
	UpdateEntryState(ctx context.Context, occupancyID uuid.UUID, from, to State) error
	DeleteEntry(ctx context.Context, occupancyID uuid.UUID) error
}

// WindowSource yields the availability windows blocking a cell.
type WindowSource interface {
	BlockingWindows(ctx context.Context, cellID uuid.UUID, from, to time.Time) ([]zones.AvailabilityWindow, error)
}

type store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (s *store) ActiveEntries(ctx context.Context, cellID uuid.UUID) ([]Entry, error) {
	var entries []Entry
	err := s.db.WithContext(ctx).
		Where("zone_cell_id = ?", cellID).
		Order("start_date ASC, end_date ASC").
		Find(&entries).Error
	return entries, err
}

func (s *store) GetEntry(ctx context.Context, occupancyID uuid.UUID) (*Entry, error) {
	var entry Entry
	err := s.db.WithContext(ctx).Where("occupancy_id = ?", occupancyID).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (s *store) CreateEntry(ctx context.Context, entry *Entry) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

// UpdateEntryState moves an entry from one state to another; an entry that
// is missing or not in the expected state is reported as not found.
func (s *store) UpdateEntryState(ctx context.Context, occupancyID uuid.UUID, from, to State) error {
	result := s.db.WithContext(ctx).
		Model(&Entry{}).
		Where("occupancy_id = ? AND state = ?", occupancyID, from).
		Updates(map[string]interface{}{
			"state":      to,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (s *store) DeleteEntry(ctx context.Context, occupancyID uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("occupancy_id = ?", occupancyID).Delete(&Entry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}
