package occupancies

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("occupancy not found")

type Repository interface {
	Create(ctx context.Context, occupancy *Occupancy) error
	GetByID(ctx context.Context, id uuid.UUID) (*Occupancy, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*Occupancy, error)

	// ApplyTransition persists a status change produced by Transition. It
	// only touches rows that are still PENDING and reports ErrNotPending
	// otherwise.
	ApplyTransition(ctx context.Context, occupancy *Occupancy) error

	ListPending(ctx context.Context, offset, limit int) ([]Occupancy, int64, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, offset, limit int) ([]Occupancy, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, occupancy *Occupancy) error {
	return r.db.WithContext(ctx).Create(occupancy).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Occupancy, error) {
	var occupancy Occupancy
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&occupancy).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &occupancy, nil
}

func (r *repository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*Occupancy, error) {
	var occupancy Occupancy
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&occupancy).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &occupancy, nil
}

func (r *repository) ApplyTransition(ctx context.Context, occupancy *Occupancy) error {
	result := r.db.WithContext(ctx).
		Model(&Occupancy{}).
		Where("id = ? AND approval_status = ?", occupancy.ID, StatusPending).
		Updates(map[string]interface{}{
			"approval_status":  occupancy.ApprovalStatus,
			"rejection_reason": occupancy.RejectionReason,
			"decided_at":       occupancy.DecidedAt,
			"updated_at":       occupancy.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotPending
	}
	return nil
}

func (r *repository) ListPending(ctx context.Context, offset, limit int) ([]Occupancy, int64, error) {
	var items []Occupancy
	var totalCount int64

	baseQuery := r.db.WithContext(ctx).
		Model(&Occupancy{}).
		Where("approval_status = ?", StatusPending)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	err := baseQuery.
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error

	return items, totalCount, err
}

func (r *repository) ListBySeller(ctx context.Context, sellerID uuid.UUID, offset, limit int) ([]Occupancy, int64, error) {
	var items []Occupancy
	var totalCount int64

	baseQuery := r.db.WithContext(ctx).
		Model(&Occupancy{}).
		Where("seller_id = ?", sellerID)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	err := baseQuery.
		Order("created_at DESC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error

	return items, totalCount, err
}
