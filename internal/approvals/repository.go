package approvals

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository is append-only: records cannot be updated or deleted.
type Repository interface {
	Append(ctx context.Context, record *ApprovalRecord) error
	ListByTarget(ctx context.Context, targetType TargetType, targetID uuid.UUID) ([]ApprovalRecord, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Append(ctx context.Context, record *ApprovalRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) ListByTarget(ctx context.Context, targetType TargetType, targetID uuid.UUID) ([]ApprovalRecord, error) {
	var records []ApprovalRecord
	err := r.db.WithContext(ctx).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("processed_at ASC, id ASC").
		Find(&records).Error
	return records, err
}
