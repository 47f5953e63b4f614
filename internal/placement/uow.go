package placement

import (
	"context"

	"popupzone/internal/approvals"
	"popupzone/internal/ledger"
	"popupzone/internal/occupancies"
	"popupzone/internal/zones"

	"gorm.io/gorm"
)

// Repos bundles the repositories a placement operation works with. All of
// them share one transaction when handed out by UnitOfWork.Within.
type Repos struct {
	Cells       zones.Repository
	Occupancies occupancies.Repository
	Approvals   approvals.Repository
	Ledger      ledger.Ledger
}

// UnitOfWork runs fn atomically: every write made through the given Repos
// is committed when fn returns nil and discarded otherwise.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error
	// Repos returns repositories outside of any transaction, for reads.
	Repos() Repos
}

type gormUnitOfWork struct {
	db *gorm.DB
}

func NewGormUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func reposFor(db *gorm.DB) Repos {
	cells := zones.NewRepository(db)
	return Repos{
		Cells:       cells,
		Occupancies: occupancies.NewRepository(db),
		Approvals:   approvals.NewRepository(db),
		Ledger:      ledger.New(ledger.NewStore(db), cells),
	}
}

func (u *gormUnitOfWork) Within(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, reposFor(tx))
	})
}

func (u *gormUnitOfWork) Repos() Repos {
	return reposFor(u.db)
}
