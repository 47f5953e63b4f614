package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"popupzone/internal/approvals"
	"popupzone/internal/ledger"
	"popupzone/internal/occupancies"

	"github.com/google/uuid"
)

type occupancyRepository struct {
	a access
}

func (r *occupancyRepository) Create(ctx context.Context, occupancy *occupancies.Occupancy) error {
	return r.a.write(func(d *dataset) error {
		if _, exists := d.occupancies[occupancy.ID]; exists {
			return fmt.Errorf("%w: occupancy %s", ErrDuplicateKey, occupancy.ID)
		}
		if _, ok := d.cells[occupancy.ZoneCellID]; !ok {
			return fmt.Errorf("occupancy %s references missing cell %s", occupancy.ID, occupancy.ZoneCellID)
		}
		stamp(&occupancy.CreatedAt, &occupancy.UpdatedAt)
		d.occupancies[occupancy.ID] = *occupancy
		return nil
	})
}

func (r *occupancyRepository) GetByID(ctx context.Context, id uuid.UUID) (*occupancies.Occupancy, error) {
	var occupancy occupancies.Occupancy
	err := r.a.read(func(d *dataset) error {
		found, ok := d.occupancies[id]
		if !ok {
			return occupancies.ErrNotFound
		}
		occupancy = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &occupancy, nil
}

func (r *occupancyRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*occupancies.Occupancy, error) {
	return r.GetByID(ctx, id)
}

func (r *occupancyRepository) ApplyTransition(ctx context.Context, occupancy *occupancies.Occupancy) error {
	return r.a.write(func(d *dataset) error {
		stored, ok := d.occupancies[occupancy.ID]
		if !ok || stored.ApprovalStatus != occupancies.StatusPending {
			return occupancies.ErrNotPending
		}
		stored.ApprovalStatus = occupancy.ApprovalStatus
		stored.RejectionReason = occupancy.RejectionReason
		stored.DecidedAt = occupancy.DecidedAt
		stored.UpdatedAt = occupancy.UpdatedAt
		d.occupancies[occupancy.ID] = stored
		return nil
	})
}

func byRequestedAsc(x, y occupancies.Occupancy) int {
	if c := x.CreatedAt.Compare(y.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(x.ID.String(), y.ID.String())
}

func (r *occupancyRepository) filter(keep func(o occupancies.Occupancy) bool) ([]occupancies.Occupancy, error) {
	var items []occupancies.Occupancy
	err := r.a.read(func(d *dataset) error {
		for _, o := range d.occupancies {
			if keep(o) {
				items = append(items, o)
			}
		}
		return nil
	})
	return items, err
}

func (r *occupancyRepository) ListPending(ctx context.Context, offset, limit int) ([]occupancies.Occupancy, int64, error) {
	items, err := r.filter(func(o occupancies.Occupancy) bool {
		return o.ApprovalStatus == occupancies.StatusPending
	})
	if err != nil {
		return nil, 0, err
	}

	slices.SortFunc(items, byRequestedAsc)
	return page(items, offset, limit), int64(len(items)), nil
}

func (r *occupancyRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID, offset, limit int) ([]occupancies.Occupancy, int64, error) {
	items, err := r.filter(func(o occupancies.Occupancy) bool {
		return o.SellerID == sellerID
	})
	if err != nil {
		return nil, 0, err
	}

	slices.SortFunc(items, func(x, y occupancies.Occupancy) int {
		if c := y.CreatedAt.Compare(x.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(x.ID.String(), y.ID.String())
	})
	return page(items, offset, limit), int64(len(items)), nil
}

type approvalRepository struct {
	a access
}

func (r *approvalRepository) Append(ctx context.Context, record *approvals.ApprovalRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return r.a.write(func(d *dataset) error {
		for _, existing := range d.records {
			if existing.ID == record.ID {
				return fmt.Errorf("%w: approval record %s", ErrDuplicateKey, record.ID)
			}
		}
		d.records = append(d.records, *record)
		return nil
	})
}

func (r *approvalRepository) ListByTarget(ctx context.Context, targetType approvals.TargetType, targetID uuid.UUID) ([]approvals.ApprovalRecord, error) {
	var records []approvals.ApprovalRecord
	err := r.a.read(func(d *dataset) error {
		for _, rec := range d.records {
			if rec.TargetType == targetType && rec.TargetID == targetID {
				records = append(records, rec)
			}
		}
		return nil
	})

	slices.SortStableFunc(records, func(x, y approvals.ApprovalRecord) int {
		if c := x.ProcessedAt.Compare(y.ProcessedAt); c != 0 {
			return c
		}
		return cmp.Compare(x.ID.String(), y.ID.String())
	})
	return records, err
}

type ledgerStore struct {
	a access
}

func (s *ledgerStore) ActiveEntries(ctx context.Context, cellID uuid.UUID) ([]ledger.Entry, error) {
	var entries []ledger.Entry
	err := s.a.read(func(d *dataset) error {
		for _, e := range d.entries {
			if e.ZoneCellID == cellID {
				entries = append(entries, e)
			}
		}
		return nil
	})

	slices.SortFunc(entries, func(x, y ledger.Entry) int {
		if c := x.StartDate.Compare(y.StartDate); c != 0 {
			return c
		}
		return x.EndDate.Compare(y.EndDate)
	})
	return entries, err
}

func (s *ledgerStore) GetEntry(ctx context.Context, occupancyID uuid.UUID) (*ledger.Entry, error) {
	var entry ledger.Entry
	err := s.a.read(func(d *dataset) error {
		found, ok := d.entries[occupancyID]
		if !ok {
			return ledger.ErrEntryNotFound
		}
		entry = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *ledgerStore) CreateEntry(ctx context.Context, entry *ledger.Entry) error {
	return s.a.write(func(d *dataset) error {
		if _, exists := d.entries[entry.OccupancyID]; exists {
			return fmt.Errorf("%w: ledger entry %s", ErrDuplicateKey, entry.OccupancyID)
		}
		stamp(&entry.CreatedAt, &entry.UpdatedAt)
		d.entries[entry.OccupancyID] = *entry
		return nil
	})
}

func (s *ledgerStore) UpdateEntryState(ctx context.Context, occupancyID uuid.UUID, from, to ledger.State) error {
	return s.a.write(func(d *dataset) error {
		entry, ok := d.entries[occupancyID]
		if !ok || entry.State != from {
			return ledger.ErrEntryNotFound
		}
		entry.State = to
		entry.UpdatedAt = time.Now().UTC()
		d.entries[occupancyID] = entry
		return nil
	})
}

func (s *ledgerStore) DeleteEntry(ctx context.Context, occupancyID uuid.UUID) error {
	return s.a.write(func(d *dataset) error {
		if _, ok := d.entries[occupancyID]; !ok {
			return ledger.ErrEntryNotFound
		}
		delete(d.entries, occupancyID)
		return nil
	})
}
