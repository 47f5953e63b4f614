// Package memory keeps all placement state in process. It backs tests and
// the STORAGE_DRIVER=memory mode and implements the same unit of work as the
// gorm repositories.
//
// Writers are serialized. A unit of work runs against a private copy of the
// dataset which replaces the shared one only when the work succeeds, so a
// failed unit leaves nothing behind. Readers see the last committed copy.
package memory

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"

	"popupzone/internal/approvals"
	"popupzone/internal/ledger"
	"popupzone/internal/occupancies"
	"popupzone/internal/placement"
	"popupzone/internal/zones"

	"github.com/google/uuid"
)

var ErrDuplicateKey = errors.New("duplicate key")

type dataset struct {
	areas       map[uuid.UUID]zones.ZoneArea
	cells       map[uuid.UUID]zones.ZoneCell
	windows     map[uuid.UUID]zones.AvailabilityWindow
	occupancies map[uuid.UUID]occupancies.Occupancy
	entries     map[uuid.UUID]ledger.Entry
	records     []approvals.ApprovalRecord
}

func newDataset() *dataset {
	return &dataset{
		areas:       make(map[uuid.UUID]zones.ZoneArea),
		cells:       make(map[uuid.UUID]zones.ZoneCell),
		windows:     make(map[uuid.UUID]zones.AvailabilityWindow),
		occupancies: make(map[uuid.UUID]occupancies.Occupancy),
		entries:     make(map[uuid.UUID]ledger.Entry),
	}
}

// clone copies the maps. Rows are values and are replaced, never mutated
// in place, so sharing their pointer fields is safe.
func (d *dataset) clone() *dataset {
	return &dataset{
		areas:       maps.Clone(d.areas),
		cells:       maps.Clone(d.cells),
		windows:     maps.Clone(d.windows),
		occupancies: maps.Clone(d.occupancies),
		entries:     maps.Clone(d.entries),
		records:     slices.Clone(d.records),
	}
}

// access hands a dataset to repository code.
type access interface {
	read(fn func(d *dataset) error) error
	write(fn func(d *dataset) error) error
}

// Store is safe for concurrent use.
type Store struct {
	txMu sync.Mutex

	mu   sync.RWMutex
	data *dataset
}

func NewStore() *Store {
	return &Store{data: newDataset()}
}

// commit runs fn on a copy of the dataset and publishes the copy if fn
// succeeds.
func (s *Store) commit(fn func(d *dataset) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	next := s.data.clone()
	s.mu.RUnlock()

	if err := fn(next); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = next
	s.mu.Unlock()
	return nil
}

func (s *Store) read(fn func(d *dataset) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

func (s *Store) write(fn func(d *dataset) error) error {
	return s.commit(fn)
}

// txAccess is the view given to a running unit of work. It is owned by a
// single goroutine.
type txAccess struct {
	d *dataset
}

func (t txAccess) read(fn func(d *dataset) error) error  { return fn(t.d) }
func (t txAccess) write(fn func(d *dataset) error) error { return fn(t.d) }

func reposFor(a access) placement.Repos {
	cells := &zoneRepository{a: a}
	return placement.Repos{
		Cells:       cells,
		Occupancies: &occupancyRepository{a: a},
		Approvals:   &approvalRepository{a: a},
		Ledger:      ledger.New(&ledgerStore{a: a}, cells),
	}
}

// Within runs fn as one unit of work. Units do not nest.
func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, repos placement.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.commit(func(d *dataset) error {
		return fn(ctx, reposFor(txAccess{d: d}))
	})
}

// Repos returns repositories that commit every write on its own.
func (s *Store) Repos() placement.Repos {
	return reposFor(s)
}

// Zones returns the zone repository for zone administration.
func (s *Store) Zones() zones.Repository {
	return &zoneRepository{a: s}
}

var _ placement.UnitOfWork = (*Store)(nil)

// page slices sorted rows the way OFFSET/LIMIT would.
func page[T any](rows []T, offset, limit int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := len(rows)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return rows[offset:end]
}
