package placement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"popupzone/internal/approvals"
	"popupzone/internal/ledger"
	"popupzone/internal/notifications"
	"popupzone/internal/occupancies"
	"popupzone/internal/shared/utils/pagination"
	"popupzone/internal/zones"
	"popupzone/pkg/cache"
	"popupzone/pkg/lock"
	"popupzone/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	Allocate(ctx context.Context, in AllocateInput) (*occupancies.Occupancy, error)
	Decide(ctx context.Context, in DecideInput) (*approvals.ApprovalRecord, error)
	ListPending(ctx context.Context, query pagination.Query) (*PendingPage, error)
	GetAvailability(ctx context.Context, cellID uuid.UUID, from, to time.Time) (*ledger.Availability, error)

	GetOccupancy(ctx context.Context, id uuid.UUID) (*occupancies.Occupancy, error)
	ListSellerOccupancies(ctx context.Context, sellerID uuid.UUID, query pagination.Query) (*OccupancyPage, error)
	History(ctx context.Context, occupancyID uuid.UUID) ([]approvals.ApprovalRecord, error)
}

// Options carries the optional collaborators of the service. Zero values
// disable caching and event publication.
type Options struct {
	Policy        Policy
	LockTimeout   time.Duration
	QueueCacheTTL time.Duration
	Cache         cache.Service
	Publisher     notifications.Publisher
	Logger        *logger.Logger
	Now           func() time.Time
}

type service struct {
	uow       UnitOfWork
	locker    lock.Locker
	policy    Policy
	lockWait  time.Duration
	cache     cache.Service
	queueTTL  time.Duration
	publisher notifications.Publisher
	log       *logger.Logger
	now       func() time.Time
}

func NewService(uow UnitOfWork, locker lock.Locker, opts Options) Service {
	s := &service{
		uow:       uow,
		locker:    locker,
		policy:    opts.Policy.withDefaults(),
		lockWait:  opts.LockTimeout,
		cache:     opts.Cache,
		queueTTL:  opts.QueueCacheTTL,
		publisher: opts.Publisher,
		log:       opts.Logger,
		now:       opts.Now,
	}
	if s.publisher == nil {
		s.publisher = notifications.NoopPublisher{}
	}
	if s.log == nil {
		s.log = logger.GetDefault()
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	return s
}

func cellKey(cellID uuid.UUID) string {
	return "cell:" + cellID.String()
}

// afterCommit runs the side effects of a committed change. None of them can
// fail the operation.
func (s *service) afterCommit(ctx context.Context, event *notifications.PlacementEvent) {
	s.invalidateQueue(ctx)

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.LogEventPublishFailed(ctx, string(event.Type), event.OccupancyID.String(), err)
	}
}

func (s *service) lockFailed(ctx context.Context, cellID uuid.UUID, err error) {
	if errors.Is(err, lock.ErrLockTimeout) {
		s.log.LogLockTimeout(ctx, cellID.String(), s.lockWait)
	}
}

func notFound(err error, what string, id uuid.UUID) error {
	if errors.Is(err, zones.ErrNotFound) || errors.Is(err, occupancies.ErrNotFound) {
		return fmt.Errorf("%w: %s %s", ErrNotFound, what, id)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

func (s *service) GetAvailability(ctx context.Context, cellID uuid.UUID, from, to time.Time) (*ledger.Availability, error) {
	if from.After(to) {
		return nil, fmt.Errorf("%w: start is after end", ErrInvalidRange)
	}

	repos := s.uow.Repos()
	if _, err := repos.Cells.GetCellByID(ctx, cellID); err != nil {
		return nil, notFound(err, "zone cell", cellID)
	}

	availability, err := repos.Ledger.Query(ctx, cellID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query availability: %w", err)
	}
	return availability, nil
}

func (s *service) GetOccupancy(ctx context.Context, id uuid.UUID) (*occupancies.Occupancy, error) {
	occ, err := s.uow.Repos().Occupancies.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "occupancy", id)
	}
	return occ, nil
}

func (s *service) ListSellerOccupancies(ctx context.Context, sellerID uuid.UUID, query pagination.Query) (*OccupancyPage, error) {
	query = query.Normalize()

	items, total, err := s.uow.Repos().Occupancies.ListBySeller(ctx, sellerID, query.Offset(), query.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to list seller occupancies: %w", err)
	}

	page := &OccupancyPage{Items: make([]OccupancyResponse, 0, len(items)), Meta: pagination.NewMeta(query, total)}
	for i := range items {
		page.Items = append(page.Items, NewOccupancyResponse(&items[i]))
	}
	return page, nil
}

func (s *service) History(ctx context.Context, occupancyID uuid.UUID) ([]approvals.ApprovalRecord, error) {
	repos := s.uow.Repos()
	if _, err := repos.Occupancies.GetByID(ctx, occupancyID); err != nil {
		return nil, notFound(err, "occupancy", occupancyID)
	}

	records, err := repos.Approvals.ListByTarget(ctx, approvals.TargetOccupancy, occupancyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approval history: %w", err)
	}
	if records == nil {
		records = []approvals.ApprovalRecord{}
	}
	return records, nil
}
