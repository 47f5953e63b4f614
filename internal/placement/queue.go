package placement

import (
	"context"
	"fmt"
	"time"

	"popupzone/internal/shared/constants"
	"popupzone/internal/shared/utils/pagination"
)

// ListPending returns PENDING occupancies, oldest request first. Pages are
// served from the cache when one is configured.
func (s *service) ListPending(ctx context.Context, query pagination.Query) (*PendingPage, error) {
	query = query.Normalize()

	if s.cache == nil || s.queueTTL <= 0 {
		return s.loadPending(ctx, query)
	}

	var page PendingPage
	err := s.cache.GetOrSet(ctx, constants.BuildPendingQueueKey(query.Page, query.Size), s.queueTTL, func() (interface{}, error) {
		return s.loadPending(ctx, query)
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *service) loadPending(ctx context.Context, query pagination.Query) (*PendingPage, error) {
	items, total, err := s.uow.Repos().Occupancies.ListPending(ctx, query.Offset(), query.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending occupancies: %w", err)
	}

	page := &PendingPage{Items: make([]PendingItem, 0, len(items)), Meta: pagination.NewMeta(query, total)}
	for i := range items {
		page.Items = append(page.Items, NewPendingItem(&items[i]))
	}
	return page, nil
}

func (s *service) invalidateQueue(ctx context.Context) {
	if s.cache == nil {
		return
	}

	// a failed purge leaves pages stale until their TTL
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := s.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_PENDING_QUEUE); err != nil {
		s.log.Warn("Failed to invalidate approval queue cache", "error", err)
	}
}
