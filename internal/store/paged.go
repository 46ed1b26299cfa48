package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/restadmin/internal/model"
)

// PagedStore mirrors one page of a PagedResource.
type PagedStore[T model.Entity, D any] struct {
	base[T]
	resource  PagedResource[T, D]
	listeners listeners[PageState[T]]

	// guarded by base.mu
	page     int
	pageSize int
	total    int
}

// NewPagedStore creates a store positioned on page 1. A pageSize below 1
// selects DefaultPageSize.
func NewPagedStore[T model.Entity, D any](
	name string,
	resource PagedResource[T, D],
	pageSize int,
	logger *zap.Logger,
) (*PagedStore[T, D], error) {
	if resource == nil {
		return nil, ErrNilResource
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	s := &PagedStore[T, D]{
		resource: resource,
		page:     1,
		pageSize: pageSize,
	}
	s.init(name, logger)
	return s, nil
}

// State returns a snapshot of the store.
func (s *PagedStore[T, D]) State() PageState[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *PagedStore[T, D]) snapshotLocked() PageState[T] {
	return PageState[T]{
		State:    s.state.clone(),
		Page:     s.page,
		PageSize: s.pageSize,
		Total:    s.total,
	}
}

// Subscribe registers fn to receive a snapshot after every state change.
// The returned function unregisters it.
func (s *PagedStore[T, D]) Subscribe(fn func(PageState[T])) func() {
	return s.listeners.add(fn)
}

// SetPage moves to page n and fetches it. Selecting the current page is a
// no-op.
func (s *PagedStore[T, D]) SetPage(ctx context.Context, n int) error {
	if n < 1 {
		return ErrInvalidPage
	}

	s.mu.Lock()
	if n == s.page {
		s.mu.Unlock()
		return nil
	}
	s.page = n
	return s.fetchLocked(ctx)
}

// FetchPage loads the current page. Total is taken from the server on
// success and left unchanged on failure. Items and error follow the same
// rules as ResourceStore.Fetch.
func (s *PagedStore[T, D]) FetchPage(ctx context.Context) error {
	s.mu.Lock()
	return s.fetchLocked(ctx)
}

// fetchLocked issues a read of the current page. It must be called with mu
// held and releases it.
func (s *PagedStore[T, D]) fetchLocked(ctx context.Context) error {
	seq := s.beginLocked()
	version := s.stampLocked()
	page, limit := s.page, s.pageSize
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.listeners.emit(version, snapshot)

	result, err := s.resource.ListPage(ctx, page, limit)

	s.mu.Lock()
	applied := s.completeLocked(seq, result.Items, err)
	if applied && err == nil {
		s.total = max(result.Total, 0)
	}
	version = s.stampLocked()
	snapshot = s.snapshotLocked()
	s.mu.Unlock()

	s.logRead(seq, applied, err)
	if !applied {
		return nil
	}

	s.listeners.emit(version, snapshot)
	return err
}

// Create sends a new record. Neither the page items nor the total change;
// call FetchPage to reconcile.
func (s *PagedStore[T, D]) Create(ctx context.Context, draft D) (*T, error) {
	created, err := s.resource.Create(ctx, draft)
	s.logWrite(opCreate, err)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update replaces a record. The page items are not changed; call FetchPage
// to reconcile.
func (s *PagedStore[T, D]) Update(ctx context.Context, item T) (*T, error) {
	updated, err := s.resource.Update(ctx, item)
	s.logWrite(opUpdate, err, zap.Int("id", item.EntityID()))
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a record and drops it from the current page once the
// backend confirms. The total is not adjusted.
func (s *PagedStore[T, D]) Delete(ctx context.Context, id int) error {
	err := s.resource.Delete(ctx, id)
	s.logWrite(opDelete, err, zap.Int("id", id))
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.removeLocked(id)
	version := s.stampLocked()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.listeners.emit(version, snapshot)
	return nil
}
