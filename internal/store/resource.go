package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/restadmin/internal/model"
)

// ResourceStore mirrors a Resource that is read as a whole.
type ResourceStore[T model.Entity, D any] struct {
	base[T]
	resource  Resource[T, D]
	listeners listeners[State[T]]
}

// NewResourceStore creates a store in StatusIdle with no items. name labels
// logs and metrics.
func NewResourceStore[T model.Entity, D any](
	name string,
	resource Resource[T, D],
	logger *zap.Logger,
) (*ResourceStore[T, D], error) {
	if resource == nil {
		return nil, ErrNilResource
	}

	s := &ResourceStore[T, D]{resource: resource}
	s.init(name, logger)
	return s, nil
}

// State returns a snapshot of the store.
func (s *ResourceStore[T, D]) State() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn to receive a snapshot after every state change.
// The returned function unregisters it.
func (s *ResourceStore[T, D]) Subscribe(fn func(State[T])) func() {
	return s.listeners.add(fn)
}

// Fetch reloads the whole collection. On success the items are replaced and
// the error cleared; on failure the items are emptied and the error set.
// The error is also returned. A response overtaken by a newer Fetch is
// discarded and nil is returned.
func (s *ResourceStore[T, D]) Fetch(ctx context.Context) error {
	s.mu.Lock()
	seq := s.beginLocked()
	version := s.stampLocked()
	snapshot := s.state.clone()
	s.mu.Unlock()
	s.listeners.emit(version, snapshot)

	items, err := s.resource.List(ctx)

	s.mu.Lock()
	applied := s.completeLocked(seq, items, err)
	version = s.stampLocked()
	snapshot = s.state.clone()
	s.mu.Unlock()

	s.logRead(seq, applied, err)
	if !applied {
		return nil
	}

	s.listeners.emit(version, snapshot)
	return err
}

// Create sends a new record. The local items are not changed; call Fetch to
// reconcile.
func (s *ResourceStore[T, D]) Create(ctx context.Context, draft D) (*T, error) {
	created, err := s.resource.Create(ctx, draft)
	s.logWrite(opCreate, err)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update replaces a record. The local items are not changed; call Fetch to
// reconcile.
func (s *ResourceStore[T, D]) Update(ctx context.Context, item T) (*T, error) {
	updated, err := s.resource.Update(ctx, item)
	s.logWrite(opUpdate, err, zap.Int("id", item.EntityID()))
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a record. Once the backend confirms, the record is dropped
// from the local items and from any read still in flight.
func (s *ResourceStore[T, D]) Delete(ctx context.Context, id int) error {
	err := s.resource.Delete(ctx, id)
	s.logWrite(opDelete, err, zap.Int("id", id))
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.removeLocked(id)
	version := s.stampLocked()
	snapshot := s.state.clone()
	s.mu.Unlock()

	s.listeners.emit(version, snapshot)
	return nil
}
