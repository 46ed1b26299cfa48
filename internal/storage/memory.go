package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/vyrodovalexey/restadmin/internal/model"
)

// IDSetter returns a copy of rec carrying the given ID.
type IDSetter[T any] func(rec T, id int) T

// MemoryStorage implements Storage with in-memory, insertion-ordered records
// and auto-incremented integer IDs.
type MemoryStorage[T model.Entity] struct {
	mu      sync.RWMutex
	records map[int]T
	order   []int
	nextID  int
	setID   IDSetter[T]
}

// NewMemoryStorage creates a new MemoryStorage instance.
func NewMemoryStorage[T model.Entity](setID IDSetter[T]) *MemoryStorage[T] {
	return &MemoryStorage[T]{
		records: make(map[int]T),
		nextID:  1,
		setID:   setID,
	}
}

// NewProductStorage creates an empty product collection.
func NewProductStorage() *MemoryStorage[model.Product] {
	return NewMemoryStorage(func(p model.Product, id int) model.Product {
		p.ID = id
		return p
	})
}

// NewUserStorage creates an empty user collection.
func NewUserStorage() *MemoryStorage[model.User] {
	return NewMemoryStorage(func(u model.User, id int) model.User {
		u.ID = id
		return u
	})
}

// Seed inserts records keeping their IDs. Records without an ID get the next
// free one. Later IDs continue after the highest seeded ID.
func (s *MemoryStorage[T]) Seed(records ...T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range records {
		id := rec.EntityID()
		if id <= 0 {
			id = s.nextID
			rec = s.setID(rec, id)
		}

		if _, exists := s.records[id]; !exists {
			s.order = append(s.order, id)
		}
		s.records[id] = rec

		if id >= s.nextID {
			s.nextID = id + 1
		}
	}
}

// List returns all records from the storage.
func (s *MemoryStorage[T]) List(ctx context.Context) ([]T, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("list records: %w", ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]T, 0, len(s.order))
	for _, id := range s.order {
		records = append(records, s.records[id])
	}

	return records, nil
}

// Page returns the records of a 1-based page. A page below 1 is treated as
// the first page and a non-positive limit returns every record. Pages past
// the end are empty.
func (s *MemoryStorage[T]) Page(ctx context.Context, page, limit int) ([]T, int, error) {
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("page records: %w", ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.order)
	if limit <= 0 {
		limit = total
		page = 1
	}
	if page < 1 {
		page = 1
	}

	// Compare in pages before multiplying so huge page numbers cannot overflow.
	if total == 0 || page-1 > (total-1)/limit {
		return []T{}, total, nil
	}

	start := (page - 1) * limit
	end := total
	if limit < total-start {
		end = start + limit
	}

	records := make([]T, 0, end-start)
	for _, id := range s.order[start:end] {
		records = append(records, s.records[id])
	}

	return records, total, nil
}

// Get retrieves a record by its ID.
func (s *MemoryStorage[T]) Get(ctx context.Context, id int) (*T, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("get record: %w", ctx.Err())
	default:
	}

	if id <= 0 {
		return nil, ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.records[id]
	if !exists {
		return nil, ErrNotFound
	}

	return &rec, nil
}

// Create adds a new record and returns it with its generated ID.
// Any ID carried by rec is ignored.
func (s *MemoryStorage[T]) Create(ctx context.Context, rec *T) (*T, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("create record: %w", ctx.Err())
	default:
	}

	if rec == nil {
		return nil, fmt.Errorf("create record: %w", ErrNilRecord)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	created := s.setID(*rec, id)
	s.records[id] = created
	s.order = append(s.order, id)

	return &created, nil
}

// Update replaces an existing record. The stored record keeps id even when
// rec carries a different one.
func (s *MemoryStorage[T]) Update(ctx context.Context, id int, rec *T) (*T, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("update record: %w", ctx.Err())
	default:
	}

	if id <= 0 {
		return nil, ErrInvalidID
	}

	if rec == nil {
		return nil, fmt.Errorf("update record: %w", ErrNilRecord)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[id]; !exists {
		return nil, ErrNotFound
	}

	updated := s.setID(*rec, id)
	s.records[id] = updated

	return &updated, nil
}

// Delete removes a record by its ID.
func (s *MemoryStorage[T]) Delete(ctx context.Context, id int) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("delete record: %w", ctx.Err())
	default:
	}

	if id <= 0 {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[id]; !exists {
		return ErrNotFound
	}

	delete(s.records, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	return nil
}

// Len returns the number of stored records.
func (s *MemoryStorage[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
