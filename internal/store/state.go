package store

import (
	"fmt"
	"sync"
)

// Status is the position of a store in its request lifecycle.
type Status int

// Store statuses. Any status moves to StatusLoading when a read is issued;
// the read resolves to StatusSuccess or StatusFailed. There is no retry and
// no terminal status.
const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusFailed
)

var statusNames = map[Status]string{
	StatusIdle:    "idle",
	StatusLoading: "loading",
	StatusSuccess: "success",
	StatusFailed:  "failed",
}

// String returns the lowercase status name.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// MarshalText encodes the status as its name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// State is a snapshot of a resource store.
type State[T any] struct {
	Status  Status `json:"status"`
	Loading bool   `json:"loading"`
	Items   []T    `json:"items"`
	// Error is the message of the last failed read; empty means none.
	Error string `json:"error,omitempty"`
}

// clone returns a copy that does not share the items backing array.
func (s State[T]) clone() State[T] {
	out := s
	if s.Items != nil {
		out.Items = make([]T, len(s.Items))
		copy(out.Items, s.Items)
	}
	return out
}

// PageState is a snapshot of a paginated store.
type PageState[T any] struct {
	State[T]
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
}

// Pages returns the number of pages needed for Total records.
func (p PageState[T]) Pages() int {
	if p.PageSize <= 0 || p.Total <= 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

// Offset returns the number of records before the current page.
func (p PageState[T]) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// HasNext reports whether a page after the current one exists.
func (p PageState[T]) HasNext() bool {
	return p.Page < p.Pages()
}

// HasPrev reports whether a page before the current one exists.
func (p PageState[T]) HasPrev() bool {
	return p.Page > 1
}

// stamped is a snapshot tagged with the state version it was taken at.
type stamped[S any] struct {
	version uint64
	state   S
}

// listeners fans state snapshots out to subscribers in version order. A
// snapshot older than one already delivered is dropped, so the last snapshot
// a subscriber sees is always the latest state.
type listeners[S any] struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(S)

	queue     []stamped[S]
	delivered uint64
	draining  bool
}

// add registers fn and returns a function that removes it.
func (l *listeners[S]) add(fn func(S)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fns == nil {
		l.fns = make(map[int]func(S))
	}
	id := l.next
	l.next++
	l.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.fns, id)
			l.mu.Unlock()
		})
	}
}

// emit queues s, taken at version, for delivery. The first emitting goroutine
// delivers the queue until it is empty; concurrent and nested emits only
// enqueue. Subscribers run without any store lock held and may read or write
// the store.
func (l *listeners[S]) emit(version uint64, s S) {
	l.mu.Lock()
	if version <= l.delivered {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, stamped[S]{version: version, state: s})
	if l.draining {
		l.mu.Unlock()
		return
	}
	l.draining = true

	for len(l.queue) > 0 {
		next := l.queue[0]
		l.queue = l.queue[1:]
		if next.version <= l.delivered {
			continue
		}
		l.delivered = next.version

		fns := make([]func(S), 0, len(l.fns))
		for _, fn := range l.fns {
			fns = append(fns, fn)
		}
		l.mu.Unlock()

		for _, fn := range fns {
			fn(next.state)
		}

		l.mu.Lock()
	}

	l.queue = nil
	l.draining = false
	l.mu.Unlock()
}
