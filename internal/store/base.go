package store

import (
	"sync"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/restadmin/internal/model"
)

// base carries the state, the read sequence and the delete tombstones shared
// by both store kinds. All fields are guarded by mu.
type base[T model.Entity] struct {
	name   string
	logger *zap.Logger

	mu    sync.Mutex
	seq   uint64
	state State[T]

	// version numbers state changes so snapshots reach subscribers in order.
	version uint64

	// tombstones maps IDs deleted locally to the sequence number that was
	// current when the delete succeeded. A read issued at or before that
	// number may still carry the record.
	tombstones map[int]uint64
}

func (b *base[T]) init(name string, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	b.name = name
	b.logger = logger.With(zap.String("resource", name))
	b.state = State[T]{Status: StatusIdle, Items: []T{}}
	b.tombstones = make(map[int]uint64)
}

// stampLocked marks a state change and returns its version.
func (b *base[T]) stampLocked() uint64 {
	b.version++
	return b.version
}

// beginLocked issues a new read and returns its sequence number. Prior items
// and error stay visible while the read is in flight.
func (b *base[T]) beginLocked() uint64 {
	b.seq++
	b.state.Loading = true
	b.state.Status = StatusLoading
	return b.seq
}

// completeLocked applies the outcome of read seq. It returns false, leaving
// the state untouched, when a newer read has been issued since.
func (b *base[T]) completeLocked(seq uint64, items []T, err error) bool {
	if seq != b.seq {
		return false
	}

	b.state.Loading = false
	if err != nil {
		b.state.Status = StatusFailed
		b.state.Items = []T{}
		b.state.Error = errorMessage(err)
		b.tombstones = make(map[int]uint64)
		return true
	}

	kept := make([]T, 0, len(items))
	for _, item := range items {
		if deletedAt, gone := b.tombstones[item.EntityID()]; gone && seq <= deletedAt {
			continue
		}
		kept = append(kept, item)
	}

	b.state.Status = StatusSuccess
	b.state.Items = kept
	b.state.Error = ""
	// Every later read is issued after all recorded deletes.
	b.tombstones = make(map[int]uint64)
	return true
}

// removeLocked drops a confirmed-deleted record from the local items and
// hides it from reads that are already in flight.
func (b *base[T]) removeLocked(id int) {
	kept := b.state.Items[:0:0]
	for _, item := range b.state.Items {
		if item.EntityID() != id {
			kept = append(kept, item)
		}
	}
	if kept == nil {
		kept = []T{}
	}
	b.state.Items = kept

	if b.state.Loading {
		b.tombstones[id] = b.seq
	}
}

// logRead records the outcome of a read.
func (b *base[T]) logRead(seq uint64, applied bool, err error) {
	switch {
	case !applied:
		observeStale(b.name)
		b.logger.Debug("discarded stale response", zap.Uint64("seq", seq))
	case err != nil:
		observe(b.name, opFetch, err)
		b.logger.Warn("fetch failed", zap.Uint64("seq", seq), zap.Error(err))
	default:
		observe(b.name, opFetch, nil)
		b.logger.Debug("fetch succeeded", zap.Uint64("seq", seq))
	}
}

// logWrite records the outcome of a write.
func (b *base[T]) logWrite(op string, err error, fields ...zap.Field) {
	observe(b.name, op, err)
	if err != nil {
		b.logger.Warn(op+" failed", append(fields, zap.Error(err))...)
		return
	}
	b.logger.Debug(op+" succeeded", fields...)
}
