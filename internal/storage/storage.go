// Package storage provides the record storage behind the development API server.
package storage

import (
	"context"
	"errors"

	"github.com/vyrodovalexey/restadmin/internal/model"
)

// Storage errors.
var (
	ErrNotFound  = errors.New("record not found")
	ErrInvalidID = errors.New("invalid record ID")
	ErrNilRecord = errors.New("record cannot be nil")
)

// Storage defines the operations the REST handlers need for one collection.
type Storage[T model.Entity] interface {
	// List returns all records in insertion order.
	List(ctx context.Context) ([]T, error)

	// Page returns one page of records and the total number of records.
	Page(ctx context.Context, page, limit int) ([]T, int, error)

	// Get retrieves a record by its ID.
	Get(ctx context.Context, id int) (*T, error)

	// Create stores a record under a newly assigned ID.
	Create(ctx context.Context, rec *T) (*T, error)

	// Update replaces the record stored under id.
	Update(ctx context.Context, id int, rec *T) (*T, error)

	// Delete removes a record by its ID.
	Delete(ctx context.Context, id int) error
}
