// Package store holds the client-side state of remote resource collections.
//
// A store is the single source of truth for one collection shown in the
// console. Reads capture their outcome in the store state; writes report
// failures to the caller and leave the state untouched. Every read carries a
// sequence number, and a response is applied only if no newer read has been
// issued since, so the last issued request wins regardless of the order in
// which responses arrive.
package store

import (
	"context"
	"errors"

	"github.com/vyrodovalexey/restadmin/internal/model"
)

// DefaultPageSize is the number of rows requested per page.
const DefaultPageSize = 10

// Store errors.
var (
	ErrInvalidPage = errors.New("page must be at least 1")
	ErrNilResource = errors.New("resource cannot be nil")
)

// fallbackMessage is used when a failed request carries an empty message.
const fallbackMessage = "remote operation failed"

// Writer creates, replaces and deletes records of one collection.
type Writer[T model.Entity, D any] interface {
	// Create sends a draft and returns the stored record.
	Create(ctx context.Context, draft D) (*T, error)

	// Update replaces the record identified by item's ID.
	Update(ctx context.Context, item T) (*T, error)

	// Delete removes the record with the given ID.
	Delete(ctx context.Context, id int) error
}

// Resource is a remote collection that is read in one request.
type Resource[T model.Entity, D any] interface {
	Writer[T, D]

	// List returns every record of the collection.
	List(ctx context.Context) ([]T, error)
}

// Page is one page of a paginated collection.
type Page[T any] struct {
	Items []T
	// Total is the server reported number of records in the collection.
	Total int
}

// PagedResource is a remote collection that is read one page at a time.
type PagedResource[T model.Entity, D any] interface {
	Writer[T, D]

	// ListPage returns the records of a 1-based page.
	ListPage(ctx context.Context, page, limit int) (Page[T], error)
}

// errorMessage renders err the way it is shown to the user.
func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallbackMessage
}
