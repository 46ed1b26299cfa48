package store

import (
	"context"
	"errors"
	"sync"

	"github.com/vyrodovalexey/restadmin/internal/model"
)

var errNotFound = errors.New("404 Not Found")

// fakeProducts implements Resource over an in-memory slice.
type fakeProducts struct {
	mu        sync.Mutex
	items     []model.Product
	nextID    int
	listErr   error
	writeErr  error
	listCalls int
}

func newFakeProducts(items ...model.Product) *fakeProducts {
	return &fakeProducts{items: items, nextID: len(items) + 1}
}

func (f *fakeProducts) List(_ context.Context) ([]model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.Product, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeProducts) Create(_ context.Context, d model.ProductDraft) (*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	p := d.WithID(f.nextID)
	f.nextID++
	f.items = append(f.items, p)
	return &p, nil
}

func (f *fakeProducts) Update(_ context.Context, p model.Product) (*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	for i := range f.items {
		if f.items[i].ID == p.ID {
			f.items[i] = p
			return &p, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeProducts) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return errNotFound
}

func (f *fakeProducts) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

// pageRequest is one ListPage call held open until the test responds.
type pageRequest struct {
	page, limit int
	respond     chan pageResult
}

type pageResult struct {
	page Page[model.User]
	err  error
}

// gatedUsers implements PagedResource. Every ListPage call is published on
// requests and blocks until the test answers it.
type gatedUsers struct {
	requests chan pageRequest
	deleted  chan int
	writeErr error
}

func newGatedUsers() *gatedUsers {
	return &gatedUsers{
		requests: make(chan pageRequest, 16),
		deleted:  make(chan int, 16),
	}
}

func (g *gatedUsers) ListPage(ctx context.Context, page, limit int) (Page[model.User], error) {
	req := pageRequest{page: page, limit: limit, respond: make(chan pageResult, 1)}
	g.requests <- req
	select {
	case res := <-req.respond:
		return res.page, res.err
	case <-ctx.Done():
		return Page[model.User]{}, ctx.Err()
	}
}

func (g *gatedUsers) Create(_ context.Context, d model.UserDraft) (*model.User, error) {
	if g.writeErr != nil {
		return nil, g.writeErr
	}
	u := d.WithID(100)
	return &u, nil
}

func (g *gatedUsers) Update(_ context.Context, u model.User) (*model.User, error) {
	if g.writeErr != nil {
		return nil, g.writeErr
	}
	return &u, nil
}

func (g *gatedUsers) Delete(_ context.Context, id int) error {
	if g.writeErr != nil {
		return g.writeErr
	}
	g.deleted <- id
	return nil
}

func users(ids ...int) []model.User {
	out := make([]model.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.User{ID: id, FirstName: "User", LastName: "Test", Email: "u@example.com", Username: "u", Phone: "1"})
	}
	return out
}

func containsID[T model.Entity](items []T, id int) bool {
	for _, item := range items {
		if item.EntityID() == id {
			return true
		}
	}
	return false
}

// listRequest is one List call held open until the test responds.
type listRequest struct {
	respond chan listResult
}

type listResult struct {
	items []model.Product
	err   error
}

// gatedProducts implements Resource. Every List call is published on
// requests and blocks until the test answers it.
type gatedProducts struct {
	requests chan listRequest
}

func newGatedProducts() *gatedProducts {
	return &gatedProducts{requests: make(chan listRequest, 16)}
}

func (g *gatedProducts) List(ctx context.Context) ([]model.Product, error) {
	req := listRequest{respond: make(chan listResult, 1)}
	g.requests <- req
	select {
	case res := <-req.respond:
		return res.items, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (g *gatedProducts) Create(_ context.Context, d model.ProductDraft) (*model.Product, error) {
	p := d.WithID(100)
	return &p, nil
}

func (g *gatedProducts) Update(_ context.Context, p model.Product) (*model.Product, error) {
	return &p, nil
}

func (g *gatedProducts) Delete(_ context.Context, _ int) error {
	return nil
}

func products(ids ...int) []model.Product {
	out := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Product{ID: id, Title: "Product", Images: "url", Price: float64(id)})
	}
	return out
}
