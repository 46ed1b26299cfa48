package client

import (
	"context"
	"net/http"
	"strconv"

	"github.com/vyrodovalexey/restadmin/internal/model"
	"github.com/vyrodovalexey/restadmin/internal/store"
)

const productsPath = "/products"

var _ store.Resource[model.Product, model.ProductDraft] = (*ProductService)(nil)

// ProductService accesses /products.
type ProductService struct {
	client *Client
}

// Products returns the products endpoint.
func (c *Client) Products() *ProductService {
	return &ProductService{client: c}
}

// List handles GET /products.
func (s *ProductService) List(ctx context.Context) ([]model.Product, error) {
	products := []model.Product{}
	if _, err := s.client.do(ctx, http.MethodGet, productsPath, nil, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Get handles GET /products/{id}.
func (s *ProductService) Get(ctx context.Context, id int) (*model.Product, error) {
	var product model.Product
	path := productsPath + "/" + strconv.Itoa(id)
	if _, err := s.client.do(ctx, http.MethodGet, path, nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Create handles POST /products.
func (s *ProductService) Create(ctx context.Context, draft model.ProductDraft) (*model.Product, error) {
	var created model.Product
	if _, err := s.client.do(ctx, http.MethodPost, productsPath, nil, draft, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update handles PUT /products/{id}.
func (s *ProductService) Update(ctx context.Context, product model.Product) (*model.Product, error) {
	var updated model.Product
	path := productsPath + "/" + strconv.Itoa(product.ID)
	if _, err := s.client.do(ctx, http.MethodPut, path, nil, product, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete handles DELETE /products/{id}.
func (s *ProductService) Delete(ctx context.Context, id int) error {
	path := productsPath + "/" + strconv.Itoa(id)
	_, err := s.client.do(ctx, http.MethodDelete, path, nil, nil, nil)
	return err
}
