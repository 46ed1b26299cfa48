package model

import (
	"errors"
	"strings"
)

// Validation errors for Product.
var (
	ErrTitleRequired  = errors.New("product title is required")
	ErrImagesRequired = errors.New("image URL is required")
	ErrNegativePrice  = errors.New("price cannot be negative")
	ErrTitleTooLong   = errors.New("product title cannot exceed 255 characters")
)

// MaxTitleLength is the longest accepted product title.
const MaxTitleLength = 255

// Product is a catalogue entry shown as a card in the products view.
type Product struct {
	ID     int     `json:"id" yaml:"id"`
	Title  string  `json:"title" yaml:"title"`
	Images string  `json:"images" yaml:"images"`
	Price  float64 `json:"price" yaml:"price"`
}

// EntityID returns the product ID.
func (p Product) EntityID() int {
	return p.ID
}

// Draft returns the product fields without its identity.
func (p Product) Draft() ProductDraft {
	return ProductDraft{
		Title:  p.Title,
		Images: p.Images,
		Price:  p.Price,
	}
}

// Validate checks if the Product has valid field values.
func (p *Product) Validate() error {
	d := p.Draft()
	return d.Validate()
}

// ProductDraft is a product payload before the backend assigns an ID.
type ProductDraft struct {
	Title  string  `json:"title"`
	Images string  `json:"images"`
	Price  float64 `json:"price"`
}

// Validate checks the required-field contract of a product form.
func (d *ProductDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrTitleRequired
	}

	if len(d.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}

	if strings.TrimSpace(d.Images) == "" {
		return ErrImagesRequired
	}

	if d.Price < 0 {
		return ErrNegativePrice
	}

	return nil
}

// WithID attaches a backend identity to the draft.
func (d ProductDraft) WithID(id int) Product {
	return Product{
		ID:     id,
		Title:  d.Title,
		Images: d.Images,
		Price:  d.Price,
	}
}
