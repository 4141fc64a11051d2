package client

import (
	"context"
	"net/http"
	"net/url"
)

// Product represents a catalog item
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"nome"`
	Description string  `json:"descricao"`
	Category    string  `json:"categoria"`
	Price       float64 `json:"preco"`
	Stock       int     `json:"estoque"`
}

// ProductInput is the body for creating or updating a product
type ProductInput struct {
	Name        string  `json:"nome"`
	Description string  `json:"descricao,omitempty"`
	Category    string  `json:"categoria,omitempty"`
	Price       float64 `json:"preco"`
	Stock       int     `json:"estoque"`
}

// ListProducts returns the whole catalog
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, "/produtos", nil, &products, "failed to list products"); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct returns a single product by ID
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodGet, "/produtos/"+url.PathEscape(id), nil, &product, "failed to load product"); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct adds a product to the catalog
func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodPost, "/produtos", in, &product, "failed to create product"); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct replaces a product's fields
func (c *Client) UpdateProduct(ctx context.Context, id string, in ProductInput) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodPut, "/produtos/"+url.PathEscape(id), in, &product, "failed to update product"); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes a product by ID
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/produtos/"+url.PathEscape(id), nil, nil, "failed to delete product")
}
