package client

import (
	"context"
	"net/http"
	"time"
)

// SaleItem is one line of a sale
type SaleItem struct {
	ProductID   string  `json:"produtoId"`
	ProductName string  `json:"nome"`
	Quantity    int     `json:"quantidade"`
	UnitPrice   float64 `json:"precoUnitario"`
}

// Subtotal is quantity times unit price
func (i SaleItem) Subtotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}

// Sale represents a completed sale
type Sale struct {
	ID        string     `json:"id"`
	SellerID  string     `json:"vendedorId"`
	Items     []SaleItem `json:"itens"`
	Total     float64    `json:"total"`
	CreatedAt time.Time  `json:"data"`
}

// SaleLine is one requested line of a new sale
type SaleLine struct {
	ProductID string `json:"produtoId"`
	Quantity  int    `json:"quantidade"`
}

// NewSale is the body for registering a sale
type NewSale struct {
	Items []SaleLine `json:"itens"`
}

// ListSales returns all recorded sales
func (c *Client) ListSales(ctx context.Context) ([]Sale, error) {
	var sales []Sale
	if err := c.do(ctx, http.MethodGet, "/vendas", nil, &sales, "failed to list sales"); err != nil {
		return nil, err
	}
	return sales, nil
}

// CreateSale registers a sale; the backend decrements stock
func (c *Client) CreateSale(ctx context.Context, in NewSale) (*Sale, error) {
	var sale Sale
	if err := c.do(ctx, http.MethodPost, "/vendas", in, &sale, "failed to register sale"); err != nil {
		return nil, err
	}
	return &sale, nil
}
