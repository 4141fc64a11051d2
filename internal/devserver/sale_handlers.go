package devserver

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inventario-app/inventario/internal/models"
)

// SaleLine is one requested product line
type SaleLine struct {
	ProductID string `json:"produtoId" validate:"required"`
	Quantity  int    `json:"quantidade" validate:"gt=0"`
}

// CreateSaleRequest represents a new sale
type CreateSaleRequest struct {
	Items []SaleLine `json:"itens" validate:"required,min=1,dive"`
}

// SaleResponse is a sale as the front-end reads it
type SaleResponse struct {
	ID        string            `json:"id"`
	SellerID  string            `json:"vendedorId"`
	Items     []models.SaleItem `json:"itens"`
	Total     float64           `json:"total"`
	CreatedAt time.Time         `json:"data"`
}

// saleError carries a client-facing status out of the sale transaction
type saleError struct {
	status  int
	message string
}

func (e *saleError) Error() string {
	return e.message
}

func toSaleResponse(s *models.Sale) SaleResponse {
	items := s.Items
	if items == nil {
		items = []models.SaleItem{}
	}
	return SaleResponse{
		ID:        s.ID,
		SellerID:  s.SellerID,
		Items:     items,
		Total:     s.Total,
		CreatedAt: s.CreatedAt,
	}
}

func (s *Server) listSales(c *gin.Context) {
	var sales []models.Sale
	if err := s.db.Preload("Items").Order("created_at").Find(&sales).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list sales")
		respondError(c, http.StatusInternalServerError, "Falha ao listar vendas")
		return
	}

	out := make([]SaleResponse, 0, len(sales))
	for i := range sales {
		out = append(out, toSaleResponse(&sales[i]))
	}
	c.JSON(http.StatusOK, out)
}

// createSale records the sale and decrements stock in one transaction
func (s *Server) createSale(c *gin.Context) {
	seller, _ := currentUser(c)

	var req CreateSaleRequest
	if !s.bind(c, &req) {
		return
	}

	sale := models.Sale{SellerID: seller.ID}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, line := range req.Items {
			var product models.Product
			if err := models.FindByID(tx, line.ProductID, &product); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &saleError{http.StatusNotFound, fmt.Sprintf("Produto %s não encontrado", line.ProductID)}
				}
				return err
			}
			if product.Stock < line.Quantity {
				return &saleError{http.StatusConflict, fmt.Sprintf("Estoque insuficiente para %s", product.Name)}
			}

			if err := tx.Model(&product).Update("stock", product.Stock-line.Quantity).Error; err != nil {
				return err
			}

			sale.Items = append(sale.Items, models.SaleItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				UnitPrice:   product.Price,
			})
			sale.Total += float64(line.Quantity) * product.Price
		}
		return tx.Create(&sale).Error
	})

	if err != nil {
		var se *saleError
		if errors.As(err, &se) {
			respondError(c, se.status, se.message)
			return
		}
		s.logger.Error().Err(err).Msg("Failed to create sale")
		respondError(c, http.StatusInternalServerError, "Falha ao registrar venda")
		return
	}

	s.logger.Info().Str("sale_id", sale.ID).Float64("total", sale.Total).Msg("Sale registered")
	c.JSON(http.StatusCreated, toSaleResponse(&sale))
}
