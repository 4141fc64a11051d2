package devserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inventario-app/inventario/internal/models"
)

// ProductRequest represents a product create/update body
type ProductRequest struct {
	Name        string  `json:"nome" validate:"required"`
	Description string  `json:"descricao"`
	Category    string  `json:"categoria"`
	Price       float64 `json:"preco" validate:"gte=0"`
	Stock       int     `json:"estoque" validate:"gte=0"`
}

func (s *Server) listProducts(c *gin.Context) {
	var products []models.Product
	if err := s.db.Order("name").Find(&products).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list products")
		respondError(c, http.StatusInternalServerError, "Falha ao listar produtos")
		return
	}
	c.JSON(http.StatusOK, products)
}

func (s *Server) findProduct(c *gin.Context) (*models.Product, bool) {
	var product models.Product
	if err := models.FindByID(s.db, c.Param("id"), &product); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Produto não encontrado")
			return nil, false
		}
		s.logger.Error().Err(err).Msg("Failed to load product")
		respondError(c, http.StatusInternalServerError, "Erro interno do servidor")
		return nil, false
	}
	return &product, true
}

func (s *Server) getProduct(c *gin.Context) {
	product, ok := s.findProduct(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) createProduct(c *gin.Context) {
	var req ProductRequest
	if !s.bind(c, &req) {
		return
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
	}
	if err := s.db.Create(&product).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create product")
		respondError(c, http.StatusInternalServerError, "Falha ao criar produto")
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (s *Server) updateProduct(c *gin.Context) {
	var req ProductRequest
	if !s.bind(c, &req) {
		return
	}

	product, ok := s.findProduct(c)
	if !ok {
		return
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Category = req.Category
	product.Price = req.Price
	product.Stock = req.Stock
	if err := s.db.Save(product).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to update product")
		respondError(c, http.StatusInternalServerError, "Falha ao atualizar produto")
		return
	}

	c.JSON(http.StatusOK, product)
}

func (s *Server) deleteProduct(c *gin.Context) {
	result := s.db.Where("id = ?", c.Param("id")).Delete(&models.Product{})
	if result.Error != nil {
		s.logger.Error().Err(result.Error).Msg("Failed to delete product")
		respondError(c, http.StatusInternalServerError, "Falha ao excluir produto")
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, http.StatusNotFound, "Produto não encontrado")
		return
	}
	c.Status(http.StatusNoContent)
}
