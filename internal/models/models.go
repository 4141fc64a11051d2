// Package models holds the storage schema of the development backend.
package models

import (
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"

	"github.com/inventario-app/inventario/internal/assert"
)

// BaseModel provides common fields and auto-generated ULID for all models
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
		assert.Length(b.ID, ulid.EncodedSize)
	}
	return nil
}

// Config is a singleton row holding server-generated secrets
type Config struct {
	BaseModel
	JWTSecret string `json:"-" gorm:"type:varchar(64);not null"`
}

// User represents an account that can sign in to the backend
type User struct {
	BaseModel
	Email        string    `json:"email" gorm:"unique;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Name         string    `json:"nome"`
	Role         string    `json:"role" gorm:"not null;default:vendedor"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Product represents a catalog item with its current stock
type Product struct {
	BaseModel
	Name        string    `json:"nome" gorm:"not null"`
	Description string    `json:"descricao"`
	Category    string    `json:"categoria" gorm:"index"`
	Price       float64   `json:"preco" gorm:"not null"`
	Stock       int       `json:"estoque" gorm:"not null;default:0"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Sale is a completed sale. Items are owned by the sale.
type Sale struct {
	BaseModel
	SellerID string     `json:"vendedorId" gorm:"not null;index"`
	Total    float64    `json:"total" gorm:"not null"`
	Items    []SaleItem `json:"itens" gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// SaleItem is one product line of a sale, priced at the time of sale
type SaleItem struct {
	BaseModel
	SaleID      string  `json:"-" gorm:"not null;index"`
	ProductID   string  `json:"produtoId" gorm:"not null"`
	ProductName string  `json:"nome" gorm:"not null"`
	Quantity    int     `json:"quantidade" gorm:"not null"`
	UnitPrice   float64 `json:"precoUnitario" gorm:"not null"`
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	models := []interface{}{
		&Config{}, &User{}, &Product{}, &Sale{}, &SaleItem{},
	}

	return db.AutoMigrate(models...)
}

// FindByID safely finds a record by string ID
func FindByID[T any](db *gorm.DB, id string, model *T) error {
	return db.Where("id = ?", id).First(model).Error
}

// FindByIDWithPreload finds a record by ID with preloading
func FindByIDWithPreload[T any](db *gorm.DB, id string, model *T, preloads ...string) error {
	query := db
	for _, preload := range preloads {
		query = query.Preload(preload)
	}
	return query.Where("id = ?", id).First(model).Error
}
