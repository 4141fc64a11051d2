package devserver

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inventario-app/inventario/internal/models"
)

// Seed is the initial data loaded into an empty database
type Seed struct {
	Users    []SeedUser    `yaml:"usuarios"`
	Products []SeedProduct `yaml:"produtos"`
}

// SeedUser is a user fixture; Password is plain text and hashed on load
type SeedUser struct {
	Name     string `yaml:"nome"`
	Email    string `yaml:"email"`
	Password string `yaml:"senha"`
	Role     string `yaml:"role"`
}

// SeedProduct is a product fixture
type SeedProduct struct {
	Name        string  `yaml:"nome"`
	Description string  `yaml:"descricao"`
	Category    string  `yaml:"categoria"`
	Price       float64 `yaml:"preco"`
	Stock       int     `yaml:"estoque"`
}

// DefaultSeed gives a fresh database one administrator to log in with
func DefaultSeed() *Seed {
	return &Seed{
		Users: []SeedUser{
			{Name: "Administrador", Email: "admin@inventario.local", Password: "admin123", Role: "admin"},
		},
	}
}

// ParseSeed decodes a YAML seed document
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &seed, nil
}

// loadSeed reads path, or returns DefaultSeed when path is empty
func loadSeed(path string) (*Seed, error) {
	if path == "" {
		return DefaultSeed(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

// applySeed inserts the fixtures when the database has no users yet
func (s *Server) applySeed(seed *Seed) error {
	var count int64
	if err := s.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, u := range seed.Users {
		if user, _, msg := s.insertUser(u.Name, u.Email, u.Password, u.Role); user == nil {
			return fmt.Errorf("failed to seed user %s: %s", u.Email, msg)
		}
	}

	for _, p := range seed.Products {
		product := models.Product{
			Name:        p.Name,
			Description: p.Description,
			Category:    p.Category,
			Price:       p.Price,
			Stock:       p.Stock,
		}
		if err := s.db.Create(&product).Error; err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.Name, err)
		}
	}

	s.logger.Info().Int("users", len(seed.Users)).Int("products", len(seed.Products)).Msg("Database seeded")
	return nil
}
