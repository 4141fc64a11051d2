package devserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inventario-app/inventario/internal/auth"
	"github.com/inventario-app/inventario/internal/models"
	"github.com/inventario-app/inventario/internal/session"
)

// CreateUserRequest represents a request to create a new user
type CreateUserRequest struct {
	Name     string `json:"nome" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"senha" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,role"`
}

// UpdateUserRequest replaces a user's fields; the password is optional
type UpdateUserRequest struct {
	Name     string `json:"nome" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"senha" validate:"omitempty,min=6"`
	Role     string `json:"role" validate:"required,role"`
}

func (s *Server) listUsers(c *gin.Context) {
	var users []models.User
	if err := s.db.Order("name").Find(&users).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list users")
		respondError(c, http.StatusInternalServerError, "Falha ao listar usuários")
		return
	}

	out := make([]*UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createUser(c *gin.Context) {
	var req CreateUserRequest
	if !s.bind(c, &req) {
		return
	}

	user, status, msg := s.insertUser(req.Name, req.Email, req.Password, req.Role)
	if user == nil {
		respondError(c, status, msg)
		return
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("User created")
	c.JSON(http.StatusCreated, toUserResponse(user))
}

// insertUser creates a user, returning the HTTP status and message on failure
func (s *Server) insertUser(name, email, password, role string) (*models.User, int, string) {
	email = strings.ToLower(strings.TrimSpace(email))

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to check email")
		return nil, http.StatusInternalServerError, "Erro interno do servidor"
	}
	if count > 0 {
		return nil, http.StatusConflict, "E-mail já cadastrado"
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, http.StatusInternalServerError, "Falha ao criar usuário"
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         string(session.ParseRole(role)),
	}
	if err := s.db.Create(user).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create user")
		return nil, http.StatusInternalServerError, "Falha ao criar usuário"
	}
	return user, 0, ""
}

func (s *Server) updateUser(c *gin.Context) {
	var req UpdateUserRequest
	if !s.bind(c, &req) {
		return
	}

	var user models.User
	if err := models.FindByID(s.db, c.Param("id"), &user); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Usuário não encontrado")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to load user")
		respondError(c, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}

	user.Name = req.Name
	user.Email = strings.ToLower(strings.TrimSpace(req.Email))
	user.Role = string(session.ParseRole(req.Role))
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to hash password")
			respondError(c, http.StatusInternalServerError, "Falha ao atualizar usuário")
			return
		}
		user.PasswordHash = hash
	}

	if err := s.db.Save(&user).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to update user")
		respondError(c, http.StatusInternalServerError, "Falha ao atualizar usuário")
		return
	}

	c.JSON(http.StatusOK, toUserResponse(&user))
}

func (s *Server) deleteUser(c *gin.Context) {
	current, _ := currentUser(c)
	id := c.Param("id")

	if current.ID == id {
		respondError(c, http.StatusBadRequest, "Não é possível excluir o próprio usuário")
		return
	}

	result := s.db.Where("id = ?", id).Delete(&models.User{})
	if result.Error != nil {
		s.logger.Error().Err(result.Error).Msg("Failed to delete user")
		respondError(c, http.StatusInternalServerError, "Falha ao excluir usuário")
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, http.StatusNotFound, "Usuário não encontrado")
		return
	}

	c.Status(http.StatusNoContent)
}
