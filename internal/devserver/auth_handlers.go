package devserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inventario-app/inventario/internal/assert"
	"github.com/inventario-app/inventario/internal/auth"
	"github.com/inventario-app/inventario/internal/models"
	"github.com/inventario-app/inventario/internal/session"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"senha" validate:"required"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user,omitempty"`
}

// UserResponse represents user information returned in responses
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"nome"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ProfileRequest represents an edit of one's own profile
type ProfileRequest struct {
	Name  string `json:"nome" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// PasswordRequest represents a password change
type PasswordRequest struct {
	Current string `json:"senhaAtual" validate:"required"`
	New     string `json:"novaSenha" validate:"required,min=6"`
}

func toUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  string(session.ParseRole(u.Role)),
	}
}

// bind decodes and validates a JSON body, answering 400 on failure
func (s *Server) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, http.StatusBadRequest, "Requisição inválida")
		return false
	}
	if err := s.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, "Dados inválidos: "+err.Error())
		return false
	}
	return true
}

func (s *Server) login(c *gin.Context) {
	var req LoginRequest
	if !s.bind(c, &req) {
		return
	}

	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(req.Email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusUnauthorized, "Credenciais inválidas")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find user")
		respondError(c, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}

	if err := auth.VerifyPassword(req.Password, user.PasswordHash); err != nil {
		respondError(c, http.StatusUnauthorized, "Credenciais inválidas")
		return
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate token")
		respondError(c, http.StatusInternalServerError, "Falha ao gerar token")
		return
	}

	assert.NotEmpty("token", token)
	s.logger.Info().Str("user_id", user.ID).Msg("User logged in")

	resp := LoginResponse{Token: token}
	if !s.opts.OmitUserOnLogin {
		resp.User = toUserResponse(&user)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) getProfile(c *gin.Context) {
	user, _ := currentUser(c)
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (s *Server) updateProfile(c *gin.Context) {
	user, _ := currentUser(c)

	var req ProfileRequest
	if !s.bind(c, &req) {
		return
	}

	email := strings.ToLower(req.Email)
	if email != user.Email {
		var count int64
		if err := s.db.Model(&models.User{}).Where("email = ? AND id <> ?", email, user.ID).Count(&count).Error; err != nil {
			s.logger.Error().Err(err).Msg("Failed to check email")
			respondError(c, http.StatusInternalServerError, "Erro interno do servidor")
			return
		}
		if count > 0 {
			respondError(c, http.StatusConflict, "E-mail já cadastrado")
			return
		}
	}

	user.Name = req.Name
	user.Email = email
	if err := s.db.Save(user).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to update profile")
		respondError(c, http.StatusInternalServerError, "Falha ao atualizar perfil")
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

func (s *Server) changePassword(c *gin.Context) {
	user, _ := currentUser(c)

	var req PasswordRequest
	if !s.bind(c, &req) {
		return
	}

	// 400 rather than 401: a wrong current password must not end the session
	if err := auth.VerifyPassword(req.Current, user.PasswordHash); err != nil {
		respondError(c, http.StatusBadRequest, "Senha atual incorreta")
		return
	}

	hash, err := auth.HashPassword(req.New)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		respondError(c, http.StatusInternalServerError, "Falha ao alterar senha")
		return
	}

	if err := s.db.Model(user).Update("password_hash", hash).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to update password")
		respondError(c, http.StatusInternalServerError, "Falha ao alterar senha")
		return
	}

	c.JSON(http.StatusOK, gin.H{"mensagem": "Senha alterada com sucesso"})
}
