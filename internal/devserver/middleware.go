package devserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/inventario-app/inventario/internal/auth"
	"github.com/inventario-app/inventario/internal/models"
	"github.com/inventario-app/inventario/internal/session"
)

const (
	bearerPrefix = "Bearer "
	userKey      = "user"
)

var (
	ErrMissingAuthHeader = errors.New("missing authorization header")
	ErrInvalidAuthFormat = errors.New("invalid authorization header format")
	ErrEmptyToken        = errors.New("empty token")
	ErrInvalidToken      = errors.New("invalid token")
	ErrUserNotFound      = errors.New("user not found")
)

func currentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(userKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

func extractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}

	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", ErrInvalidAuthFormat
	}

	token := strings.TrimPrefix(authHeader, bearerPrefix)
	if token == "" {
		return "", ErrEmptyToken
	}

	return token, nil
}

// respondError writes the backend's error payload: {"erro": message}
func respondError(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, gin.H{"erro": message})
}

func respondWithError(c *gin.Context, log zerolog.Logger, statusCode int, err error, message string) {
	log.Warn().Err(err).Msg(message)
	respondError(c, statusCode, message)
}

// JWTAuthMiddleware validates the bearer token and loads its user
func JWTAuthMiddleware(db *gorm.DB, tokens *auth.Issuer, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			var message string
			switch err {
			case ErrMissingAuthHeader:
				message = "Token não fornecido"
			case ErrInvalidAuthFormat:
				message = "Formato de token inválido"
			case ErrEmptyToken:
				message = "Token vazio"
			}
			respondWithError(c, log, http.StatusUnauthorized, err, message)
			return
		}

		claims, err := tokens.ValidateToken(token)
		if err != nil {
			respondWithError(c, log, http.StatusUnauthorized, ErrInvalidToken, "Token inválido ou expirado")
			return
		}

		var user models.User
		if err := models.FindByID(db, claims.UserID, &user); err != nil {
			log.Warn().Err(err).Str("user_id", claims.UserID).Msg("User not found")
			respondWithError(c, log, http.StatusUnauthorized, ErrUserNotFound, "Usuário não encontrado")
			return
		}

		c.Set(userKey, &user)
		c.Next()
	}
}

// RoleMiddleware lets through only users holding one of roles
func RoleMiddleware(log zerolog.Logger, roles ...session.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := currentUser(c)
		if !exists {
			respondWithError(c, log, http.StatusUnauthorized, errors.New("no session"), "Não autorizado")
			return
		}

		role := session.ParseRole(user.Role)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		respondWithError(c, log, http.StatusForbidden, errors.New("insufficient role"), "Acesso negado")
	}
}
