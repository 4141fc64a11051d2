// Package devserver is a local stand-in for the inventory backend. It speaks
// the same wire contract as production so the client can be developed and
// tested without the real service.
package devserver

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/inventario-app/inventario/internal/assert"
	"github.com/inventario-app/inventario/internal/auth"
	"github.com/inventario-app/inventario/internal/models"
	"github.com/inventario-app/inventario/internal/session"
)

// Options configures a Server
type Options struct {
	DatabaseURL string
	// JWTSecret is generated and stored in the database when empty
	JWTSecret   string
	TokenTTL    time.Duration
	SeedFile    string
	CORSOrigins []string
	// OmitUserOnLogin makes login answer with only the token, the shape older
	// backends use
	OmitUserOnLogin bool
}

// Server represents the HTTP server
type Server struct {
	router    *gin.Engine
	db        *gorm.DB
	opts      Options
	logger    zerolog.Logger
	validator *validator.Validate
	tokens    *auth.Issuer
}

// New creates a new server instance
func New(opts Options, zlog zerolog.Logger) (*Server, error) {
	db, err := initDatabase(opts.DatabaseURL, zlog)
	if err != nil {
		return nil, err
	}

	if err := models.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	secret, err := loadJWTSecret(db, opts.JWTSecret)
	if err != nil {
		return nil, err
	}

	validate := validator.New()
	validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return session.ParseRole(fl.Field().String()).Valid()
	})

	s := &Server{
		db:        db,
		opts:      opts,
		logger:    zlog,
		validator: validate,
		tokens:    auth.NewIssuer(secret, opts.TokenTTL),
	}

	seed, err := loadSeed(opts.SeedFile)
	if err != nil {
		return nil, err
	}
	if err := s.applySeed(seed); err != nil {
		return nil, err
	}

	s.setupRouter()
	return s, nil
}

// initDatabase opens the SQLite database
func initDatabase(url string, zlog zerolog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(url), &gorm.Config{
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				LogLevel:                  logger.Error,
				IgnoreRecordNotFoundError: true,
				SlowThreshold:             200 * time.Millisecond,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	// SQLite allows one writer; a single connection avoids "database is locked"
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	for _, pragma := range []string{"PRAGMA foreign_keys=1", "PRAGMA busy_timeout=5000"} {
		if err := db.Exec(pragma).Error; err != nil {
			zlog.Warn().Str("pragma", pragma).Err(err).Msg("Failed to apply pragma")
		}
	}

	return db, nil
}

// loadJWTSecret returns the configured secret, else the one stored on a
// previous run, else a freshly generated one that is then stored.
func loadJWTSecret(db *gorm.DB, configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}

	var cfg models.Config
	err := db.First(&cfg).Error
	if err == nil {
		return cfg.JWTSecret, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("failed to load config: %w", err)
	}

	// 64 hex characters = 32 bytes of randomness
	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return "", fmt.Errorf("failed to generate JWT secret: %w", err)
	}
	cfg = models.Config{JWTSecret: hex.EncodeToString(secretBytes)}
	assert.Length(cfg.JWTSecret, 64)
	if err := db.Create(&cfg).Error; err != nil {
		return "", fmt.Errorf("failed to store JWT secret: %w", err)
	}
	return cfg.JWTSecret, nil
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	if len(s.opts.CORSOrigins) > 0 {
		s.router.Use(cors.New(cors.Config{
			AllowOrigins:     s.opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	s.router.GET("/health", s.healthCheck)
	s.router.POST("/usuarios/login", s.login)

	api := s.router.Group("")
	api.Use(JWTAuthMiddleware(s.db, s.tokens, s.logger))
	{
		api.GET("/usuarios/perfil", s.getProfile)
		api.PUT("/usuarios/perfil", s.updateProfile)
		api.PUT("/usuarios/senha", s.changePassword)

		api.GET("/produtos", s.listProducts)
		api.GET("/produtos/:id", s.getProduct)

		api.GET("/vendas", s.listSales)
		api.POST("/vendas", s.createSale)

		managers := api.Group("")
		managers.Use(RoleMiddleware(s.logger, session.RoleAdmin, session.RoleManager))
		{
			managers.POST("/produtos", s.createProduct)
			managers.PUT("/produtos/:id", s.updateProduct)
			managers.DELETE("/produtos/:id", s.deleteProduct)
		}

		admins := api.Group("/usuarios")
		admins.Use(RoleMiddleware(s.logger, session.RoleAdmin))
		{
			admins.GET("", s.listUsers)
			admins.POST("", s.createUser)
			admins.PUT("/:id", s.updateUser)
			admins.DELETE("/:id", s.deleteUser)
		}
	}
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "inventario-devserver",
	})
}

// Handler exposes the router, for httptest servers
func (s *Server) Handler() http.Handler {
	return s.router
}

// Tokens exposes the issuer, for tests that need a token without logging in
func (s *Server) Tokens() *auth.Issuer {
	return s.tokens
}

// Close releases the database connection
func (s *Server) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Start serves on addr until SIGINT/SIGTERM, then shuts down gracefully
func (s *Server) Start(addr string) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-sigChan:
	}
	s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	if err := s.Close(); err != nil {
		s.logger.Error().Err(err).Msg("Error closing database")
	}

	s.logger.Info().Msg("Server shutdown complete")
	return nil
}
