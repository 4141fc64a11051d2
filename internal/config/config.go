package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL         = "http://localhost:3000"
	DefaultRequestTimeout = 30 * time.Second
)

// Config holds all configuration for the application
type Config struct {
	// Backend API Configuration
	API APIConfig

	// Token persistence Configuration
	Token TokenConfig

	// Logging Configuration
	Logging LoggingConfig

	// Development server Configuration
	DevServer DevServerConfig
}

// APIConfig holds backend connection settings
type APIConfig struct {
	URL            string
	URLFromEnv     bool // true when INVENTARIO_API_URL was set
	RequestTimeout time.Duration
}

// TokenConfig selects where the bearer token is persisted
type TokenConfig struct {
	Store string // keyring, file
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// DevServerConfig holds settings for the local stub backend
type DevServerConfig struct {
	Addr        string
	DatabaseURL string
	JWTSecret   string
	TokenTTL    time.Duration
	SeedFile    string
	CORSOrigins []string
	// LegacyLogin makes login return only the token
	LegacyLogin bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	apiURL, fromEnv := os.LookupEnv("INVENTARIO_API_URL")
	if apiURL == "" {
		apiURL = DefaultAPIURL
		fromEnv = false
	}

	timeout := DefaultRequestTimeout
	if raw := os.Getenv("REQUEST_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid REQUEST_TIMEOUT %q: %w", raw, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", d)
		}
		timeout = d
	}

	tokenTTL := 12 * time.Hour
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_TTL %q: %w", raw, err)
		}
		tokenTTL = d
	}

	tokenStore := getenv("TOKEN_STORE", "keyring")

	// Logging configuration - console output suits an interactive CLI
	logLevel := getenv("LOG_LEVEL", "warn")
	logFormat := getenv("LOG_FORMAT", "console")

	return &Config{
		API: APIConfig{
			URL:            strings.TrimRight(apiURL, "/"),
			URLFromEnv:     fromEnv,
			RequestTimeout: timeout,
		},
		Token: TokenConfig{
			Store: tokenStore,
		},
		Logging: LoggingConfig{
			Level:  logLevel,
			Format: logFormat,
		},
		DevServer: DevServerConfig{
			Addr:        getenv("DEVSERVER_ADDR", ":3000"),
			DatabaseURL: getenv("DATABASE_URL", "inventario-dev.sqlite"),
			JWTSecret:   os.Getenv("JWT_SECRET"),
			TokenTTL:    tokenTTL,
			SeedFile:    os.Getenv("SEED_FILE"),
			CORSOrigins: splitList(getenv("CORS_ORIGINS", "http://localhost:5173")),
			LegacyLogin: getenv("DEVSERVER_LEGACY_LOGIN", "false") == "true",
		},
	}, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
