package main

import (
	"fmt"
	"os"

	"github.com/inventario-app/inventario/internal/config"
	"github.com/inventario-app/inventario/internal/devserver"
	"github.com/inventario-app/inventario/internal/logger"
)

var version = "dev" // Will be set during build with -ldflags

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// The CLI defaults to quiet logs; a server should report its requests
	level := cfg.Logging.Level
	if os.Getenv("LOG_LEVEL") == "" {
		level = "info"
	}
	log := logger.New(level, cfg.Logging.Format, os.Stdout)

	srv, err := devserver.New(devserver.Options{
		DatabaseURL:     cfg.DevServer.DatabaseURL,
		JWTSecret:       cfg.DevServer.JWTSecret,
		TokenTTL:        cfg.DevServer.TokenTTL,
		SeedFile:        cfg.DevServer.SeedFile,
		CORSOrigins:     cfg.DevServer.CORSOrigins,
		OmitUserOnLogin: cfg.DevServer.LegacyLogin,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	log.Info().Str("version", version).Msg("Starting Inventario development server...")

	// Start HTTP server (this blocks)
	if err := srv.Start(cfg.DevServer.Addr); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
