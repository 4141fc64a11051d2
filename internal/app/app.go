// Package app constructs the session context shared by every command: one
// store, one gateway and one bootstrap per process.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/inventario-app/inventario/internal/cli/auth"
	"github.com/inventario-app/inventario/internal/cli/client"
	"github.com/inventario-app/inventario/internal/cli/userconfig"
	"github.com/inventario-app/inventario/internal/config"
	"github.com/inventario-app/inventario/internal/session"
)

// App is the explicit session context handed to consumers
type App struct {
	APIURL    string
	Log       zerolog.Logger
	Store     *session.Store
	Client    *client.Client
	Auth      *session.Service
	Bootstrap *session.Bootstrap
}

// Options override what would otherwise come from configuration
type Options struct {
	// APIURL takes precedence over every configured address
	APIURL string
	// Tokens replaces the configured token store
	Tokens     session.TokenStore
	HTTPClient *http.Client
	// OnExpire runs after a 401 has cleared the session
	OnExpire func()
}

// New wires the store, gateway, session service and bootstrap together
func New(cfg *config.Config, log zerolog.Logger, opts Options) (*App, error) {
	apiURL, err := ResolveAPIURL(opts.APIURL, cfg)
	if err != nil {
		return nil, err
	}

	tokens := opts.Tokens
	if tokens == nil {
		tokens, err = openTokenStore(cfg.Token.Store)
		if err != nil {
			return nil, err
		}
	}

	store := session.NewStore(tokens, log)

	var svc *session.Service
	clientOpts := []client.Option{
		client.WithLogger(log),
		client.WithTimeout(cfg.API.RequestTimeout),
		client.WithUnauthorizedHandler(func() { svc.Expire() }),
	}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, client.WithHTTPClient(opts.HTTPClient))
	}
	apiClient := client.New(apiURL, clientOpts...)

	svc = session.NewService(store, apiClient, log)
	svc.OnExpire(opts.OnExpire)

	return &App{
		APIURL:    apiURL,
		Log:       log,
		Store:     store,
		Client:    apiClient,
		Auth:      svc,
		Bootstrap: session.NewBootstrap(store, apiClient, log),
	}, nil
}

// Start runs the bootstrap and returns the resolved session
func (a *App) Start(ctx context.Context) session.Session {
	return a.Bootstrap.Run(ctx)
}

// ResolveAPIURL picks the backend address: explicit flag, then
// INVENTARIO_API_URL, then the saved user preference, then the default.
func ResolveAPIURL(flag string, cfg *config.Config) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if cfg.API.URLFromEnv {
		return cfg.API.URL, nil
	}

	saved, err := userconfig.GetAPIURL()
	if err != nil {
		return "", fmt.Errorf("failed to load user config: %w", err)
	}
	if saved != "" {
		return saved, nil
	}
	return cfg.API.URL, nil
}

func openTokenStore(backend string) (session.TokenStore, error) {
	path, err := userconfig.TokenPath()
	if err != nil && backend == auth.BackendFile {
		return nil, err
	}
	return auth.Open(backend, path)
}
