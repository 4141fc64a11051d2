package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inventario-app/inventario/internal/app"
	"github.com/inventario-app/inventario/internal/config"
	"github.com/inventario-app/inventario/internal/logger"
	"github.com/inventario-app/inventario/internal/session"
)

// APIURLFlag is the persistent flag overriding the backend address
const APIURLFlag = "api-url"

const sessionExpiredNotice = "Your session has expired. Run 'inventario login' to sign in again."

var (
	ErrNotLoggedIn = errors.New("not logged in. Please run 'inventario login' first")
	ErrAdminOnly   = errors.New("this command requires an administrator account")
)

// newApp builds the session context for a command. Tests replace it to point
// the CLI at an in-process backend.
var newApp = defaultApp

func defaultApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())

	apiURL, _ := cmd.Flags().GetString(APIURLFlag)
	return app.New(cfg, log, app.Options{
		APIURL: apiURL,
		OnExpire: func() {
			fmt.Fprintln(cmd.ErrOrStderr(), sessionExpiredNotice)
		},
	})
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// authenticatedApp builds the app, runs the startup verification and fails
// unless a user is logged in. This is common logic used by most commands.
func authenticatedApp(cmd *cobra.Command) (*app.App, session.Session, error) {
	a, err := newApp(cmd)
	if err != nil {
		return nil, session.Session{}, err
	}

	s := a.Start(ctxOf(cmd))
	if !s.IsAuthenticated() {
		return nil, s, ErrNotLoggedIn
	}
	return a, s, nil
}

// adminApp is authenticatedApp restricted to administrators
func adminApp(cmd *cobra.Command) (*app.App, session.Session, error) {
	a, s, err := authenticatedApp(cmd)
	if err != nil {
		return nil, s, err
	}
	if !s.User.IsAdmin() {
		return nil, s, ErrAdminOnly
	}
	return a, s, nil
}
